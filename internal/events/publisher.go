package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	publishTimeout = 3 * time.Second
	redialDelay    = 10 * time.Second
	queueSize      = 256
)

var (
	// ErrQueueFull is returned when events arrive faster than the broker takes them.
	ErrQueueFull = errors.New("event queue full")
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("event publisher closed")

	errBrokerDown = errors.New("broker unavailable, waiting to redial")
)

// Publisher sends article events.
type Publisher interface {
	Publish(ctx context.Context, event ArticleEvent) error
	Close() error
}

// NewPublisher returns an AMQP publisher, or a no-op one when url is empty.
func NewPublisher(url, exchange string, log zerolog.Logger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return NewAMQPPublisher(url, exchange, log)
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, ArticleEvent) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// AMQPPublisher publishes events to a durable topic exchange. Publish only
// queues the event; a single goroutine owns the broker connection and
// delivers in order, redialing after failures.
type AMQPPublisher struct {
	url      string
	exchange string
	log      zerolog.Logger

	queue     chan ArticleEvent
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// owned by run
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// NewAMQPPublisher starts the delivery goroutine. Call Close to stop it.
func NewAMQPPublisher(url, exchange string, log zerolog.Logger) *AMQPPublisher {
	p := &AMQPPublisher{
		url:      url,
		exchange: exchange,
		log:      log.With().Str("component", "events").Logger(),
		queue:    make(chan ArticleEvent, queueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues one event without waiting on the broker. Delivery
// failures are logged by the delivery goroutine.
func (p *AMQPPublisher) Publish(_ context.Context, event ArticleEvent) error {
	select {
	case <-p.quit:
		return ErrPublisherClosed
	default:
	}
	select {
	case p.queue <- event:
		return nil
	default:
		p.log.Warn().Str("type", event.Type).Str("article", event.ArticleID.String()).Msg("event queue full, dropping event")
		return ErrQueueFull
	}
}

// Close delivers what is already queued, then closes the connection.
func (p *AMQPPublisher) Close() error {
	p.closeOnce.Do(func() { close(p.quit) })
	<-p.done
	return nil
}

func (p *AMQPPublisher) run() {
	defer close(p.done)
	defer p.disconnect()
	for {
		select {
		case event := <-p.queue:
			p.deliver(event)
		case <-p.quit:
			for {
				select {
				case event := <-p.queue:
					p.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (p *AMQPPublisher) deliver(event ArticleEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.send(ctx, event); err != nil {
		p.log.Warn().Err(err).Str("type", event.Type).Str("article", event.ArticleID.String()).Msg("event publish failed")
		return
	}
	p.log.Debug().Str("type", event.Type).Str("article", event.ArticleID.String()).Msg("event published")
}

// send publishes one event as a persistent JSON message routed by its type.
func (p *AMQPPublisher) send(ctx context.Context, event ArticleEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         event.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, pub); err != nil {
		p.disconnect()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// channel returns the open channel, dialing when there is none. After a
// failed dial it refuses to redial until redialDelay has passed.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.disconnect()
	if time.Now().Before(p.retryAt) {
		return nil, errBrokerDown
	}

	ch, err := p.dial()
	if err != nil {
		p.retryAt = time.Now().Add(redialDelay)
		return nil, err
	}
	p.retryAt = time.Time{}
	p.log.Info().Str("exchange", p.exchange).Msg("connected to broker")
	return ch, nil
}

func (p *AMQPPublisher) dial() (*amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(publishTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // kind
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) disconnect() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
