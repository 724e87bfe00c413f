// Package scheduler runs the periodic jobs of the newsroom.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// jobTimeout bounds one run of a job.
const jobTimeout = time.Minute

// DuePublisher publishes approved articles whose schedule has passed.
type DuePublisher interface {
	PublishDue(ctx context.Context) (int, error)
}

// Scheduler publishes scheduled articles on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	publisher DuePublisher
	log       zerolog.Logger
}

// New creates a scheduler that runs the publish job on spec, a standard
// cron expression or a descriptor such as "@every 1m".
func New(publisher DuePublisher, spec string, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		publisher: publisher,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the jobs in the background until Stop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunOnce publishes every due article now.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	n, err := s.publisher.PublishDue(ctx)
	if err != nil {
		return n, fmt.Errorf("publish due articles: %w", err)
	}
	return n, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error().Err(err).Int("published", n).Msg("scheduled publishing failed")
		return
	}
	if n > 0 {
		s.log.Info().Int("published", n).Msg("scheduled articles published")
	}
}
