package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every key so the database can be shared.
const keyPrefix = "newsdesk:"

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
type Client struct {
	client *redis.Client
}

func key(k string) string {
	return keyPrefix + k
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Ping reports whether redis is reachable. Unlike the other methods it
// returns the underlying error.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, k string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key(k)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, k string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key(k), value, ttl).Err(); err != nil {
		// fail safe: ignore redis errors
		return nil
	}
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, k string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key(k)).Err(); err != nil {
		return nil
	}
	return nil
}

// Incr increments a counter and starts its TTL on first use, so the window
// is fixed from the first increment. Both commands run in one MULTI block.
// Returns 0 when redis is unavailable.
func (c *Client) Incr(ctx context.Context, k string, ttl time.Duration) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key(k))
		pipe.ExpireNX(ctx, key(k), ttl)
		return nil
	})
	if err != nil {
		return 0, nil
	}
	return incr.Val(), nil
}

// Count reads a counter written by Incr. Missing keys and redis failures read as 0.
func (c *Client) Count(ctx context.Context, k string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	n, err := c.client.Get(ctx, key(k)).Int64()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// GetJSON decodes a cached value into dst. It reports false on a miss or
// when the stored value no longer decodes.
func (c *Client) GetJSON(ctx context.Context, k string, dst any) bool {
	data, _ := c.Get(ctx, k)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON stores v encoded as JSON. Values that fail to encode are skipped.
func (c *Client) SetJSON(ctx context.Context, k string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return c.Set(ctx, k, payload, ttl)
}
