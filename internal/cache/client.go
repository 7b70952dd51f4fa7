package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the subset of cache operations the page cache needs. A key holds
// several fields; deleting the key drops all of them.
type Store interface {
	GetField(ctx context.Context, key, field string) ([]byte, error)
	SetField(ctx context.Context, key, field string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
type Client struct {
	client *redis.Client
}

var _ Store = (*Client)(nil)

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// GetField returns the hash field or nil if missing or redis unavailable.
func (c *Client) GetField(ctx context.Context, key, field string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.HGet(ctx, key, field).Bytes()
	if err != nil {
		// redis.Nil or connectivity: both read as a miss
		return nil, nil
	}
	return res, nil
}

// SetField stores a hash field and refreshes the key's TTL, ignoring redis errors.
func (c *Client) SetField(ctx context.Context, key, field string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, _ = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	_ = c.client.Del(ctx, keys...).Err()
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
