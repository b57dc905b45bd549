package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
	defaultPoolSize     = 10
	defaultPingRetries  = 5
)

type options struct {
	redis       *redis.Options
	pingRetries uint64
}

type Option func(*options)

func WithPassword(password string) Option {
	return func(o *options) {
		o.redis.Password = password
	}
}

func WithDB(db int) Option {
	return func(o *options) {
		o.redis.DB = db
	}
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.redis.DialTimeout = d
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.redis.ReadTimeout = d
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.redis.WriteTimeout = d
	}
}

func WithPoolSize(n int) Option {
	return func(o *options) {
		o.redis.PoolSize = n
	}
}

// WithConnectRetries sets how many times a failed initial PING is retried
// with exponential backoff. Zero disables retries.
func WithConnectRetries(n uint64) Option {
	return func(o *options) {
		o.pingRetries = n
	}
}

// New creates a client for addr and waits until it answers PING.
func New(ctx context.Context, addr string, opts ...Option) (*redis.Client, error) {
	const op = "redis.New"

	o := &options{
		redis: &redis.Options{
			Addr:         addr,
			DialTimeout:  defaultDialTimeout,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			PoolSize:     defaultPoolSize,
		},
		pingRetries: defaultPingRetries,
	}

	for _, opt := range opts {
		opt(o)
	}

	client := redis.NewClient(o.redis)

	ping := func() error {
		return client.Ping(ctx).Err()
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), o.pingRetries), ctx)
	if err := backoff.Retry(ping, b); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
	}

	return client, nil
}
