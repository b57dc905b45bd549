package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	o := &options{redis: new(redis.Options)}

	for _, opt := range []Option{
		WithPassword("secret"),
		WithDB(2),
		WithDialTimeout(time.Second),
		WithReadTimeout(2 * time.Second),
		WithWriteTimeout(3 * time.Second),
		WithPoolSize(7),
		WithConnectRetries(1),
	} {
		opt(o)
	}

	assert.Equal(t, "secret", o.redis.Password)
	assert.Equal(t, 2, o.redis.DB)
	assert.Equal(t, time.Second, o.redis.DialTimeout)
	assert.Equal(t, 2*time.Second, o.redis.ReadTimeout)
	assert.Equal(t, 3*time.Second, o.redis.WriteTimeout)
	assert.Equal(t, 7, o.redis.PoolSize)
	assert.Equal(t, uint64(1), o.pingRetries)
}

func TestNew(t *testing.T) {
	t.Run("unreachable server", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := New(ctx, "127.0.0.1:1",
			WithConnectRetries(0),
			WithDialTimeout(100*time.Millisecond),
		)

		require.Error(t, err)
		assert.Nil(t, client)
	})
}
