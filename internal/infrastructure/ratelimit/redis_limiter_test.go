package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	l := NewRedisLimiter(rdb)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, 42, 1))
	assert.False(t, l.Allow(ctx, 42, 1))
	assert.True(t, l.Allow(ctx, 42, 2))

	mr.FastForward(time.Second)
	assert.True(t, l.Allow(ctx, 42, 1))
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })

	mr.Close()

	l := NewRedisLimiter(rdb)
	assert.True(t, l.Allow(context.Background(), 42, 1))
}
