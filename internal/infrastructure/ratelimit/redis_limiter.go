package ratelimit

import (
	"context"

	"github.com/redis/go-redis/v9"

	"matchchat/pkg/logger"
)

const redisKeyPrefix = "matchchat:ratelimit:"

// RedisLimiter shares throttle state across instances. A post is allowed when
// no key exists for the pair; the key then lives for MinPostInterval.
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

// Allow fails open when redis is unreachable; eligibility still applies.
func (l *RedisLimiter) Allow(ctx context.Context, matchID, userID int64) bool {
	ok, err := l.rdb.SetNX(ctx, redisKeyPrefix+key(matchID, userID), 1, MinPostInterval).Result()
	if err != nil {
		logger.Warn("rate limiter redis error, allowing post: %v", err)
		return true
	}
	return ok
}
