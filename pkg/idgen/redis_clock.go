package idgen

import (
	"context"
	"time"

	"github.com/anthanhphan/gosdk/logger"
	"github.com/redis/go-redis/v9"
)

// Clock abstracts the time source for the ID generator.
type Clock interface {
	// Now returns the current timestamp in milliseconds.
	Now() int64
}

// SystemClock uses the local system time.
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().UnixMilli()
}

// RedisClock reads the Redis server TIME so that importers on different hosts
// share one time source. It falls back to the local clock when Redis is unreachable.
type RedisClock struct {
	client  redis.Cmdable
	timeout time.Duration
}

func NewRedisClock(client redis.Cmdable, timeout time.Duration) *RedisClock {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &RedisClock{client: client, timeout: timeout}
}

func (r *RedisClock) Now() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	res, err := r.client.Time(ctx).Result()
	if err != nil {
		logger.Warnw("Redis clock unavailable, using local time", "error", err.Error())
		return time.Now().UnixMilli()
	}
	return res.UnixMilli()
}
