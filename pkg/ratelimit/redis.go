package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisKey is the Redis key every run shares its request budget under.
const RedisKey string = `sevalla-action:sevalla:api`

// Redis is a rate limiter whose budget is shared through Redis, so that
// concurrent CI jobs using the same token stay under the platform limit together.
type Redis struct {
	*redis_rate.Limiter
	MaxRPS int
}

// NewRedisLimiter creates a new Redis-based rate limiter.
func NewRedisLimiter(redisClient *redis.Client, maxRPS int) Limiter {
	return Redis{
		Limiter: redis_rate.NewLimiter(redisClient),
		MaxRPS:  maxRPS,
	}
}

// Take polls the shared bucket until a request is allowed.
func (r Redis) Take(ctx context.Context) (time.Duration, error) {
	start := time.Now()

	for {
		res, err := r.Allow(ctx, RedisKey, redis_rate.PerSecond(r.MaxRPS))
		if err != nil {
			return time.Since(start), errors.Wrap(err, "querying redis rate limiter")
		}

		if res.Allowed > 0 {
			return time.Since(start), nil
		}

		log.WithContext(ctx).
			WithFields(log.Fields{
				"for": res.RetryAfter.String(),
			}).
			Debug("throttled Sevalla requests")

		select {
		case <-ctx.Done():
			return time.Since(start), ctx.Err()
		case <-time.After(res.RetryAfter):
		}
	}
}
