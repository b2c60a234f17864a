package ratelimit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Local is an in-process token bucket, used when no Redis is configured.
type Local struct {
	*rate.Limiter
}

// NewLocalLimiter creates a new local rate limiter with the given sustained and burst rates.
func NewLocalLimiter(maximumRPS int, burstableRPS int) Limiter {
	return Local{
		Limiter: rate.NewLimiter(rate.Limit(maximumRPS), burstableRPS),
	}
}

// Take waits for a token from the bucket.
func (l Local) Take(ctx context.Context) (time.Duration, error) {
	start := time.Now()

	if err := l.Limiter.Wait(ctx); err != nil {
		return time.Since(start), errors.Wrap(err, "waiting for local rate limiter")
	}

	return time.Since(start), nil
}
