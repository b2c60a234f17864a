package ratelimit

import (
	"context"
	"time"
)

// Limiter paces outgoing Sevalla API requests.
type Limiter interface {
	// Take blocks until a request is allowed or the context is done,
	// and returns how long the caller had to wait.
	Take(ctx context.Context) (time.Duration, error)
}

// Take is a helper that applies the given Limiter and discards the wait duration.
// A nil Limiter never blocks.
func Take(ctx context.Context, l Limiter) error {
	if l == nil {
		return nil
	}

	_, err := l.Take(ctx)

	return err
}
