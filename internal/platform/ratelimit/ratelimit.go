package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates outbound model calls. Implementations must honor ctx cancellation.
type Limiter interface {
	Wait(ctx context.Context) error
}

type tokenBucket struct {
	l *rate.Limiter
}

// NewTokenBucket returns a limiter allowing rps requests per second with the given burst.
// A non-positive rps yields a no-op limiter.
func NewTokenBucket(rps float64, burst int) Limiter {
	if rps <= 0 {
		return Noop{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &tokenBucket{l: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t *tokenBucket) Wait(ctx context.Context) error {
	return t.l.Wait(ctx)
}

// Noop never blocks. Used in tests and when limiting is disabled.
type Noop struct{}

func (Noop) Wait(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
