package fn

import (
	"context"
	"math/rand"
	"time"
)

// RetryOpts configures retry behavior.
type RetryOpts struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Jitter      bool
}

// DefaultRetry provides sensible retry defaults.
var DefaultRetry = RetryOpts{
	MaxAttempts: 3,
	InitialWait: time.Second,
	MaxWait:     30 * time.Second,
	Jitter:      true,
}

// Retry retries f up to MaxAttempts times with exponential backoff.
// The last error is returned when all attempts fail.
func Retry[T any](ctx context.Context, opts RetryOpts, f func(context.Context) (T, error)) (T, error) {
	var (
		val  T
		err  error
		wait = opts.InitialWait
	)

	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		val, err = f(ctx)
		if err == nil {
			return val, nil
		}
		if attempt == opts.MaxAttempts-1 {
			break
		}

		sleepDur := wait
		if opts.Jitter {
			sleepDur = time.Duration(float64(wait) * (0.5 + rand.Float64()))
		}
		if sleepDur > opts.MaxWait {
			sleepDur = opts.MaxWait
		}

		select {
		case <-ctx.Done():
			return val, ctx.Err()
		case <-time.After(sleepDur):
		}

		wait *= 2
		if wait > opts.MaxWait {
			wait = opts.MaxWait
		}
	}
	return val, err
}
