// Package retry repeats fallible calls with backoff until they succeed, a non-retryable error
// occurs or the context ends.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const defaultDelay = 100 * time.Millisecond

type Backoff func(attempt int) time.Duration

type ShouldRetry func(error) bool

type Config struct {
	MaxAttempts int
	Backoff     Backoff
	ShouldRetry ShouldRetry
}

func (c *Config) normalize() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.Backoff == nil {
		c.Backoff = Exponential(defaultDelay)
	}
	if c.ShouldRetry == nil {
		c.ShouldRetry = func(error) bool { return true }
	}
}

// Exponential doubles delay per attempt and adds up to 50% jitter.
func Exponential(delay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		base := delay << attempt
		jitter := time.Duration(rand.Int64N(int64(base/2) + 1))
		return base + jitter
	}
}

// Constant waits the same delay between attempts.
func Constant(delay time.Duration) Backoff {
	return func(int) time.Duration {
		return delay
	}
}

func Do(ctx context.Context, c Config, fn func() error) error {
	_, err := DoWithResult(ctx, c, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func DoWithResult[T any](ctx context.Context, c Config, fn func() (T, error)) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.normalize()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	var err error
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		var result T
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if !c.ShouldRetry(err) || attempt == c.MaxAttempts {
			break
		}

		timer.Reset(c.Backoff(attempt))
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}

	return zero, err
}
