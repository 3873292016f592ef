package qsearch

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryPolicy defines retry behavior
type RetryPolicy struct {
	MaxAttempts int
	Strategy    RetryStrategy
	Filter      func(error) bool
}

// RetryStrategy defines the interface for retry behavior
type RetryStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff implements RetryStrategy
type ExponentialBackoff struct {
	Initial time.Duration
	Max     time.Duration
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delay := eb.Initial * time.Duration(math.Pow(2, float64(attempt-1)))
	if eb.Max > 0 && delay > eb.Max {
		return eb.Max
	}

	return delay
}

/*
Retryable is the default retry filter. Bad input and cancellation fail the
same way on every attempt, so only other errors are retried.
*/
func Retryable(err error) bool {
	if IsInputError(err) || errors.Is(err, ErrCircuitOpen) {
		return false
	}

	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func defaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		Strategy:    &ExponentialBackoff{Initial: 10 * time.Millisecond, Max: time.Second},
		Filter:      Retryable,
	}
}

// WithRetry configures retry behavior for a job
func WithRetry(attempts int, strategy RetryStrategy) JobOption {
	return func(j *Job) {
		j.RetryPolicy = &RetryPolicy{
			MaxAttempts: attempts,
			Strategy:    strategy,
			Filter:      Retryable,
		}
	}
}
