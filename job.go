package qsearch

import (
	"context"
	"time"
)

// Job is a unit of work run by the pool.
type Job struct {
	ID          string
	Fn          func(ctx context.Context) (any, error)
	RetryPolicy *RetryPolicy
	TTL         time.Duration
	Attempt     int
	LastError   error
	StartTime   time.Time
}

// JobOption is a function type for configuring jobs
type JobOption func(*Job)

// WithTTL configures how long a job's result stays in the space.
func WithTTL(ttl time.Duration) JobOption {
	return func(j *Job) {
		j.TTL = ttl
	}
}
