package qsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/theapemachine/errnie"
)

// Worker processes jobs
type Worker struct {
	pool *Pool
	jobs chan Job
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case w.pool.workers <- w.jobs:
			select {
			case job := <-w.jobs:
				w.handle(ctx, job)
			case <-ctx.Done():
				return
			}
		}
	}
}

// handle runs one job under the pool's job timeout and stores its result.
func (w *Worker) handle(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, w.pool.jobTimeout())
	defer cancel()

	done := make(chan struct{})
	var (
		result any
		err    error
	)

	go func() {
		defer close(done)
		result, err = w.processJob(jobCtx, job)
	}()

	select {
	case <-done:
		w.pool.space.Store(job.ID, result, err, job.TTL)
	case <-jobCtx.Done():
		errnie.Info("job %s timed out", job.ID)
		w.pool.space.Store(job.ID, nil, fmt.Errorf("job %s timed out: %w", job.ID, jobCtx.Err()), job.TTL)
		<-done
	}
}

func (w *Worker) processJob(ctx context.Context, job Job) (any, error) {
	result, err := w.executeWithRetries(ctx, job)
	w.pool.metrics.recordJobExecution(job.StartTime, err == nil)

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (w *Worker) executeWithRetries(ctx context.Context, job Job) (any, error) {
	policy := job.RetryPolicy
	if policy == nil || policy.MaxAttempts < 1 {
		policy = &RetryPolicy{MaxAttempts: 1}
	}

	attempts := 0
	for job.Attempt = 0; job.Attempt < policy.MaxAttempts; job.Attempt++ {
		attempts++
		if job.Attempt > 0 {
			w.pool.metrics.recordRetry()

			var delay time.Duration
			if policy.Strategy != nil {
				delay = policy.Strategy.NextDelay(job.Attempt)
			}
			errnie.Info("job %s retrying attempt %d after %v", job.ID, job.Attempt+1, delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("job %s: %w", job.ID, ctx.Err())
			}
		}

		result, err := job.Fn(ctx)
		if err == nil {
			return result, nil
		}

		job.LastError = err
		errnie.Info("job %s attempt %d failed with error: %v", job.ID, job.Attempt+1, err)

		if policy.Filter != nil && !policy.Filter(err) {
			break
		}
	}

	return nil, fmt.Errorf("job %s failed after %d attempt(s): %w", job.ID, attempts, job.LastError)
}
