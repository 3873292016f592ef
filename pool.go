package qsearch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// Pool runs benchmark jobs on a fixed set of workers.
type Pool struct {
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	workers    chan chan Job
	jobs       chan Job
	space      *Space
	metrics    *Metrics
	config     *Config
	closeOnce  sync.Once
	workerMu   sync.Mutex
	workerList []*Worker
}

// NewPool starts cfg.Workers workers and the dispatcher.
func NewPool(ctx context.Context, cfg *Config) *Pool {
	if cfg == nil {
		cfg = NewConfig()
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	// The queue holds at least one job per register width, so a full sweep
	// never blocks in Schedule.
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		ctx:        ctx,
		cancel:     cancel,
		jobs:       make(chan Job, max(workers*10, maxQubits)),
		workers:    make(chan chan Job, workers),
		space:      NewSpace(time.Minute),
		metrics:    NewMetrics(),
		config:     cfg,
		workerList: make([]*Worker, 0, workers),
	}

	for i := 0; i < workers; i++ {
		p.startWorker()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.manage()
	}()

	return p
}

// manage hands queued jobs to idle workers. A queued job waits for a worker
// for as long as the pool lives; only Schedule gives up on a full queue.
func (p *Pool) manage() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobs:
			p.metrics.mu.Lock()
			p.metrics.JobQueueSize = len(p.jobs)
			p.metrics.mu.Unlock()

			select {
			case <-p.ctx.Done():
				p.space.Store(job.ID, nil, fmt.Errorf("job %s: %w", job.ID, p.ctx.Err()), job.TTL)
				return
			case workerChan := <-p.workers:
				select {
				case workerChan <- job:
				case <-p.ctx.Done():
					p.space.Store(job.ID, nil, fmt.Errorf("job %s: %w", job.ID, p.ctx.Err()), job.TTL)
					return
				}
			}
		}
	}
}

/*
Schedule queues fn under id and returns a channel that receives its result.
Unless overridden with WithRetry, a job is attempted up to three times with
exponential backoff, and input errors are never retried.
*/
func (p *Pool) Schedule(id string, fn func(ctx context.Context) (any, error), opts ...JobOption) <-chan Result {
	job := Job{
		ID:          id,
		Fn:          fn,
		RetryPolicy: defaultRetryPolicy(),
		StartTime:   time.Now(),
	}

	for _, opt := range opts {
		opt(&job)
	}

	result := p.space.Await(id)

	if err := p.ctx.Err(); err != nil {
		p.space.Store(id, nil, fmt.Errorf("job %s: %w", id, err), job.TTL)
		return result
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.schedulingTimeout())
	defer cancel()

	select {
	case p.jobs <- job:
		return result
	case <-ctx.Done():
		p.metrics.recordSchedulingFailure()
		p.space.Store(id, nil, fmt.Errorf("job %s scheduling timeout: %w", id, ctx.Err()), job.TTL)
		return result
	}
}

// Metrics returns the live pool metrics.
func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

func (p *Pool) startWorker() {
	worker := &Worker{
		pool: p,
		jobs: make(chan Job),
	}

	p.workerMu.Lock()
	p.workerList = append(p.workerList, worker)
	p.workerMu.Unlock()

	p.metrics.mu.Lock()
	p.metrics.WorkerCount++
	count := p.metrics.WorkerCount
	p.metrics.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		worker.run(p.ctx)
	}()

	errnie.Info("started worker, total workers: %d", count)
}

func (p *Pool) schedulingTimeout() time.Duration {
	if p.config != nil && p.config.SchedulingTimeout > 0 {
		return p.config.SchedulingTimeout
	}
	return 5 * time.Second
}

func (p *Pool) jobTimeout() time.Duration {
	if p.config != nil && p.config.JobTimeout > 0 {
		return p.config.JobTimeout
	}
	return 30 * time.Second
}

// Close cancels outstanding work and waits for every goroutine to exit.
func (p *Pool) Close() {
	if p == nil {
		return
	}

	p.closeOnce.Do(func() {
		errnie.Info("closing pool")

		p.cancel()
		p.wg.Wait()
		p.space.Close()

		p.workerMu.Lock()
		p.workerList = nil
		p.workerMu.Unlock()

		errnie.Info("pool closed - %v", p.metrics.Export())
	})
}
