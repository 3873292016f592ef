package qsearch

import (
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// Result wraps a job's value with metadata
type Result struct {
	Value     any
	Error     error
	CreatedAt time.Time
	TTL       time.Duration
}

// Space holds job results and hands them to whoever awaits them.
type Space struct {
	mu      sync.Mutex
	values  map[string]Result
	waiting map[string][]chan Result
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewSpace(sweep time.Duration) *Space {
	s := &Space{
		values:  make(map[string]Result),
		waiting: make(map[string][]chan Result),
		done:    make(chan struct{}),
	}

	if sweep > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.cleanup(sweep)
		}()
	}

	return s
}

// Store records a result and wakes every channel waiting on id.
func (s *Space) Store(id string, value any, err error, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Result{
		Value:     value,
		Error:     err,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}
	s.values[id] = r

	channels := s.waiting[id]
	for _, ch := range channels {
		ch <- r
		close(ch)
	}
	delete(s.waiting, id)

	errnie.Info("stored result for job %s (err=%v, waiting=%d)", id, err, len(channels))
}

// Await returns a channel that will receive the result once it is stored.
func (s *Space) Await(id string) <-chan Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Result, 1)

	if r, ok := s.values[id]; ok {
		ch <- r
		close(ch)
		return ch
	}

	s.waiting[id] = append(s.waiting[id], ch)
	return ch
}

// Exists reports whether a result for id is stored.
func (s *Space) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.values[id]
	return ok
}

func (s *Space) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.cleanupExpired(time.Now())
			s.mu.Unlock()
		}
	}
}

func (s *Space) cleanupExpired(now time.Time) {
	for id, r := range s.values {
		if r.TTL > 0 && now.Sub(r.CreatedAt) > r.TTL {
			delete(s.values, id)
		}
	}
}

// Close stops the sweeper. Waiting channels are closed without a value.
func (s *Space) Close() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()

		s.mu.Lock()
		defer s.mu.Unlock()

		for id, channels := range s.waiting {
			for _, ch := range channels {
				close(ch)
			}
			delete(s.waiting, id)
		}
	})
}
