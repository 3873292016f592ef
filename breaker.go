package qsearch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

var ErrCircuitOpen = errors.New("backend circuit open")

// CircuitState is the operating mode of a BreakerBackend.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

/*
BreakerBackend wraps a Backend in a circuit breaker. After maxFailures
consecutive failed runs it opens and rejects every run with ErrCircuitOpen
until resetTimeout has passed. It then admits at most halfOpenMax trial runs;
if they all succeed it closes again, and a failure reopens it.

Input errors (bad circuits) and caller cancellation say nothing about backend
health and are passed through without being counted.
*/
type BreakerBackend struct {
	inner        Backend
	mu           sync.Mutex
	maxFailures  int
	resetTimeout time.Duration
	halfOpenMax  int
	failures     int
	state        CircuitState
	openTime     time.Time
	trials       int
	successes    int
	now          func() time.Time
}

func NewBreakerBackend(inner Backend, maxFailures int, resetTimeout time.Duration, halfOpenMax int) *BreakerBackend {
	if halfOpenMax < 1 {
		halfOpenMax = 1
	}

	return &BreakerBackend{
		inner:        inner,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		halfOpenMax:  halfOpenMax,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (b *BreakerBackend) Name() string {
	return b.inner.Name()
}

// State reports the current mode.
func (b *BreakerBackend) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *BreakerBackend) Run(ctx context.Context, c Circuit) (Measurement, error) {
	if !b.allow() {
		return Measurement{}, fmt.Errorf("%w: %s", ErrCircuitOpen, b.inner.Name())
	}

	m, err := b.inner.Run(ctx, c)

	switch {
	case err == nil:
		b.recordSuccess()
	case IsInputError(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		b.release()
	default:
		b.recordFailure()
	}

	return m, err
}

func (b *BreakerBackend) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if b.now().Sub(b.openTime) > b.resetTimeout {
			b.state = CircuitHalfOpen
			b.trials = 1
			b.successes = 0
			errnie.Info("%s breaker half-open", b.inner.Name())
			return true
		}
		return false
	default:
		if b.trials >= b.halfOpenMax {
			return false
		}
		b.trials++
		return true
	}
}

// release hands back a half-open trial slot whose run proved nothing.
func (b *BreakerBackend) release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitHalfOpen && b.trials > b.successes {
		b.trials--
	}
}

func (b *BreakerBackend) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++

	switch {
	case b.state == CircuitHalfOpen:
		b.open("reopened")
	case b.state == CircuitClosed && b.failures >= b.maxFailures:
		b.open("opened")
	}
}

func (b *BreakerBackend) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitHalfOpen:
		b.successes++
		if b.successes >= b.halfOpenMax {
			b.state = CircuitClosed
			b.failures = 0
			b.trials = 0
			b.successes = 0
			errnie.Info("%s breaker closed", b.inner.Name())
		}
	case CircuitClosed:
		b.failures = 0
	}
}

func (b *BreakerBackend) open(verb string) {
	b.state = CircuitOpen
	b.openTime = b.now()
	errnie.Info("%s breaker %s after %d failure(s)", b.inner.Name(), verb, b.failures)
}
