package qsearch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type flakyBackend struct {
	err   error
	calls int
}

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) Run(ctx context.Context, c Circuit) (Measurement, error) {
	f.calls++
	if f.err != nil {
		return Measurement{}, f.err
	}
	return Measurement{Circuit: c}, nil
}

func TestBreakerBackend(t *testing.T) {
	Convey("Given a breaker around a failing backend", t, func() {
		inner := &flakyBackend{err: errors.New("device offline")}
		breaker := NewBreakerBackend(inner, 2, time.Minute, 1)

		clock := time.Unix(0, 0)
		breaker.now = func() time.Time { return clock }

		ctx := context.Background()
		c := Circuit{Qubits: 2, Target: 1, Iterations: 1, Shots: 8}

		Convey("It opens after the failure threshold", func() {
			_, err := breaker.Run(ctx, c)
			So(err, ShouldNotBeNil)
			So(breaker.State(), ShouldEqual, CircuitClosed)

			_, _ = breaker.Run(ctx, c)
			So(breaker.State(), ShouldEqual, CircuitOpen)

			_, err = breaker.Run(ctx, c)
			So(errors.Is(err, ErrCircuitOpen), ShouldBeTrue)
			So(inner.calls, ShouldEqual, 2)
			So(Retryable(err), ShouldBeFalse)

			Convey("It lets a trial through once the reset timeout passes", func() {
				clock = clock.Add(2 * time.Minute)
				inner.err = nil

				_, err := breaker.Run(ctx, c)
				So(err, ShouldBeNil)
				So(breaker.State(), ShouldEqual, CircuitClosed)
			})

			Convey("A failed trial reopens it", func() {
				clock = clock.Add(2 * time.Minute)

				_, err := breaker.Run(ctx, c)
				So(errors.Is(err, ErrCircuitOpen), ShouldBeFalse)
				So(breaker.State(), ShouldEqual, CircuitOpen)
			})
		})

		Convey("Input errors are not counted", func() {
			inner.err = &InvalidSizeError{Size: 3, Reason: "not a power of two"}

			for i := 0; i < 5; i++ {
				_, _ = breaker.Run(ctx, c)
			}
			So(breaker.State(), ShouldEqual, CircuitClosed)
		})

		Convey("Cancelled runs are not counted", func() {
			inner.err = context.Canceled
			for i := 0; i < 3; i++ {
				_, _ = breaker.Run(ctx, c)
			}
			So(breaker.State(), ShouldEqual, CircuitClosed)

			inner.err = context.DeadlineExceeded
			for i := 0; i < 3; i++ {
				_, _ = breaker.Run(ctx, c)
			}
			So(breaker.State(), ShouldEqual, CircuitClosed)
		})

		Convey("A cancelled trial gives its slot back", func() {
			_, _ = breaker.Run(ctx, c)
			_, _ = breaker.Run(ctx, c)
			So(breaker.State(), ShouldEqual, CircuitOpen)

			clock = clock.Add(2 * time.Minute)
			inner.err = context.Canceled

			_, err := breaker.Run(ctx, c)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(breaker.State(), ShouldEqual, CircuitHalfOpen)

			inner.err = nil
			_, err = breaker.Run(ctx, c)
			So(err, ShouldBeNil)
			So(breaker.State(), ShouldEqual, CircuitClosed)
		})

		Convey("A success resets the failure count", func() {
			_, _ = breaker.Run(ctx, c)
			inner.err = nil
			_, _ = breaker.Run(ctx, c)
			inner.err = errors.New("device offline")
			_, _ = breaker.Run(ctx, c)

			So(breaker.State(), ShouldEqual, CircuitClosed)
			So(breaker.Name(), ShouldEqual, "flaky")
			So(breaker.State().String(), ShouldEqual, "closed")
		})
	})
}

type gatedBackend struct {
	gate  chan struct{}
	fail  atomic.Bool
	calls atomic.Int32
}

func (g *gatedBackend) Name() string { return "gated" }

func (g *gatedBackend) Run(ctx context.Context, c Circuit) (Measurement, error) {
	g.calls.Add(1)
	if g.fail.Load() {
		return Measurement{}, errors.New("device offline")
	}
	<-g.gate
	return Measurement{Circuit: c}, nil
}

func TestBreakerHalfOpenConcurrency(t *testing.T) {
	Convey("Given a half-open breaker allowing one trial", t, func() {
		inner := &gatedBackend{gate: make(chan struct{})}
		inner.fail.Store(true)

		breaker := NewBreakerBackend(inner, 1, time.Minute, 1)
		clock := time.Unix(0, 0)
		breaker.now = func() time.Time { return clock }

		ctx := context.Background()
		c := Circuit{Qubits: 2, Target: 1, Iterations: 1, Shots: 8}

		_, _ = breaker.Run(ctx, c)
		So(breaker.State(), ShouldEqual, CircuitOpen)

		clock = clock.Add(2 * time.Minute)
		inner.fail.Store(false)
		inner.calls.Store(0)

		Convey("Concurrent callers get exactly one trial through", func() {
			errs := make(chan error, 4)
			for i := 0; i < 4; i++ {
				go func() {
					_, err := breaker.Run(ctx, c)
					errs <- err
				}()
			}

			for i := 0; i < 3; i++ {
				So(errors.Is(<-errs, ErrCircuitOpen), ShouldBeTrue)
			}
			So(int(inner.calls.Load()), ShouldEqual, 1)

			close(inner.gate)
			So(<-errs, ShouldBeNil)
			So(breaker.State(), ShouldEqual, CircuitClosed)
		})
	})
}
