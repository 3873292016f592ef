package qsearch

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func countShots(counts map[int]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

func TestStateVectorBackend(t *testing.T) {
	Convey("Given a seeded state vector backend", t, func() {
		backend := NewStateVectorBackend(42, 12)
		ctx := context.Background()

		Convey("Four states and one round always hit the target", func() {
			m, err := backend.Run(ctx, Circuit{Qubits: 2, Target: 1, Iterations: 1, Shots: 500})
			So(err, ShouldBeNil)
			So(countShots(m.Counts), ShouldEqual, 500)
			So(m.SuccessRate(), ShouldBeGreaterThanOrEqualTo, 0.99)
			So(m.Mode(), ShouldEqual, 1)
			So(m.Bitstring(1), ShouldEqual, "01")
		})

		Convey("The same seed reproduces the same histogram", func() {
			c := Circuit{Qubits: 5, Target: 7, Iterations: 2, Shots: 256}
			a, err := backend.Run(ctx, c)
			So(err, ShouldBeNil)
			b, err := backend.Run(ctx, c)
			So(err, ShouldBeNil)
			So(a.Counts, ShouldResemble, b.Counts)
		})

		Convey("Registers past the ceiling are rejected", func() {
			_, err := backend.Run(ctx, Circuit{Qubits: 13, Target: 0, Iterations: 1, Shots: 1})
			So(errors.Is(err, ErrTooManyQubits), ShouldBeTrue)
		})

		Convey("Invalid circuits are rejected", func() {
			_, err := backend.Run(ctx, Circuit{Qubits: 2, Target: 4, Iterations: 1, Shots: 1})
			So(errors.Is(err, ErrInvalidTarget), ShouldBeTrue)

			_, err = backend.Run(ctx, Circuit{Qubits: 2, Target: 0, Iterations: -1, Shots: 1})
			So(errors.Is(err, ErrInvalidIteration), ShouldBeTrue)

			_, err = backend.Run(ctx, Circuit{Qubits: 2, Target: 0, Iterations: 1, Shots: 0})
			So(errors.Is(err, ErrInvalidShots), ShouldBeTrue)
		})

		Convey("A cancelled context stops the run", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := backend.Run(cancelled, Circuit{Qubits: 4, Target: 0, Iterations: 3, Shots: 10})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestAnalyticBackend(t *testing.T) {
	Convey("Given a seeded analytic backend", t, func() {
		backend := NewAnalyticBackend(NewAnalytic(), 9)
		ctx := context.Background()

		Convey("Every shot is accounted for and misses avoid the target", func() {
			m, err := backend.Run(ctx, Circuit{Qubits: 3, Target: 5, Iterations: 0, Shots: 4000})
			So(err, ShouldBeNil)
			So(countShots(m.Counts), ShouldEqual, 4000)

			for state := range m.Counts {
				So(state, ShouldBeBetweenOrEqual, 0, 7)
			}

			So(m.SuccessRate(), ShouldAlmostEqual, 0.125, 0.03)
		})

		Convey("It handles registers too large to simulate", func() {
			n := 1 << 40
			k, _ := OptimalIterations(n)

			m, err := backend.Run(ctx, Circuit{Qubits: 40, Target: 12345, Iterations: k, Shots: 1000})
			So(err, ShouldBeNil)
			So(m.SuccessRate(), ShouldBeGreaterThan, 0.99)
		})
	})
}

func TestNewBackend(t *testing.T) {
	Convey("Given backend names", t, func() {
		b, err := NewBackend("statevector", 1, 10)
		So(err, ShouldBeNil)
		So(b.Name(), ShouldEqual, BackendStateVector)

		b, err = NewBackend(" Analytic ", 1, 10)
		So(err, ShouldBeNil)
		So(b.Name(), ShouldEqual, BackendAnalytic)

		_, err = NewBackend("qiskit", 1, 10)
		So(errors.Is(err, ErrUnknownBackend), ShouldBeTrue)
	})

	Convey("Given a config", t, func() {
		cfg := NewConfig()

		b, err := NewConfiguredBackend(cfg)
		So(err, ShouldBeNil)
		_, wrapped := b.(*BreakerBackend)
		So(wrapped, ShouldBeTrue)

		cfg.BreakerFailures = 0
		b, err = NewConfiguredBackend(cfg)
		So(err, ShouldBeNil)
		_, plain := b.(*StateVectorBackend)
		So(plain, ShouldBeTrue)
	})
}

func TestSampler(t *testing.T) {
	Convey("Given a seeded sampler", t, func() {
		s := NewSampler(3)

		Convey("Hits respects the degenerate probabilities", func() {
			So(s.Hits(0, 100), ShouldEqual, 0)
			So(s.Hits(1, 100), ShouldEqual, 100)
			So(s.Hits(0.5, 100), ShouldBeBetweenOrEqual, 0, 100)
		})

		Convey("Counts never lands on a zero-probability state", func() {
			counts := s.Counts([]float64{0, 0.5, 0, 0.5}, 1000)
			So(counts[0], ShouldEqual, 0)
			So(counts[2], ShouldEqual, 0)
			So(counts[1]+counts[3], ShouldEqual, 1000)
		})

		Convey("Shuffle keeps every element", func() {
			data := []int{0, 1, 2, 3, 4, 5, 6, 7}
			s.Shuffle(data)
			So(data, ShouldHaveLength, 8)
			So(data, ShouldContain, 0)
			So(data, ShouldContain, 7)
		})
	})

	Convey("Seed mixing", t, func() {
		So(mixSeed(0, 1, 2), ShouldEqual, 0)
		So(mixSeed(5, 1, 2), ShouldEqual, mixSeed(5, 1, 2))
		So(mixSeed(5, 1, 2), ShouldNotEqual, mixSeed(5, 2, 1))
	})
}
