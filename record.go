package qsearch

import (
	"fmt"
	"math"
	"slices"
	"time"
)

/*
BenchmarkRecord is one row of a classical-versus-quantum comparison for a
single problem size. Records are built once by NewBenchmarkRecord and passed
by value; nothing modifies them afterwards.
*/
type BenchmarkRecord struct {
	N                      int
	Qubits                 int
	Target                 int
	ClassicalSteps         int
	BinarySteps            int
	QuantumIterations      int
	TheoreticalProbability float64
	EmpiricalSuccessRate   float64
	Shots                  int
	Repeats                int
	StdErr                 float64
	ClassicalTime          time.Duration
	QuantumTime            time.Duration
}

// RecordInput gathers the measured values a record is built from.
type RecordInput struct {
	N                      int
	Target                 int
	ClassicalSteps         int
	BinarySteps            int
	QuantumIterations      int
	TheoreticalProbability float64
	EmpiricalSuccessRate   float64
	Shots                  int
	Repeats                int
	ClassicalTime          time.Duration
	QuantumTime            time.Duration
}

// NewBenchmarkRecord validates the input and derives Qubits and StdErr.
func NewBenchmarkRecord(in RecordInput) (BenchmarkRecord, error) {
	qubits, err := Qubits(in.N)
	if err != nil {
		return BenchmarkRecord{}, err
	}

	if in.Target < 0 || in.Target >= in.N {
		return BenchmarkRecord{}, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidTarget, in.Target, in.N)
	}

	if in.QuantumIterations < 0 {
		return BenchmarkRecord{}, &InvalidIterationError{Iterations: in.QuantumIterations}
	}

	if in.Shots <= 0 {
		return BenchmarkRecord{}, fmt.Errorf("%w: %d", ErrInvalidShots, in.Shots)
	}

	p := in.TheoreticalProbability

	return BenchmarkRecord{
		N:                      in.N,
		Qubits:                 qubits,
		Target:                 in.Target,
		ClassicalSteps:         in.ClassicalSteps,
		BinarySteps:            in.BinarySteps,
		QuantumIterations:      in.QuantumIterations,
		TheoreticalProbability: p,
		EmpiricalSuccessRate:   in.EmpiricalSuccessRate,
		Shots:                  in.Shots,
		Repeats:                in.Repeats,
		StdErr:                 math.Sqrt(p * (1 - p) / float64(in.Shots)),
		ClassicalTime:          in.ClassicalTime,
		QuantumTime:            in.QuantumTime,
	}, nil
}

// Speedup is classical steps per quantum iteration, 0 when there were none.
func (r BenchmarkRecord) Speedup() float64 {
	if r.QuantumIterations == 0 {
		return 0
	}

	return float64(r.ClassicalSteps) / float64(r.QuantumIterations)
}

// Deviation is empirical minus theoretical success probability.
func (r BenchmarkRecord) Deviation() float64 {
	return r.EmpiricalSuccessRate - r.TheoreticalProbability
}

/*
Consistent reports whether the empirical rate sits within z standard errors
of the theoretical probability. When the theory is exactly 0 or 1 the
standard error collapses, so a small absolute slack of 1/shots is allowed.
*/
func (r BenchmarkRecord) Consistent(z float64) bool {
	slack := z * r.StdErr
	if floor := 1 / float64(r.Shots); slack < floor {
		slack = floor
	}

	return math.Abs(r.Deviation()) <= slack
}

// Records is a sequence of benchmark records ordered by increasing N.
type Records []BenchmarkRecord

// NewRecords sorts by N and rejects two records for the same size.
func NewRecords(records ...BenchmarkRecord) (Records, error) {
	out := slices.Clone(records)
	slices.SortFunc(out, func(a, b BenchmarkRecord) int {
		return a.N - b.N
	})

	for i := 1; i < len(out); i++ {
		if out[i].N == out[i-1].N {
			return nil, fmt.Errorf("duplicate benchmark record for N=%d", out[i].N)
		}
	}

	return out, nil
}

// Sizes returns the N column.
func (rs Records) Sizes() []int {
	sizes := make([]int, len(rs))
	for i, r := range rs {
		sizes[i] = r.N
	}

	return sizes
}

// Inconsistent returns the records whose empirical rate falls outside z
// standard errors of theory.
func (rs Records) Inconsistent(z float64) Records {
	var out Records
	for _, r := range rs {
		if !r.Consistent(z) {
			out = append(out, r)
		}
	}

	return out
}
