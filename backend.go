package qsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theapemachine/errnie"
)

const (
	BackendStateVector = "statevector"
	BackendAnalytic    = "analytic"
)

/*
Backend samples measurement outcomes for a search circuit. The benchmark
driver only cross-checks what a backend returns against the SearchModel; it
never feeds the model's probability into the sampling.
*/
type Backend interface {
	Name() string
	Run(ctx context.Context, c Circuit) (Measurement, error)
}

/*
Circuit describes one search run: a register of Qubits, the marked Target
index, the number of amplification Iterations and how many Shots to measure.
Repeat distinguishes otherwise identical runs so seeded backends draw
different samples for each repeat.
*/
type Circuit struct {
	Qubits     int
	Target     int
	Iterations int
	Shots      int
	Repeat     int
}

// Size is the number of addressable states, 2^Qubits.
func (c Circuit) Size() int {
	return 1 << c.Qubits
}

// Validate checks the circuit against the register ceiling of a backend.
func (c Circuit) Validate(maxQubits int) error {
	n, err := SizeForQubits(c.Qubits)
	if err != nil {
		return err
	}

	if maxQubits > 0 && c.Qubits > maxQubits {
		return fmt.Errorf("%w: %d > %d", ErrTooManyQubits, c.Qubits, maxQubits)
	}

	if c.Target < 0 || c.Target >= n {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidTarget, c.Target, n)
	}

	if c.Iterations < 0 {
		return &InvalidIterationError{Iterations: c.Iterations}
	}

	if c.Shots <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShots, c.Shots)
	}

	return nil
}

// Measurement is the sampled outcome histogram of one circuit run.
type Measurement struct {
	Circuit Circuit
	Counts  map[int]int
	Elapsed time.Duration
}

// SuccessRate is the fraction of shots that landed on the target.
func (m Measurement) SuccessRate() float64 {
	if m.Circuit.Shots == 0 {
		return 0
	}

	return float64(m.Counts[m.Circuit.Target]) / float64(m.Circuit.Shots)
}

// Mode returns the most frequently measured state, lowest index on ties.
func (m Measurement) Mode() int {
	best, bestCount := -1, -1
	for state, count := range m.Counts {
		if count > bestCount || (count == bestCount && state < best) {
			best, bestCount = state, count
		}
	}

	return best
}

// Bitstring renders a basis state the way simulators key their counts:
// zero-padded, most significant qubit first.
func (m Measurement) Bitstring(state int) string {
	return fmt.Sprintf("%0*b", m.Circuit.Qubits, state)
}

// NewBackend selects a backend by name.
func NewBackend(name string, seed uint64, maxQubits int) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendStateVector, "":
		return NewStateVectorBackend(seed, maxQubits), nil
	case BackendAnalytic:
		return NewAnalyticBackend(NewAnalytic(), seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

/*
NewConfiguredBackend builds the backend cfg names, behind a circuit breaker
unless cfg.BreakerFailures is 0.
*/
func NewConfiguredBackend(cfg *Config) (Backend, error) {
	backend, err := NewBackend(cfg.Backend, cfg.Seed, cfg.MaxStateQubits)
	if err != nil {
		return nil, err
	}

	if cfg.BreakerFailures > 0 {
		return NewBreakerBackend(backend, cfg.BreakerFailures, cfg.BreakerReset, 1), nil
	}

	return backend, nil
}

// StateVectorBackend simulates the full register amplitude by amplitude.
type StateVectorBackend struct {
	seed      uint64
	maxQubits int
}

func NewStateVectorBackend(seed uint64, maxQubits int) *StateVectorBackend {
	return &StateVectorBackend{
		seed:      seed,
		maxQubits: maxQubits,
	}
}

func (b *StateVectorBackend) Name() string {
	return BackendStateVector
}

/*
Run prepares the uniform superposition, applies Iterations rounds of oracle
and diffusion, then samples Shots outcomes from the final probabilities.
Cancellation is checked between rounds.
*/
func (b *StateVectorBackend) Run(ctx context.Context, c Circuit) (Measurement, error) {
	if err := c.Validate(b.maxQubits); err != nil {
		return Measurement{}, err
	}

	start := time.Now()

	sv, err := NewStateVector(c.Qubits)
	if err != nil {
		return Measurement{}, err
	}

	sv.Prepare()

	for i := 0; i < c.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Measurement{}, fmt.Errorf("statevector run interrupted at iteration %d: %w", i, err)
		}
		sv.Iterate(c.Target)
	}

	sampler := NewSampler(mixSeed(b.seed, c.Qubits, c.Target, c.Iterations, c.Shots, c.Repeat))
	counts := sampler.Counts(sv.Probabilities(), c.Shots)

	m := Measurement{
		Circuit: c,
		Counts:  counts,
		Elapsed: time.Since(start),
	}

	errnie.Info(
		"statevector run - qubits %d, target %d, iterations %d, success %.4f",
		c.Qubits, c.Target, c.Iterations, m.SuccessRate(),
	)

	return m, nil
}

/*
AnalyticBackend skips the register entirely: it draws target hits from
Binomial(shots, p) with p taken from its model, and spreads the misses
uniformly over the other states. It scales to register sizes a state vector
cannot hold.
*/
type AnalyticBackend struct {
	model SearchModel
	seed  uint64
}

func NewAnalyticBackend(model SearchModel, seed uint64) *AnalyticBackend {
	return &AnalyticBackend{
		model: model,
		seed:  seed,
	}
}

func (b *AnalyticBackend) Name() string {
	return BackendAnalytic
}

func (b *AnalyticBackend) Run(ctx context.Context, c Circuit) (Measurement, error) {
	if err := c.Validate(0); err != nil {
		return Measurement{}, err
	}

	start := time.Now()
	n := c.Size()

	p, err := b.model.SuccessProbability(n, c.Iterations)
	if err != nil {
		return Measurement{}, err
	}

	sampler := NewSampler(mixSeed(b.seed, c.Qubits, c.Target, c.Iterations, c.Shots, c.Repeat))
	hits := sampler.Hits(p, c.Shots)

	counts := map[int]int{}
	if hits > 0 {
		counts[c.Target] = hits
	}

	for i := hits; i < c.Shots; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Measurement{}, fmt.Errorf("analytic run interrupted: %w", err)
			}
		}

		state := sampler.IntN(n - 1)
		if state >= c.Target {
			state++
		}
		counts[state]++
	}

	m := Measurement{
		Circuit: c,
		Counts:  counts,
		Elapsed: time.Since(start),
	}

	errnie.Info(
		"analytic run - qubits %d, target %d, iterations %d, success %.4f",
		c.Qubits, c.Target, c.Iterations, m.SuccessRate(),
	)

	return m, nil
}
