package qsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/theapemachine/errnie"
	"golang.org/x/sync/errgroup"
)

/*
Benchmark sweeps a range of register sizes and, for each size, compares a
classical linear scan with amplitude-amplified search. The model supplies
iteration counts and theoretical probabilities; the backend supplies sampled
outcomes that are checked against them.
*/
type Benchmark struct {
	config  *Config
	model   SearchModel
	backend Backend
}

func NewBenchmark(cfg *Config, model SearchModel, backend Backend) *Benchmark {
	if cfg == nil {
		cfg = NewConfig()
	}

	if model == nil {
		model = NewAnalytic()
	}

	return &Benchmark{
		config:  cfg,
		model:   model,
		backend: backend,
	}
}

/*
Run schedules one pool job per qubit count in [MinQubits, MaxQubits] and
returns the records ordered by N. The first failing size aborts the sweep.
*/
func (b *Benchmark) Run(ctx context.Context) (Records, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	if b.backend == nil {
		return nil, fmt.Errorf("%w: none configured", ErrUnknownBackend)
	}

	errnie.Info(
		"benchmark - qubits %d..%d, shots %d, repeats %d, backend %s",
		b.config.MinQubits, b.config.MaxQubits, b.config.Shots, b.config.Repeats, b.backend.Name(),
	)

	pool := NewPool(ctx, b.config)
	defer pool.Close()

	records := make([]BenchmarkRecord, b.config.MaxQubits-b.config.MinQubits+1)
	g, gctx := errgroup.WithContext(ctx)

	for q := b.config.MinQubits; q <= b.config.MaxQubits; q++ {
		idx := q - b.config.MinQubits
		qubits := q

		result := pool.Schedule(fmt.Sprintf("bench-q%02d", qubits), func(jobCtx context.Context) (any, error) {
			record, _, err := b.compare(jobCtx, qubits, -1)
			return record, err
		}, WithTTL(pool.jobTimeout()))

		g.Go(func() error {
			select {
			case r, ok := <-result:
				if !ok {
					return fmt.Errorf("benchmark for %d qubits: result space closed", qubits)
				}
				if r.Error != nil {
					return fmt.Errorf("benchmark for %d qubits: %w", qubits, r.Error)
				}
				records[idx] = r.Value.(BenchmarkRecord)
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewRecords(records...)
}

/*
RunSingle compares both searches for one register size. A negative target
defers to the configured target policy. The last measurement is returned
alongside the record so callers can chart the outcome distribution.
*/
func (b *Benchmark) RunSingle(ctx context.Context, qubits, target int) (BenchmarkRecord, Measurement, error) {
	if b.backend == nil {
		return BenchmarkRecord{}, Measurement{}, fmt.Errorf("%w: none configured", ErrUnknownBackend)
	}

	return b.compare(ctx, qubits, target)
}

func (b *Benchmark) compare(ctx context.Context, qubits, target int) (BenchmarkRecord, Measurement, error) {
	n, err := SizeForQubits(qubits)
	if err != nil {
		return BenchmarkRecord{}, Measurement{}, err
	}

	sampler := NewSampler(mixSeed(b.config.Seed, qubits))
	if target < 0 {
		target = b.config.TargetFor(n, sampler)
	}

	if target >= n {
		return BenchmarkRecord{}, Measurement{}, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidTarget, target, n)
	}

	dataset := make([]int, n)
	for i := range dataset {
		dataset[i] = i
	}

	var binary SearchResult
	if b.config.Shuffle {
		sampler.Shuffle(dataset)
		binary = SortedBinarySearch(dataset, target)
	} else {
		binary = BinarySearch(dataset, target)
	}
	linear := LinearSearch(dataset, target)

	iterations, err := b.model.OptimalIterations(n)
	if err != nil {
		return BenchmarkRecord{}, Measurement{}, err
	}

	theory, err := b.model.SuccessProbability(n, iterations)
	if err != nil {
		return BenchmarkRecord{}, Measurement{}, err
	}

	rates := make([]float64, 0, b.config.Repeats)
	elapsed := make([]time.Duration, 0, b.config.Repeats)

	var last Measurement
	for r := 0; r < b.config.Repeats; r++ {
		last, err = b.backend.Run(ctx, Circuit{
			Qubits:     qubits,
			Target:     target,
			Iterations: iterations,
			Shots:      b.config.Shots,
			Repeat:     r,
		})
		if err != nil {
			return BenchmarkRecord{}, Measurement{}, err
		}

		rates = append(rates, last.SuccessRate())
		elapsed = append(elapsed, last.Elapsed)
	}

	record, err := NewBenchmarkRecord(RecordInput{
		N:                      n,
		Target:                 target,
		ClassicalSteps:         linear.Steps,
		BinarySteps:            binary.Steps,
		QuantumIterations:      iterations,
		TheoreticalProbability: theory,
		EmpiricalSuccessRate:   Median(rates),
		Shots:                  b.config.Shots,
		Repeats:                b.config.Repeats,
		ClassicalTime:          linear.SearchTime,
		QuantumTime:            MedianDuration(elapsed),
	})
	if err != nil {
		return BenchmarkRecord{}, Measurement{}, err
	}

	mean, spread := MeanStdDev(rates)
	errnie.Info(
		"compared N=%d - classical %d, quantum %d, theory %.4f, empirical %.4f (mean %.4f, sd %.4f over %d repeats)",
		record.N, record.ClassicalSteps, record.QuantumIterations,
		record.TheoreticalProbability, record.EmpiricalSuccessRate, mean, spread, len(rates),
	)

	return record, last, nil
}
