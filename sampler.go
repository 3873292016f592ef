package qsearch

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws measurement outcomes. It is not safe for concurrent use;
// every backend run builds its own.
type Sampler struct {
	src rand.Source
	rng *rand.Rand
}

// NewSampler seeds a PCG source. A zero seed seeds from the clock.
func NewSampler(seed uint64) *Sampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)

	return &Sampler{
		src: src,
		rng: rand.New(src),
	}
}

// Counts samples shots outcomes from a probability vector.
func (s *Sampler) Counts(probs []float64, shots int) map[int]int {
	counts := make(map[int]int)
	dist := distuv.NewCategorical(probs, s.src)

	for i := 0; i < shots; i++ {
		counts[int(dist.Rand())]++
	}

	return counts
}

// Hits draws the number of successes out of shots trials with probability p.
func (s *Sampler) Hits(p float64, shots int) int {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return shots
	}

	dist := distuv.Binomial{N: float64(shots), P: p, Src: s.src}

	return int(math.Round(dist.Rand()))
}

// IntN returns a uniform index in [0, n).
func (s *Sampler) IntN(n int) int {
	return s.rng.IntN(n)
}

// Shuffle permutes data in place.
func (s *Sampler) Shuffle(data []int) {
	s.rng.Shuffle(len(data), func(i, j int) {
		data[i], data[j] = data[j], data[i]
	})
}

// mixSeed derives a per-run seed so concurrent runs stay reproducible
// regardless of scheduling order.
func mixSeed(seed uint64, parts ...int) uint64 {
	if seed == 0 {
		return 0
	}

	h := seed
	for _, p := range parts {
		h ^= uint64(p) + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
	}

	if h == 0 {
		h = 1
	}

	return h
}
