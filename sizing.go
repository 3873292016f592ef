package qsearch

import (
	"fmt"
	"math"
	"math/bits"
)

// maxQubits keeps 2^q inside a signed 64-bit int.
const maxQubits = 62

/*
ValidateSize checks that n is an addressable problem size: at least two
elements and an exact power of two. The iteration formula is only defined
for those sizes.
*/
func ValidateSize(n int) error {
	if n < 2 {
		return &InvalidSizeError{Size: n, Reason: "must be at least 2"}
	}

	if n&(n-1) != 0 {
		return &InvalidSizeError{Size: n, Reason: "must be a power of two"}
	}

	return nil
}

/*
OptimalIterations returns floor(π/4 · √N), the number of amplification
rounds that brings the marked amplitude closest to a quarter turn. Each round
rotates the state by θ = 2·arcsin(1/√N), so the total rotation peaks near
π/2 after roughly (π/4)·√N rounds. The result is never below 1.
*/
func OptimalIterations(n int) (int, error) {
	if err := ValidateSize(n); err != nil {
		return 0, err
	}

	k := int(math.Floor(math.Pi / 4 * math.Sqrt(float64(n))))
	if k < 1 {
		k = 1
	}

	return k, nil
}

// ClassicalWorstCase is the number of comparisons a linear scan needs when
// the target is last or absent.
func ClassicalWorstCase(n int) (int, error) {
	if err := ValidateSize(n); err != nil {
		return 0, err
	}

	return n, nil
}

// ClassicalAverageCase is the expected comparisons of a linear scan for a
// uniformly placed target.
func ClassicalAverageCase(n int) (float64, error) {
	if err := ValidateSize(n); err != nil {
		return 0, err
	}

	return float64(n+1) / 2, nil
}

// Qubits returns log2(N).
func Qubits(n int) (int, error) {
	if err := ValidateSize(n); err != nil {
		return 0, err
	}

	return bits.TrailingZeros64(uint64(n)), nil
}

// SizeForQubits returns 2^q.
func SizeForQubits(q int) (int, error) {
	if q < 1 || q > maxQubits {
		return 0, fmt.Errorf("%w: qubit count %d not in [1,%d]", ErrInvalidSize, q, maxQubits)
	}

	return 1 << q, nil
}

/*
RoundSize rounds n up to the next valid problem size. Drivers that accept
arbitrary sizes call this explicitly; nothing in the core rounds on its own.
*/
func RoundSize(n int) int {
	if n <= 2 {
		return 2
	}

	if n > 1<<maxQubits {
		return 1 << maxQubits
	}

	return 1 << bits.Len64(uint64(n-1))
}
