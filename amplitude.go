package qsearch

import "math"

// RotationAngle is θ = 2·arcsin(1/√N), the angle one oracle+diffusion round
// turns the state toward the marked element.
func RotationAngle(n int) (float64, error) {
	if err := ValidateSize(n); err != nil {
		return 0, err
	}

	return 2 * math.Asin(1/math.Sqrt(float64(n))), nil
}

/*
SuccessProbability is the exact chance of measuring the marked element after
k amplification rounds: sin²((2k+1)·θ/2).

k = 0 is the uniform baseline and returns exactly 1/N. Values of k past the
optimum are evaluated as-is, so callers see the probability fall again once
the state over-rotates.
*/
func SuccessProbability(n, k int) (float64, error) {
	if err := ValidateSize(n); err != nil {
		return 0, err
	}

	if k < 0 {
		return 0, &InvalidIterationError{Iterations: k}
	}

	if k == 0 {
		return 1 / float64(n), nil
	}

	theta, _ := RotationAngle(n)
	s := math.Sin(float64(2*k+1) * theta / 2)

	return s * s, nil
}

// ProbabilityCurve returns SuccessProbability(n, k) for k = 0..maxK.
func ProbabilityCurve(n, maxK int) ([]float64, error) {
	if maxK < 0 {
		return nil, &InvalidIterationError{Iterations: maxK}
	}

	curve := make([]float64, 0, maxK+1)
	for k := 0; k <= maxK; k++ {
		p, err := SuccessProbability(n, k)
		if err != nil {
			return nil, err
		}
		curve = append(curve, p)
	}

	return curve, nil
}

/*
PeakIteration scans k in [0, 2·OptimalIterations(n)] and returns the round
with the highest success probability. It disagrees with OptimalIterations
only where flooring lands one round short of the true peak.
*/
func PeakIteration(n int) (int, error) {
	opt, err := OptimalIterations(n)
	if err != nil {
		return 0, err
	}

	curve, err := ProbabilityCurve(n, 2*opt)
	if err != nil {
		return 0, err
	}

	best := 0
	for k, p := range curve {
		if p > curve[best] {
			best = k
		}
	}

	return best, nil
}
