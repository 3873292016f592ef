package qsearch

import (
	"math"
	"math/cmplx"
)

/*
StateVector is a dense register of 2^n complex amplitudes. Basis state i
corresponds to the bitstring of i, with qubit j stored in bit j of the index.
*/
type StateVector struct {
	Qubits int
	Vector []complex128
}

// NewStateVector allocates a register in |0…0⟩.
func NewStateVector(qubits int) (*StateVector, error) {
	n, err := SizeForQubits(qubits)
	if err != nil {
		return nil, err
	}

	vector := make([]complex128, n)
	vector[0] = 1

	return &StateVector{
		Qubits: qubits,
		Vector: vector,
	}, nil
}

/*
ApplyHadamard applies H to a single qubit.

	H = 1/√2 * [1  1]
	           [1 -1]
*/
func (sv *StateVector) ApplyHadamard(qubit int) {
	mask := 1 << qubit
	norm := complex(math.Sqrt2, 0)

	for i := range sv.Vector {
		if i&mask != 0 {
			continue
		}

		alpha := sv.Vector[i]
		beta := sv.Vector[i|mask]
		sv.Vector[i] = (alpha + beta) / norm
		sv.Vector[i|mask] = (alpha - beta) / norm
	}
}

// Prepare puts every qubit through a Hadamard, giving the uniform superposition.
func (sv *StateVector) Prepare() {
	for q := 0; q < sv.Qubits; q++ {
		sv.ApplyHadamard(q)
	}
}

// Oracle flips the phase of the marked basis state.
func (sv *StateVector) Oracle(target int) {
	sv.Vector[target] = -sv.Vector[target]
}

// Diffuse reflects every amplitude about the mean amplitude.
func (sv *StateVector) Diffuse() {
	var mean complex128
	for _, a := range sv.Vector {
		mean += a
	}
	mean /= complex(float64(len(sv.Vector)), 0)

	for i, a := range sv.Vector {
		sv.Vector[i] = 2*mean - a
	}
}

// Iterate runs one amplification round: oracle, then diffusion.
func (sv *StateVector) Iterate(target int) {
	sv.Oracle(target)
	sv.Diffuse()
}

// Probabilities returns |a|² for every basis state.
func (sv *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(sv.Vector))
	for i, amplitude := range sv.Vector {
		prob := cmplx.Abs(amplitude)
		probs[i] = prob * prob
	}

	return probs
}

// Norm is the sum of all probabilities; it stays 1 under every operation here.
func (sv *StateVector) Norm() float64 {
	var total float64
	for _, p := range sv.Probabilities() {
		total += p
	}

	return total
}
