package qsearch

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize      = errors.New("invalid problem size")
	ErrInvalidIteration = errors.New("invalid iteration count")
	ErrInvalidTarget    = errors.New("target index out of range")
	ErrInvalidShots     = errors.New("shot count must be positive")
	ErrTooManyQubits    = errors.New("too many qubits for state vector")
	ErrUnknownBackend   = errors.New("unknown backend")
	ErrNoWorkers        = errors.New("no available workers")
)

/*
InvalidSizeError rejects a problem size that is not a power of two, or is
smaller than two. There is no partial result and no fallback size.
*/
type InvalidSizeError struct {
	Size   int
	Reason string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("%s %d: %s", ErrInvalidSize, e.Size, e.Reason)
}

func (e *InvalidSizeError) Is(target error) bool {
	return target == ErrInvalidSize
}

// InvalidIterationError rejects a negative amplification count.
type InvalidIterationError struct {
	Iterations int
}

func (e *InvalidIterationError) Error() string {
	return fmt.Sprintf("%s %d: must be >= 0", ErrInvalidIteration, e.Iterations)
}

func (e *InvalidIterationError) Is(target error) bool {
	return target == ErrInvalidIteration
}

/*
IsInputError reports whether err was caused by bad caller input. Such errors
are never worth retrying.
*/
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidSize) ||
		errors.Is(err, ErrInvalidIteration) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrInvalidShots) ||
		errors.Is(err, ErrTooManyQubits) ||
		errors.Is(err, ErrUnknownBackend)
}
