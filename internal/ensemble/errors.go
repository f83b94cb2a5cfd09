package ensemble

import (
	"errors"
	"fmt"
)

// Configuration errors for ensemble state.
var (
	// ErrEmptyEnsemble indicates zero replicas or zero degrees of freedom.
	ErrEmptyEnsemble = errors.New("ensemble: no replicas or degrees of freedom")

	// ErrShapeMismatch indicates arrays that do not share the replica x dof shape.
	ErrShapeMismatch = errors.New("ensemble: array shape mismatch")

	// ErrNonPositiveWidth indicates a kernel width <= 0 (or NaN).
	ErrNonPositiveWidth = errors.New("ensemble: kernel width must be positive")

	// ErrInvalidPosition indicates a NaN or Inf nuclear coordinate.
	ErrInvalidPosition = errors.New("ensemble: invalid position (NaN or Inf detected)")

	// ErrNonPositiveMass indicates a nuclear mass <= 0 (or NaN).
	ErrNonPositiveMass = errors.New("ensemble: mass must be positive")

	// ErrInvalidParams indicates a scalar parameter outside its valid range.
	ErrInvalidParams = errors.New("ensemble: invalid parameters")

	// ErrIndexOutOfRange indicates a replica or dof index outside the ensemble.
	ErrIndexOutOfRange = errors.New("ensemble: index out of range")
)

// CellError wraps an error with the (replica, dof) cell it concerns.
// A negative Replica means the error is not tied to a single replica.
type CellError struct {
	Replica int
	Dof     int
	Wrapped error
}

func (e *CellError) Error() string {
	if e.Replica < 0 {
		return fmt.Sprintf("dof %d: %v", e.Dof, e.Wrapped)
	}
	return fmt.Sprintf("replica %d dof %d: %v", e.Replica, e.Dof, e.Wrapped)
}

func (e *CellError) Unwrap() error {
	return e.Wrapped
}
