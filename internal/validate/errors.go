package validate

import (
	"errors"
	"fmt"
)

var (
	// ErrKernelNotNormalized indicates a kernel whose integral is not 1.
	ErrKernelNotNormalized = errors.New("validate: gaussian not normalised")

	// ErrMomentumMismatch indicates the analytic and finite-difference
	// quantum momenta disagree.
	ErrMomentumMismatch = errors.New("validate: analytic quantum momentum != finite difference")
)

// NormalizationError reports the first kernel that failed the quadrature check.
type NormalizationError struct {
	Sample int
	Width  float64
	Norm   float64
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%v: sample %d (width %.4g) integrates to %.12f", ErrKernelNotNormalized, e.Sample, e.Width, e.Norm)
}

func (e *NormalizationError) Unwrap() error { return ErrKernelNotNormalized }

// MismatchError reports the cell with the largest disagreement.
type MismatchError struct {
	Replica     int
	Dof         int
	PercentDiff float64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: replica %d dof %d differs by %.3g%%", ErrMomentumMismatch, e.Replica, e.Dof, e.PercentDiff)
}

func (e *MismatchError) Unwrap() error { return ErrMomentumMismatch }
