package qmom

import "errors"

var (
	// ErrPairwiseUnsupported is returned by PairwiseQuantumMomentum. The
	// two-state pairwise term has no working implementation.
	ErrPairwiseUnsupported = errors.New("qmom: pairwise quantum momentum not implemented")

	// ErrUnknownMethod indicates an unrecognised evaluation method.
	ErrUnknownMethod = errors.New("qmom: unknown method")
)
