package qmom

import "github.com/san-kum/ctmqc/internal/ensemble"

// PairwiseQuantumMomentum is the intended two-state pairwise quantum
// momentum of one cell, a [state][state] matrix. It is not implemented and
// always returns ErrPairwiseUnsupported once the cell is validated; callers
// must not treat the nil matrix as zero.
//
// The planned term weights the single-state momentum by
//
//	R_lk = C2_l C2_k (f_l - f_k)
//
// over replicas where the adiabatic momenta f of states l and k differ, with
// alpha from [Alpha] in the denominator. It is only defined for two states.
func PairwiseQuantumMomentum(e *ensemble.Ensemble, replica, dof int) ([][]float64, error) {
	if err := e.CheckCell(replica, dof); err != nil {
		return nil, err
	}
	return nil, ErrPairwiseUnsupported
}
