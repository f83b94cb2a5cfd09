package qmom

import (
	"fmt"

	"github.com/san-kum/ctmqc/internal/ensemble"
	"github.com/san-kum/ctmqc/internal/kernel"
	"gonum.org/v1/gonum/stat"
)

// DensityFloor is the nuclear density below which the finite-difference
// quantum momentum is defined as zero.
const DensityFloor = 1e-12

// kernels fills dst with the kernel of every replica on dof, evaluated at x.
// Each replica uses its own current width.
func kernels(dst []float64, e *ensemble.Ensemble, x float64, dof int) ([]float64, error) {
	nRep := e.Replicas()
	if len(dst) != nRep {
		dst = make([]float64, nRep)
	}
	for j := 0; j < nRep; j++ {
		w := e.Widths[j][dof]
		if !(w > 0) {
			return nil, &ensemble.CellError{Replica: j, Dof: dof, Wrapped: ensemble.ErrNonPositiveWidth}
		}
		dst[j] = kernel.Gaussian(x, e.Positions[j][dof], w)
	}
	return dst, nil
}

// DensityAt returns the nuclear density on dof at the query position: the
// mean over all replicas of their kernels, the querying replica included.
func DensityAt(e *ensemble.Ensemble, query float64, dof int) (float64, error) {
	if err := e.CheckDof(dof); err != nil {
		return 0, err
	}
	g, err := kernels(nil, e, query, dof)
	if err != nil {
		return 0, err
	}
	return stat.Mean(g, nil), nil
}

// DensityProfile evaluates the density of a stored step at every replica's
// own position on dof. Unlike DensityAt, all kernels for replica I use
// replica I's width. It returns the densities and the positions they were
// evaluated at, both indexed by replica.
func DensityProfile(positions, widths [][]float64, dof int) (dens, at []float64, err error) {
	nRep := len(positions)
	if nRep == 0 {
		return nil, nil, ensemble.ErrEmptyEnsemble
	}
	if len(widths) != nRep {
		return nil, nil, fmt.Errorf("%w: %d positions, %d widths", ensemble.ErrShapeMismatch, nRep, len(widths))
	}
	for i := 0; i < nRep; i++ {
		if dof < 0 || dof >= len(positions[i]) || dof >= len(widths[i]) {
			return nil, nil, &ensemble.CellError{Replica: i, Dof: dof, Wrapped: ensemble.ErrIndexOutOfRange}
		}
	}

	dens = make([]float64, nRep)
	at = make([]float64, nRep)
	g := make([]float64, nRep)
	for i := 0; i < nRep; i++ {
		x, w := positions[i][dof], widths[i][dof]
		if !(w > 0) {
			return nil, nil, &ensemble.CellError{Replica: i, Dof: dof, Wrapped: ensemble.ErrNonPositiveWidth}
		}
		for j := 0; j < nRep; j++ {
			g[j] = kernel.Gaussian(x, positions[j][dof], w)
		}
		dens[i] = stat.Mean(g, nil)
		at[i] = x
	}
	return dens, at, nil
}
