package qmom

import (
	"github.com/san-kum/ctmqc/internal/ensemble"
	"gonum.org/v1/gonum/floats"
)

// EnsembleWeights returns W[J] = g_J / (2 sigma_J^2 sum_K g_K), where g_J is
// replica J's kernel at replica's position on dof.
//
// W does not sum to one; W[J] * 2 sigma_J^2 does. The 2 sigma^2 factor is the
// curvature of each Gaussian and cancels in the closed-form momentum.
func EnsembleWeights(e *ensemble.Ensemble, replica, dof int) ([]float64, error) {
	if err := e.CheckCell(replica, dof); err != nil {
		return nil, err
	}
	return weights(e, replica, dof)
}

func weights(e *ensemble.Ensemble, replica, dof int) ([]float64, error) {
	g, err := kernels(nil, e, e.Positions[replica][dof], dof)
	if err != nil {
		return nil, err
	}
	total := floats.Sum(g)
	for j := range g {
		s := e.Widths[j][dof]
		g[j] /= 2 * s * s * total
	}
	return g, nil
}

// Alpha returns, for every replica I, the sum over J of its ensemble
// weights on dof.
func Alpha(e *ensemble.Ensemble, dof int) ([]float64, error) {
	if err := e.CheckDof(dof); err != nil {
		return nil, err
	}
	alpha := make([]float64, e.Replicas())
	for i := range alpha {
		w, err := weights(e, i, dof)
		if err != nil {
			return nil, err
		}
		alpha[i] = floats.Sum(w)
	}
	return alpha, nil
}
