package qmom

import (
	"fmt"
	"strings"

	"github.com/san-kum/ctmqc/internal/ensemble"
	"gonum.org/v1/gonum/stat"
)

// Method selects how the quantum momentum is evaluated.
type Method int

const (
	MethodFD Method = iota
	MethodAnalytic
)

func (m Method) String() string {
	switch m {
	case MethodFD:
		return "fd"
	case MethodAnalytic:
		return "analytic"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod accepts "fd" or "analytic" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fd", "finite-difference":
		return MethodFD, nil
	case "analytic":
		return MethodAnalytic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// QuantumMomentum evaluates one cell with the given method.
func QuantumMomentum(e *ensemble.Ensemble, m Method, replica, dof int) (float64, error) {
	switch m {
	case MethodFD:
		return QuantumMomentumFD(e, replica, dof)
	case MethodAnalytic:
		return QuantumMomentumAnalytic(e, replica, dof)
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}

// QuantumMomentumFD returns -rho'/(2 rho) / mass at the replica's position,
// with rho' from a central difference of spacing Params.StepSize. Where
// rho < DensityFloor the result is exactly 0.
func QuantumMomentumFD(e *ensemble.Ensemble, replica, dof int) (float64, error) {
	if err := e.CheckCell(replica, dof); err != nil {
		return 0, err
	}
	return momentumFD(e, replica, dof, e.Params.RecomputeWidths)
}

func momentumFD(e *ensemble.Ensemble, replica, dof int, refresh bool) (float64, error) {
	if refresh {
		if err := UpdateBandwidth(e, replica, dof); err != nil {
			return 0, err
		}
	}

	x := e.Positions[replica][dof]
	dx := e.Params.StepSize

	var rho [3]float64
	buf := make([]float64, e.Replicas())
	for k, shift := range [3]float64{-dx, 0, dx} {
		g, err := kernels(buf, e, x+shift, dof)
		if err != nil {
			return 0, err
		}
		rho[k] = stat.Mean(g, nil)
	}

	grad := (rho[2] - rho[0]) / (2 * dx)
	if rho[1] < DensityFloor {
		return 0, nil
	}
	return -grad / (2 * rho[1]) / e.Masses[dof], nil
}

// QuantumMomentumAnalytic returns sum_J W[J] (R_I - R_J) / mass, the closed
// form of the gradient of the log-density for a sum of Gaussians.
// See EnsembleWeights for W.
func QuantumMomentumAnalytic(e *ensemble.Ensemble, replica, dof int) (float64, error) {
	if err := e.CheckCell(replica, dof); err != nil {
		return 0, err
	}
	return momentumAnalytic(e, replica, dof, e.Params.RecomputeWidths)
}

func momentumAnalytic(e *ensemble.Ensemble, replica, dof int, refresh bool) (float64, error) {
	if refresh {
		if err := UpdateBandwidth(e, replica, dof); err != nil {
			return 0, err
		}
	}

	w, err := weights(e, replica, dof)
	if err != nil {
		return 0, err
	}

	x := e.Positions[replica][dof]
	qm := 0.0
	for j, wj := range w {
		qm += wj * (x - e.Positions[j][dof])
	}
	return qm / e.Masses[dof], nil
}
