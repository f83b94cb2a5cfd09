package qmom

import (
	"math"

	"github.com/san-kum/ctmqc/internal/ensemble"
	"gonum.org/v1/gonum/stat"
)

// UpdateBandwidth recomputes the adaptive width of one (replica, dof) cell
// and stores it in e.Widths.
//
// The width is the population standard deviation of the signed distances,
// on the same dof, from the replica to every replica closer than
// WidthConst * PrevWidths[replica][dof]. It is clamped from below by
// WidthConst / N * min(PrevWidths).
//
// Known limitation: the width jumps whenever a replica enters or leaves the
// cutoff window, so width trajectories are discontinuous and can grow
// sharply between steps.
//
// The result depends only on Positions and PrevWidths, so repeated calls in
// the same step store the same value.
func UpdateBandwidth(e *ensemble.Ensemble, replica, dof int) error {
	if err := e.CheckCell(replica, dof); err != nil {
		return err
	}
	w, err := adaptiveWidth(e, replica, dof)
	if err != nil {
		return err
	}
	e.Widths[replica][dof] = w
	return nil
}

func adaptiveWidth(e *ensemble.Ensemble, replica, dof int) (float64, error) {
	floor := WidthFloor(e)
	if !(floor > 0) || !(e.PrevWidths[replica][dof] > 0) {
		return 0, &ensemble.CellError{Replica: replica, Dof: dof, Wrapped: ensemble.ErrNonPositiveWidth}
	}

	nRep := e.Replicas()
	cnst := e.Params.WidthConst
	cutoff := cnst * e.PrevWidths[replica][dof]
	ref := e.Positions[replica][dof]

	near := make([]float64, 0, nRep)
	for j := 0; j < nRep; j++ {
		d := e.Positions[j][dof] - ref
		if math.Abs(d) < cutoff {
			near = append(near, d)
		}
	}

	width := 0.0
	if len(near) > 1 {
		width = stat.PopStdDev(near, nil)
	}

	if width < floor || math.IsNaN(width) {
		return floor, nil
	}
	return width, nil
}

// WidthFloor returns the lower clamp applied by UpdateBandwidth for the
// current step.
func WidthFloor(e *ensemble.Ensemble) float64 {
	if e.Replicas() == 0 {
		return 0
	}
	return e.Params.WidthConst / float64(e.Replicas()) * e.MinPrevWidth()
}
