package validate

import (
	"math"

	"github.com/san-kum/ctmqc/internal/ensemble"
	"github.com/san-kum/ctmqc/internal/qmom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// MaxPercentDiff is the largest tolerated |analytic - fd| / |fd| * 100.
	MaxPercentDiff = 0.1
	// ZeroTolerance is the magnitude below which a finite-difference momentum
	// is treated as a zero crossing and compared absolutely.
	ZeroTolerance = 1e-10
)

// Cell identifies one compared (replica, dof) pair.
type Cell struct {
	Replica int
	Dof     int
}

// Report summarises an agreement check. Diffs, Positions and Cells are
// aligned and only hold compared cells.
type Report struct {
	Diffs     []float64 // percent difference 100 * (analytic - fd) / fd
	Positions []float64
	Cells     []Cell

	Mean    float64
	Std     float64
	MaxAbs  float64
	MinAbs  float64
	Worst   Cell
	Zeros   int // cells compared absolutely because |fd| < ZeroTolerance
	Skipped int // cells with density below qmom.DensityFloor
}

// QuantumMomentum evaluates both strategies on every cell of e and compares
// them. Cells with density below qmom.DensityFloor are skipped. If any
// compared cell differs by more than MaxPercentDiff percent it returns a
// *MismatchError for the worst one and no report.
//
// With Params.RecomputeWidths set, widths are refreshed cell by cell as the
// strategies are evaluated, so e is modified.
func QuantumMomentum(e *ensemble.Ensemble) (*Report, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	r := &Report{}
	worst := -1.0
	for i := 0; i < e.Replicas(); i++ {
		for v := 0; v < e.Dofs(); v++ {
			an, err := qmom.QuantumMomentumAnalytic(e, i, v)
			if err != nil {
				return nil, err
			}
			fd, err := qmom.QuantumMomentumFD(e, i, v)
			if err != nil {
				return nil, err
			}

			x := e.Positions[i][v]
			rho, err := qmom.DensityAt(e, x, v)
			if err != nil {
				return nil, err
			}
			if rho < qmom.DensityFloor {
				r.Skipped++
				continue
			}

			diff := 0.0
			if math.Abs(fd) < ZeroTolerance {
				r.Zeros++
				if math.Abs(an-fd) > ZeroTolerance {
					diff = math.Inf(int(math.Copysign(1, an-fd)))
				}
			} else {
				diff = 100 * (an - fd) / fd
			}

			cell := Cell{Replica: i, Dof: v}
			if math.Abs(diff) > worst {
				worst = math.Abs(diff)
				r.Worst = cell
			}
			r.Diffs = append(r.Diffs, diff)
			r.Positions = append(r.Positions, x)
			r.Cells = append(r.Cells, cell)
		}
	}

	if worst > MaxPercentDiff {
		return nil, &MismatchError{Replica: r.Worst.Replica, Dof: r.Worst.Dof, PercentDiff: worst}
	}

	if len(r.Diffs) > 0 {
		r.Mean, r.Std = stat.PopMeanStdDev(r.Diffs, nil)
		abs := make([]float64, len(r.Diffs))
		for k, d := range r.Diffs {
			abs[k] = math.Abs(d)
		}
		r.MaxAbs = floats.Max(abs)
		r.MinAbs = floats.Min(abs)
	}
	return r, nil
}
