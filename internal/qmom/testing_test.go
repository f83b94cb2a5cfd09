package qmom

import (
	"math/rand"
	"testing"

	"github.com/san-kum/ctmqc/internal/ensemble"
)

// line builds a one-dof ensemble at the given positions with a uniform width.
func line(t *testing.T, positions []float64, width float64) *ensemble.Ensemble {
	t.Helper()
	e, err := ensemble.New(len(positions), 1, 0, ensemble.DefaultParams())
	if err != nil {
		t.Fatalf("ensemble.New failed: %v", err)
	}
	for i, x := range positions {
		e.Positions[i][0] = x
		e.Widths[i][0] = width
		e.PrevWidths[i][0] = width
	}
	return e
}

func randomEnsemble(t *testing.T, seed int64, replicas, dofs int) *ensemble.Ensemble {
	t.Helper()
	e, err := ensemble.Random(rand.New(rand.NewSource(seed)), replicas, dofs, 2,
		ensemble.DefaultSpread(), ensemble.DefaultParams())
	if err != nil {
		t.Fatalf("ensemble.Random failed: %v", err)
	}
	return e
}
