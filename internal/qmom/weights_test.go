package qmom

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ctmqc/internal/ensemble"
	"github.com/san-kum/ctmqc/internal/kernel"
)

func TestEnsembleWeights_Normalisation(t *testing.T) {
	e := randomEnsemble(t, 99, 20, 1)

	for i := 0; i < e.Replicas(); i++ {
		w, err := EnsembleWeights(e, i, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(w) != e.Replicas() {
			t.Fatalf("expected %d weights, got %d", e.Replicas(), len(w))
		}

		scaled := 0.0
		for j, wj := range w {
			if wj < 0 {
				t.Errorf("negative weight W[%d][%d] = %v", i, j, wj)
			}
			s := e.Widths[j][0]
			scaled += wj * 2 * s * s
		}
		if math.Abs(scaled-1) > 1e-12 {
			t.Errorf("replica %d: sum W*2s^2 = %v, want 1", i, scaled)
		}
	}
}

func TestEnsembleWeights_KnownValues(t *testing.T) {
	e := line(t, []float64{0, 1}, 0.5)
	e.Widths[1][0] = 1

	w, err := EnsembleWeights(e, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	g0, g1 := kernel.Gaussian(0, 0, 0.5), kernel.Gaussian(0, 1, 1)
	want0 := g0 / (2 * 0.25 * (g0 + g1))
	want1 := g1 / (2 * 1 * (g0 + g1))
	if math.Abs(w[0]-want0) > 1e-14 || math.Abs(w[1]-want1) > 1e-14 {
		t.Errorf("weights = %v, want [%v %v]", w, want0, want1)
	}
}

func TestEnsembleWeights_NotUnitSum(t *testing.T) {
	e := line(t, []float64{0, 0.2, 0.4}, 0.25)
	w, _ := EnsembleWeights(e, 1, 0)

	sum := w[0] + w[1] + w[2]
	// uniform width: sum W = 1 / (2 s^2)
	if want := 1 / (2 * 0.25 * 0.25); math.Abs(sum-want) > 1e-12 {
		t.Errorf("sum W = %v, want %v", sum, want)
	}
}

func TestAlpha(t *testing.T) {
	e := randomEnsemble(t, 5, 12, 2)

	alpha, err := Alpha(e, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(alpha) != 12 {
		t.Fatalf("expected 12 alphas, got %d", len(alpha))
	}

	for i, a := range alpha {
		w, _ := EnsembleWeights(e, i, 1)
		sum := 0.0
		for _, wj := range w {
			sum += wj
		}
		if math.Abs(a-sum) > 1e-12*math.Abs(sum) {
			t.Errorf("alpha[%d] = %v, want %v", i, a, sum)
		}
	}

	if _, err := Alpha(e, 2); !errors.Is(err, ensemble.ErrIndexOutOfRange) {
		t.Errorf("bad dof: got %v", err)
	}
}

func TestPairwiseQuantumMomentum_Unsupported(t *testing.T) {
	e := randomEnsemble(t, 1, 4, 1)

	m, err := PairwiseQuantumMomentum(e, 0, 0)
	if !errors.Is(err, ErrPairwiseUnsupported) {
		t.Errorf("expected ErrPairwiseUnsupported, got %v", err)
	}
	if m != nil {
		t.Errorf("expected nil matrix, got %v", m)
	}

	if _, err := PairwiseQuantumMomentum(e, 4, 0); !errors.Is(err, ensemble.ErrIndexOutOfRange) {
		t.Errorf("bad replica: got %v", err)
	}
}
