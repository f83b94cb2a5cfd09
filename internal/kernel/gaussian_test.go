package kernel

import (
	"math"
	"testing"
)

func TestGaussian_PeakValue(t *testing.T) {
	tests := []struct {
		width float64
	}{
		{0.05}, {0.5}, {1.0}, {3.7},
	}

	for _, tt := range tests {
		want := 1 / math.Sqrt(2*math.Pi*tt.width*tt.width)
		if got := Gaussian(2.0, 2.0, tt.width); math.Abs(got-want) > 1e-12 {
			t.Errorf("Gaussian peak (w=%v) = %v, want %v", tt.width, got, want)
		}
	}
}

func TestGaussian_Symmetric(t *testing.T) {
	centers := []float64{-1.0, 0.0, 2.5}
	widths := []float64{0.1, 0.5, 2.0}
	offsets := []float64{0.0, 0.01, 0.3, 1.0, 4.2}

	for _, c := range centers {
		for _, w := range widths {
			for _, d := range offsets {
				left := Gaussian(c-d, c, w)
				right := Gaussian(c+d, c, w)
				if math.Abs(left-right) > 1e-12*math.Max(1, left) {
					t.Errorf("asymmetry at c=%v w=%v d=%v: %v vs %v", c, w, d, left, right)
				}
			}
		}
	}
}

func TestGaussian_KnownValue(t *testing.T) {
	// one standard deviation away
	got := Gaussian(1.5, 1.0, 0.5)
	want := math.Exp(-0.5) / math.Sqrt(2*math.Pi*0.25)
	if math.Abs(got-want) > 1e-14 {
		t.Errorf("Gaussian(1.5, 1, 0.5) = %v, want %v", got, want)
	}
}

func TestEvaluate_MatchesScalar(t *testing.T) {
	xs := []float64{-2, -1, -0.25, 0, 0.25, 1, 2}
	got := Evaluate(nil, xs, 0.1, 0.7)

	if len(got) != len(xs) {
		t.Fatalf("expected %d values, got %d", len(xs), len(got))
	}
	for i, x := range xs {
		want := Gaussian(x, 0.1, 0.7)
		if math.Abs(got[i]-want) > 1e-15 {
			t.Errorf("Evaluate[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestEvaluate_ReusesBuffer(t *testing.T) {
	xs := []float64{0, 1, 2}
	buf := make([]float64, 3)
	out := Evaluate(buf, xs, 0, 1)
	if &out[0] != &buf[0] {
		t.Error("Evaluate did not reuse destination buffer")
	}

	out = Evaluate(make([]float64, 1), xs, 0, 1)
	if len(out) != 3 {
		t.Errorf("expected reallocation to length 3, got %d", len(out))
	}
}

func TestNormalization(t *testing.T) {
	tests := []struct {
		center, width float64
	}{
		{-1, 0.05},
		{-1, 0.5},
		{0, 1},
		{3, 1.3},
		{10, 7},
	}

	for _, tt := range tests {
		if norm := Normalization(tt.center, tt.width); math.Abs(norm-1) > 1e-9 {
			t.Errorf("Normalization(%v, %v) = %.15f, want 1", tt.center, tt.width, norm)
		}
	}
}
