package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

const (
	// QuadHalfSpan is the half-width of the integration window, in widths.
	QuadHalfSpan = 13.0
	// QuadStep is the grid spacing of the integration window, in widths.
	QuadStep = 0.001
)

// Gaussian returns the normalized Gaussian centred on center with standard
// deviation width, evaluated at x.
func Gaussian(x, center, width float64) float64 {
	sig2 := width * width
	d := x - center
	return math.Exp(-d*d/(2*sig2)) / math.Sqrt(2*math.Pi*sig2)
}

// Evaluate fills dst with Gaussian(xs[i], center, width). dst is reused when
// it has the same length as xs, otherwise a new slice is allocated.
func Evaluate(dst, xs []float64, center, width float64) []float64 {
	if len(dst) != len(xs) {
		dst = make([]float64, len(xs))
	}
	sig2 := width * width
	pre := 1 / math.Sqrt(2*math.Pi*sig2)
	for i, x := range xs {
		d := x - center
		dst[i] = pre * math.Exp(-d*d/(2*sig2))
	}
	return dst
}

// Normalization integrates the kernel over [center-13w, center+13w] on a
// uniform grid of step 0.001w using composite Simpson quadrature. The result
// is 1 to well within 1e-9 for any positive width.
func Normalization(center, width float64) float64 {
	n := int(math.Round(2*QuadHalfSpan/QuadStep)) + 1
	xs := floats.Span(make([]float64, n), center-QuadHalfSpan*width, center+QuadHalfSpan*width)
	return integrate.Simpsons(xs, Evaluate(nil, xs, center, width))
}
