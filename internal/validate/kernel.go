package validate

import (
	"math"
	"math/rand"

	"github.com/san-kum/ctmqc/internal/kernel"
)

const (
	// NormTolerance is the allowed deviation of a kernel integral from 1.
	NormTolerance = 1e-9
	// DefaultKernelSamples is the number of random kernels checked at startup.
	DefaultKernelSamples = 50
)

// KernelNormalization integrates samples kernels centred at -1 with widths
// |N(0.5, 0.3)| + 0.05 and returns their integrals. The first integral off
// by more than NormTolerance is returned as a *NormalizationError.
func KernelNormalization(rng *rand.Rand, samples int) ([]float64, error) {
	norms := make([]float64, samples)
	for i := range norms {
		width := math.Abs(0.5+0.3*rng.NormFloat64()) + 0.05
		norms[i] = kernel.Normalization(-1, width)
		if math.Abs(norms[i]-1) > NormTolerance {
			return norms[:i+1], &NormalizationError{Sample: i, Width: width, Norm: norms[i]}
		}
	}
	return norms, nil
}
