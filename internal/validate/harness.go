package validate

import (
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/san-kum/ctmqc/internal/ensemble"
)

// Harness runs the self-checks and logs their outcome.
type Harness struct {
	log zerolog.Logger
	rng *rand.Rand
}

// NewHarness creates a harness whose kernel samples are drawn from seed.
func NewHarness(log zerolog.Logger, seed int64) *Harness {
	return &Harness{
		log: log.With().Str("component", "validate").Logger(),
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Kernel checks DefaultKernelSamples random kernels.
func (h *Harness) Kernel() error {
	norms, err := KernelNormalization(h.rng, DefaultKernelSamples)
	if err != nil {
		h.log.Error().Err(err).Int("checked", len(norms)).Msg("kernel normalisation failed")
		return err
	}
	h.log.Info().Int("samples", len(norms)).Msg("kernel normalisation ok")
	return nil
}

// Momentum runs the agreement check on e and logs the summary.
func (h *Harness) Momentum(e *ensemble.Ensemble) (*Report, error) {
	r, err := QuantumMomentum(e)
	if err != nil {
		h.log.Error().Err(err).Msg("quantum momentum check failed")
		return nil, err
	}
	h.log.Info().
		Int("compared", len(r.Diffs)).
		Int("zero_crossings", r.Zeros).
		Int("skipped", r.Skipped).
		Float64("mean_pct", r.Mean).
		Float64("std_pct", r.Std).
		Float64("max_abs_pct", r.MaxAbs).
		Float64("min_abs_pct", r.MinAbs).
		Msg("quantum momentum agreement")
	return r, nil
}
