package validate_test

import (
	"bytes"
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"github.com/san-kum/ctmqc/internal/ensemble"
	"github.com/san-kum/ctmqc/internal/validate"
)

func lineEnsemble(positions []float64, width float64) *ensemble.Ensemble {
	e, err := ensemble.New(len(positions), 1, 0, ensemble.DefaultParams())
	Expect(err).NotTo(HaveOccurred())
	for i, x := range positions {
		e.Positions[i][0] = x
		e.Widths[i][0] = width
		e.PrevWidths[i][0] = width
	}
	return e
}

var _ = Describe("KernelNormalization", func() {
	It("integrates every sampled kernel to one", func() {
		norms, err := validate.KernelNormalization(rand.New(rand.NewSource(1)), validate.DefaultKernelSamples)
		Expect(err).NotTo(HaveOccurred())
		Expect(norms).To(HaveLen(validate.DefaultKernelSamples))
		for _, n := range norms {
			Expect(n).To(BeNumerically("~", 1.0, validate.NormTolerance))
		}
	})

	It("formats the failing sample", func() {
		err := &validate.NormalizationError{Sample: 3, Width: 0.5, Norm: 0.99}
		Expect(errors.Is(err, validate.ErrKernelNotNormalized)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("sample 3"))
	})
})

var _ = Describe("QuantumMomentum", func() {
	It("agrees on a random ensemble of 25 replicas", func() {
		e, err := ensemble.Random(rand.New(rand.NewSource(20)), 25, 2, 2,
			ensemble.DefaultSpread(), ensemble.DefaultParams())
		Expect(err).NotTo(HaveOccurred())

		r, err := validate.QuantumMomentum(e)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Diffs).To(HaveLen(50))
		Expect(r.Positions).To(HaveLen(50))
		Expect(r.MaxAbs).To(BeNumerically("<=", validate.MaxPercentDiff))
		Expect(r.MinAbs).To(BeNumerically("<=", r.MaxAbs))
		Expect(r.Skipped).To(BeZero())
	})

	It("agrees with adaptive widths", func() {
		p := ensemble.DefaultParams()
		p.RecomputeWidths = true
		e, err := ensemble.Random(rand.New(rand.NewSource(21)), 30, 1, 0, ensemble.DefaultSpread(), p)
		Expect(err).NotTo(HaveOccurred())

		r, err := validate.QuantumMomentum(e)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.MaxAbs).To(BeNumerically("<=", validate.MaxPercentDiff))
	})

	It("compares zero crossings absolutely", func() {
		r, err := validate.QuantumMomentum(lineEnsemble([]float64{-1, 0, 1}, 0.5))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Zeros).To(Equal(1))
		Expect(r.Diffs).To(HaveLen(3))
	})

	It("skips cells below the density floor", func() {
		r, err := validate.QuantumMomentum(lineEnsemble([]float64{0, 3}, 1e13))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Skipped).To(Equal(2))
		Expect(r.Diffs).To(BeEmpty())
	})

	It("fails when the finite difference is too coarse", func() {
		e := lineEnsemble([]float64{-0.6, 0.1, 0.9}, 0.3)
		e.Params.StepSize = 0.5

		r, err := validate.QuantumMomentum(e)
		Expect(r).To(BeNil())
		Expect(errors.Is(err, validate.ErrMomentumMismatch)).To(BeTrue())

		var me *validate.MismatchError
		Expect(errors.As(err, &me)).To(BeTrue())
		Expect(math.Abs(me.PercentDiff)).To(BeNumerically(">", validate.MaxPercentDiff))
	})

	It("rejects an invalid ensemble", func() {
		e := lineEnsemble([]float64{0, 1}, 0.5)
		e.Widths[0][0] = 0
		_, err := validate.QuantumMomentum(e)
		Expect(errors.Is(err, ensemble.ErrNonPositiveWidth)).To(BeTrue())
	})
})

var _ = Describe("Harness", func() {
	var (
		buf bytes.Buffer
		h   *validate.Harness
	)

	BeforeEach(func() {
		buf.Reset()
		h = validate.NewHarness(zerolog.New(&buf), 7)
	})

	It("logs a passing kernel check", func() {
		Expect(h.Kernel()).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("kernel normalisation ok"))
		Expect(buf.String()).To(ContainSubstring(`"component":"validate"`))
	})

	It("logs the agreement summary", func() {
		r, err := h.Momentum(lineEnsemble([]float64{-1, 0, 1}, 0.5))
		Expect(err).NotTo(HaveOccurred())
		Expect(r).NotTo(BeNil())
		Expect(buf.String()).To(ContainSubstring("max_abs_pct"))
	})

	It("logs and returns a mismatch", func() {
		e := lineEnsemble([]float64{-0.6, 0.1, 0.9}, 0.3)
		e.Params.StepSize = 0.5
		_, err := h.Momentum(e)
		Expect(err).To(MatchError(validate.ErrMomentumMismatch))
		Expect(buf.String()).To(ContainSubstring(`"level":"error"`))
	})
})
