// Package kernel provides the normalized 1-D Gaussian used to smooth the
// replica point cloud into a nuclear density.
//
// The kernel is pure and stateless:
//
//   - [Gaussian]: density at one offset
//   - [Evaluate]: vectorised form over a slice of offsets
//   - [Normalization]: quadrature of the kernel over the real line
//
// Widths must be strictly positive. Callers own that guarantee; the kernel
// does not check it on the hot path.
package kernel
