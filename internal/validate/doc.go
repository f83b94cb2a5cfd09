// Package validate holds the numerical self-checks of the quantum-momentum
// kernel.
//
//   - [KernelNormalization]: quadrature of randomly sized kernels, run once at startup
//   - [QuantumMomentum]: finite-difference vs analytic agreement over an ensemble
//
// Both return an error wrapping [ErrKernelNotNormalized] or
// [ErrMomentumMismatch] when the model is broken. Those errors are fatal:
// callers should stop rather than retry.
package validate
