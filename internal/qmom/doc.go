// Package qmom estimates the quantum momentum of a coupled-trajectory
// replica ensemble.
//
// The nuclear density on one degree of freedom is a kernel density estimate
// over every replica, each replica carrying its own adaptive width:
//
//	rho(x) = 1/N * sum_J g(x; R_J, sigma_J)
//
// The quantum momentum of replica I is -d/dx rho / (2 rho) at R_I, per mass.
// Two independent evaluations are provided and must agree:
//
//   - [QuantumMomentumFD]: central finite difference of [DensityAt]
//   - [QuantumMomentumAnalytic]: closed form through [EnsembleWeights]
//
// Both optionally refresh the width of the queried cell first
// ([UpdateBandwidth]); that is the only write this package performs.
//
// [ComputeAll] evaluates every (replica, dof) cell concurrently. It refreshes
// widths in a separate partitioned pass before any momentum is read.
//
// [PairwiseQuantumMomentum] is a placeholder and always returns
// [ErrPairwiseUnsupported].
package qmom
