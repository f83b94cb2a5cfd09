// Package ensemble holds the replica swarm state shared between the
// trajectory integrator and the quantum-momentum kernel.
//
// An [Ensemble] is created and advanced by the integrator. The kernel reads
// the whole state on every call and writes exactly one width cell per
// bandwidth update.
//
// # Shapes
//
//   - Positions, Widths, PrevWidths: [replica][dof]
//   - Masses: [dof]
//   - AdPops, AdMom: [replica][dof][state]
//
// [Ensemble.Validate] checks every shape and positivity invariant and should
// be called by the integrator after each refresh.
//
// # Thread Safety
//
// Ensemble has no internal locking. Concurrent writers must be partitioned by
// (replica, dof) cell.
package ensemble
