// Package adiabatic computes adiabatic forces from an externally supplied
// electronic Hamiltonian and integrates them into the per-state adiabatic
// momenta held by an ensemble.
package adiabatic

import (
	"errors"
	"fmt"

	"github.com/san-kum/ctmqc/internal/ensemble"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDiagonalization indicates the eigen-decomposition did not converge.
	ErrDiagonalization = errors.New("adiabatic: eigen-decomposition failed")

	// ErrStateMismatch indicates forces that do not match the ensemble's state count.
	ErrStateMismatch = errors.New("adiabatic: state count mismatch")

	// ErrNoHamiltonian indicates a nil Hamiltonian function or matrix.
	ErrNoHamiltonian = errors.New("adiabatic: no Hamiltonian")
)

// Hamiltonian returns the electronic Hamiltonian at one nuclear coordinate.
type Hamiltonian func(x float64) *mat.SymDense

// Energies returns the adiabatic energies of h in ascending order.
func Energies(h *mat.SymDense) ([]float64, error) {
	if h == nil {
		return nil, ErrNoHamiltonian
	}
	var es mat.EigenSym
	if ok := es.Factorize(h, false); !ok {
		return nil, ErrDiagonalization
	}
	return es.Values(nil), nil
}

// Forces returns -dE_k/dx for every adiabatic state at x, from a central
// difference of the eigenvalues of H at x-dx and x+dx.
func Forces(H Hamiltonian, x, dx float64) ([]float64, error) {
	if H == nil {
		return nil, ErrNoHamiltonian
	}
	if !(dx > 0) {
		return nil, fmt.Errorf("%w: step size %g", ensemble.ErrInvalidParams, dx)
	}

	em, err := Energies(H(x - dx))
	if err != nil {
		return nil, err
	}
	ep, err := Energies(H(x + dx))
	if err != nil {
		return nil, err
	}
	if len(em) != len(ep) {
		return nil, fmt.Errorf("%w: %d vs %d states", ErrStateMismatch, len(em), len(ep))
	}

	f := make([]float64, len(em))
	for k := range f {
		f[k] = -(ep[k] - em[k]) / (2 * dx)
	}
	return f, nil
}

// AccumulateMomentum adds Dt * forces[k] to AdMom[replica][dof][k].
func AccumulateMomentum(e *ensemble.Ensemble, replica, dof int, forces []float64) error {
	if err := e.CheckCell(replica, dof); err != nil {
		return err
	}
	if e.AdMom == nil || len(e.AdMom) != e.Replicas() || len(e.AdMom[replica]) != e.Dofs() {
		return fmt.Errorf("%w: ensemble carries no adiabatic momenta", ErrStateMismatch)
	}
	mom := e.AdMom[replica][dof]
	if len(forces) != len(mom) {
		return fmt.Errorf("%w: %d forces for %d states", ErrStateMismatch, len(forces), len(mom))
	}

	dt := e.Params.Dt
	for k, f := range forces {
		mom[k] += dt * f
	}
	return nil
}

// Update evaluates the adiabatic forces at the replica's position, using
// Params.StepSize as the probe distance, and accumulates them into AdMom.
// It returns the forces.
func Update(e *ensemble.Ensemble, H Hamiltonian, replica, dof int) ([]float64, error) {
	if err := e.CheckCell(replica, dof); err != nil {
		return nil, err
	}
	f, err := Forces(H, e.Positions[replica][dof], e.Params.StepSize)
	if err != nil {
		return nil, err
	}
	if err := AccumulateMomentum(e, replica, dof, f); err != nil {
		return nil, err
	}
	return f, nil
}
