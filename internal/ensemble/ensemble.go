package ensemble

import (
	"fmt"
	"math"
)

// Params are the scalar settings of a coupled-trajectory run.
type Params struct {
	// StepSize is the finite-difference probe distance dx, in length units. Must be > 0.
	StepSize float64
	// WidthConst scales the neighbourhood cutoff and the width floor. Dimensionless, > 0.
	WidthConst float64
	// RecomputeWidths refreshes the adaptive width of a cell before each
	// quantum-momentum evaluation.
	RecomputeWidths bool
	// Dt is the integrator timestep, in time units. Only used when
	// accumulating adiabatic momenta. Must be >= 0.
	Dt float64
}

// DefaultParams returns the settings used by the reference model runs.
func DefaultParams() Params {
	return Params{
		StepSize:   1e-5,
		WidthConst: 3.0,
		Dt:         0.1,
	}
}

func (p Params) validate() error {
	if !(p.StepSize > 0) || math.IsInf(p.StepSize, 0) {
		return fmt.Errorf("%w: step size must be positive, got %g", ErrInvalidParams, p.StepSize)
	}
	if !(p.WidthConst > 0) || math.IsInf(p.WidthConst, 0) {
		return fmt.Errorf("%w: width constant must be positive, got %g", ErrInvalidParams, p.WidthConst)
	}
	if !(p.Dt >= 0) {
		return fmt.Errorf("%w: dt must be non-negative, got %g", ErrInvalidParams, p.Dt)
	}
	return nil
}

// Ensemble is the replica swarm at one time step.
type Ensemble struct {
	// Positions are the nuclear coordinates, [replica][dof].
	Positions [][]float64
	// Widths are the current kernel widths, [replica][dof]. Always > 0.
	Widths [][]float64
	// PrevWidths are the widths of the previous step, [replica][dof]. Always > 0.
	PrevWidths [][]float64
	// Masses are the nuclear masses, [dof]. Always > 0.
	Masses []float64
	// AdPops are the adiabatic populations |C|^2, [replica][dof][state].
	AdPops [][][]float64
	// AdMom are the time-integrated adiabatic forces, [replica][dof][state].
	AdMom [][][]float64

	Params Params
}

// New allocates an ensemble with every replica at the origin, unit masses
// and unit widths.
func New(replicas, dofs, states int, p Params) (*Ensemble, error) {
	if replicas <= 0 || dofs <= 0 {
		return nil, fmt.Errorf("%w: %d replicas, %d dofs", ErrEmptyEnsemble, replicas, dofs)
	}
	if states < 0 {
		return nil, fmt.Errorf("%w: negative state count %d", ErrInvalidParams, states)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	e := &Ensemble{
		Positions:  grid(replicas, dofs, 0),
		Widths:     grid(replicas, dofs, 1),
		PrevWidths: grid(replicas, dofs, 1),
		Masses:     make([]float64, dofs),
		Params:     p,
	}
	for v := range e.Masses {
		e.Masses[v] = 1
	}
	if states > 0 {
		e.AdPops = cube(replicas, dofs, states)
		e.AdMom = cube(replicas, dofs, states)
	}
	return e, nil
}

func grid(rows, cols int, fill float64) [][]float64 {
	g := make([][]float64, rows)
	for i := range g {
		g[i] = make([]float64, cols)
		if fill != 0 {
			for j := range g[i] {
				g[i][j] = fill
			}
		}
	}
	return g
}

func cube(a, b, c int) [][][]float64 {
	out := make([][][]float64, a)
	for i := range out {
		out[i] = grid(b, c, 0)
	}
	return out
}

func (e *Ensemble) Replicas() int { return len(e.Positions) }

func (e *Ensemble) Dofs() int {
	if len(e.Positions) == 0 {
		return 0
	}
	return len(e.Positions[0])
}

// States returns the number of electronic states, or 0 when no adiabatic
// data is attached.
func (e *Ensemble) States() int {
	if len(e.AdPops) == 0 || len(e.AdPops[0]) == 0 {
		return 0
	}
	return len(e.AdPops[0][0])
}

// Validate checks every shape and positivity invariant.
func (e *Ensemble) Validate() error {
	nRep, nDof := e.Replicas(), e.Dofs()
	if nRep == 0 || nDof == 0 {
		return ErrEmptyEnsemble
	}
	if err := e.Params.validate(); err != nil {
		return err
	}
	if len(e.Widths) != nRep || len(e.PrevWidths) != nRep {
		return fmt.Errorf("%w: %d positions, %d widths, %d previous widths",
			ErrShapeMismatch, nRep, len(e.Widths), len(e.PrevWidths))
	}
	if len(e.Masses) != nDof {
		return fmt.Errorf("%w: %d masses for %d dofs", ErrShapeMismatch, len(e.Masses), nDof)
	}
	for v, m := range e.Masses {
		if !(m > 0) {
			return &CellError{Replica: -1, Dof: v, Wrapped: ErrNonPositiveMass}
		}
	}

	for i := 0; i < nRep; i++ {
		if len(e.Positions[i]) != nDof || len(e.Widths[i]) != nDof || len(e.PrevWidths[i]) != nDof {
			return &CellError{Replica: i, Dof: -1, Wrapped: ErrShapeMismatch}
		}
		for v := 0; v < nDof; v++ {
			if x := e.Positions[i][v]; math.IsNaN(x) || math.IsInf(x, 0) {
				return &CellError{Replica: i, Dof: v, Wrapped: ErrInvalidPosition}
			}
			if !(e.Widths[i][v] > 0) || !(e.PrevWidths[i][v] > 0) {
				return &CellError{Replica: i, Dof: v, Wrapped: ErrNonPositiveWidth}
			}
		}
	}

	return e.validateAdiabatic(nRep, nDof)
}

func (e *Ensemble) validateAdiabatic(nRep, nDof int) error {
	if e.AdPops == nil && e.AdMom == nil {
		return nil
	}
	nState := e.States()
	if len(e.AdPops) != nRep || len(e.AdMom) != nRep {
		return fmt.Errorf("%w: adiabatic arrays need %d replicas", ErrShapeMismatch, nRep)
	}
	for i := 0; i < nRep; i++ {
		if len(e.AdPops[i]) != nDof || len(e.AdMom[i]) != nDof {
			return &CellError{Replica: i, Dof: -1, Wrapped: ErrShapeMismatch}
		}
		for v := 0; v < nDof; v++ {
			if len(e.AdPops[i][v]) != nState || len(e.AdMom[i][v]) != nState {
				return &CellError{Replica: i, Dof: v, Wrapped: ErrShapeMismatch}
			}
		}
	}
	return nil
}

// CheckCell reports whether (replica, dof) addresses a cell of the ensemble
// and the dof column is well formed. See [Ensemble.CheckDof].
func (e *Ensemble) CheckCell(replica, dof int) error {
	if replica < 0 || replica >= e.Replicas() || dof < 0 || dof >= e.Dofs() {
		return &CellError{Replica: replica, Dof: dof, Wrapped: ErrIndexOutOfRange}
	}
	return e.CheckDof(dof)
}

// CheckDof reports whether dof is a valid degree of freedom with a positive
// mass, Params are usable, and every replica row of Positions, Widths and
// PrevWidths has the ensemble's shape. Width positivity is not checked here.
func (e *Ensemble) CheckDof(dof int) error {
	nRep, nDof := e.Replicas(), e.Dofs()
	if nRep == 0 || nDof == 0 {
		return ErrEmptyEnsemble
	}
	if err := e.Params.validate(); err != nil {
		return err
	}
	if dof < 0 || dof >= nDof {
		return &CellError{Replica: -1, Dof: dof, Wrapped: ErrIndexOutOfRange}
	}
	if len(e.Widths) != nRep || len(e.PrevWidths) != nRep || len(e.Masses) != nDof {
		return fmt.Errorf("%w: %d positions, %d widths, %d previous widths, %d masses",
			ErrShapeMismatch, nRep, len(e.Widths), len(e.PrevWidths), len(e.Masses))
	}
	for i := 0; i < nRep; i++ {
		if len(e.Positions[i]) != nDof || len(e.Widths[i]) != nDof || len(e.PrevWidths[i]) != nDof {
			return &CellError{Replica: i, Dof: -1, Wrapped: ErrShapeMismatch}
		}
	}
	if !(e.Masses[dof] > 0) {
		return &CellError{Replica: -1, Dof: dof, Wrapped: ErrNonPositiveMass}
	}
	return nil
}

// MinPrevWidth returns the smallest previous-step width over all cells.
func (e *Ensemble) MinPrevWidth() float64 {
	m := math.Inf(1)
	for _, row := range e.PrevWidths {
		for _, w := range row {
			if w < m {
				m = w
			}
		}
	}
	return m
}

// Advance starts a new time step: the current widths become the previous
// widths and positions are replaced by a copy of the given coordinates.
func (e *Ensemble) Advance(positions [][]float64) error {
	if len(positions) != e.Replicas() {
		return fmt.Errorf("%w: got %d replicas, want %d", ErrShapeMismatch, len(positions), e.Replicas())
	}
	nDof := e.Dofs()
	for i, row := range positions {
		if len(row) != nDof {
			return &CellError{Replica: i, Dof: -1, Wrapped: ErrShapeMismatch}
		}
	}

	for i := range positions {
		copy(e.PrevWidths[i], e.Widths[i])
		copy(e.Positions[i], positions[i])
	}
	return nil
}

// Clone returns a deep copy of the ensemble.
func (e *Ensemble) Clone() *Ensemble {
	c := &Ensemble{
		Positions:  cloneGrid(e.Positions),
		Widths:     cloneGrid(e.Widths),
		PrevWidths: cloneGrid(e.PrevWidths),
		Masses:     append([]float64(nil), e.Masses...),
		Params:     e.Params,
	}
	if e.AdPops != nil {
		c.AdPops = make([][][]float64, len(e.AdPops))
		for i := range e.AdPops {
			c.AdPops[i] = cloneGrid(e.AdPops[i])
		}
	}
	if e.AdMom != nil {
		c.AdMom = make([][][]float64, len(e.AdMom))
		for i := range e.AdMom {
			c.AdMom[i] = cloneGrid(e.AdMom[i])
		}
	}
	return c
}

func cloneGrid(g [][]float64) [][]float64 {
	if g == nil {
		return nil
	}
	c := make([][]float64, len(g))
	for i := range g {
		c[i] = append([]float64(nil), g[i]...)
	}
	return c
}
