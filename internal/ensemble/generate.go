package ensemble

import (
	"fmt"
	"math"
	"math/rand"
)

// Spread describes how a random ensemble is scattered.
type Spread struct {
	Center     float64 // mean position
	Std        float64 // position standard deviation
	WidthMean  float64
	WidthStd   float64
	WidthFloor float64 // added to |N(WidthMean, WidthStd)| so widths stay positive
	Mass       float64
}

// DefaultSpread mirrors the width distribution of the kernel self-check.
func DefaultSpread() Spread {
	return Spread{
		Center:     0,
		Std:        1,
		WidthMean:  0.5,
		WidthStd:   0.3,
		WidthFloor: 0.05,
		Mass:       1,
	}
}

// Random builds an ensemble with normally scattered positions and random
// positive widths. PrevWidths start equal to Widths. With states > 0 the
// populations are random and sum to one per (replica, dof); momenta are zero.
func Random(rng *rand.Rand, replicas, dofs, states int, s Spread, p Params) (*Ensemble, error) {
	if s.WidthFloor <= 0 && s.WidthMean <= 0 {
		return nil, fmt.Errorf("%w: spread cannot produce positive widths", ErrInvalidParams)
	}
	if !(s.Mass > 0) {
		return nil, fmt.Errorf("%w: mass %g", ErrNonPositiveMass, s.Mass)
	}

	e, err := New(replicas, dofs, states, p)
	if err != nil {
		return nil, err
	}

	for v := range e.Masses {
		e.Masses[v] = s.Mass
	}

	for i := 0; i < replicas; i++ {
		for v := 0; v < dofs; v++ {
			e.Positions[i][v] = s.Center + s.Std*rng.NormFloat64()
			w := math.Abs(s.WidthMean+s.WidthStd*rng.NormFloat64()) + s.WidthFloor
			if w <= 0 {
				w = s.WidthMean
			}
			e.Widths[i][v] = w
			e.PrevWidths[i][v] = w

			if states > 0 {
				total := 0.0
				for k := 0; k < states; k++ {
					e.AdPops[i][v][k] = rng.Float64()
					total += e.AdPops[i][v][k]
				}
				for k := 0; k < states; k++ {
					e.AdPops[i][v][k] /= total
				}
			}
		}
	}

	return e, nil
}
