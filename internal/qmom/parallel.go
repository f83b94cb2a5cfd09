package qmom

import (
	"context"
	"runtime"

	"github.com/san-kum/ctmqc/internal/ensemble"
	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest number of cells handed to one worker.
const minChunk = 16

// parallelFor splits [0, n) into contiguous chunks and runs fn on each in
// its own goroutine. The first error cancels ctx for the other chunks.
func parallelFor(ctx context.Context, n int, fn func(ctx context.Context, start, end int) error) error {
	workers := runtime.GOMAXPROCS(0)
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		return fn(ctx, 0, n)
	}

	chunkSize := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error { return fn(gctx, s, e) })
	}
	return g.Wait()
}

// RefreshWidths applies UpdateBandwidth to every cell. Each cell has exactly
// one writer, and the rule only reads Positions and PrevWidths, so cells are
// updated concurrently.
func RefreshWidths(ctx context.Context, e *ensemble.Ensemble) error {
	if err := e.Validate(); err != nil {
		return err
	}
	nDof := e.Dofs()
	return parallelFor(ctx, e.Replicas()*nDof, func(ctx context.Context, start, end int) error {
		for c := start; c < end; c++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := UpdateBandwidth(e, c/nDof, c%nDof); err != nil {
				return err
			}
		}
		return nil
	})
}

// ComputeAll evaluates the quantum momentum of every cell with method m and
// returns it as [replica][dof]. When Params.RecomputeWidths is set, all widths
// are refreshed before any momentum reads them.
func ComputeAll(ctx context.Context, e *ensemble.Ensemble, m Method) ([][]float64, error) {
	if m != MethodFD && m != MethodAnalytic {
		return nil, ErrUnknownMethod
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.Params.RecomputeWidths {
		if err := RefreshWidths(ctx, e); err != nil {
			return nil, err
		}
	}

	nRep, nDof := e.Replicas(), e.Dofs()
	out := make([][]float64, nRep)
	for i := range out {
		out[i] = make([]float64, nDof)
	}

	err := parallelFor(ctx, nRep*nDof, func(ctx context.Context, start, end int) error {
		for c := start; c < end; c++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			i, v := c/nDof, c%nDof
			var qm float64
			var err error
			if m == MethodFD {
				qm, err = momentumFD(e, i, v, false)
			} else {
				qm, err = momentumAnalytic(e, i, v, false)
			}
			if err != nil {
				return err
			}
			out[i][v] = qm
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
