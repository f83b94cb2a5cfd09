package viz

import (
	"sort"

	"github.com/guptarohit/asciigraph"
)

// DensityPlot draws a density profile ordered by position. dens and at are
// aligned by replica, as returned by qmom.DensityProfile.
func DensityPlot(dens, at []float64, caption string, width, height int) string {
	n := len(dens)
	if len(at) < n {
		n = len(at)
	}
	if n == 0 {
		return ""
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return at[idx[a]] < at[idx[b]] })

	series := make([]float64, n)
	for k, i := range idx {
		series[k] = dens[i]
	}

	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(4),
		asciigraph.Caption(caption),
	)
}
