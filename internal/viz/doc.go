// Package viz renders validation reports and density profiles for the
// terminal.
//
//   - [RenderReport]: styled summary panel of a [validate.Report]
//   - [DensityPlot]: ascii line plot of a density profile
//   - [SparklineChart]: one-line overview of per-cell differences
package viz
