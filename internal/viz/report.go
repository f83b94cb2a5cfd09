package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ctmqc/internal/validate"
)

func metricLine(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, MetricLabel.Render(label), MetricValue.Render(value))
}

// RenderReport formats an agreement report as a bordered panel.
func RenderReport(title string, r *validate.Report) string {
	var b strings.Builder

	b.WriteString(Title.Render(title))
	b.WriteString("\n\n")

	if r.MaxAbs <= validate.MaxPercentDiff {
		b.WriteString(StatusOK.Render("● analytic == finite difference"))
	} else {
		b.WriteString(StatusFail.Render("● analytic != finite difference"))
	}
	b.WriteString("\n\n")

	lines := []string{
		metricLine("compared", fmt.Sprintf("%d", len(r.Diffs))),
		metricLine("zero crossings", fmt.Sprintf("%d", r.Zeros)),
		metricLine("skipped", fmt.Sprintf("%d", r.Skipped)),
		metricLine("avg diff", fmt.Sprintf("%.2g%% +/- %.2g", r.Mean, r.Std)),
		metricLine("max |diff|", fmt.Sprintf("%.2g%%", r.MaxAbs)),
		metricLine("min |diff|", fmt.Sprintf("%.2g%%", r.MinAbs)),
		metricLine("worst cell", fmt.Sprintf("replica %d dof %d", r.Worst.Replica, r.Worst.Dof)),
	}
	b.WriteString(strings.Join(lines, "\n"))

	if len(r.Diffs) > 0 {
		b.WriteString("\n\n")
		b.WriteString(Subtle.Render("|diff| per cell  "))
		b.WriteString(SparklineChart(r.Diffs, 40))
	}

	return Panel.Render(b.String())
}
