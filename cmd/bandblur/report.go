package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"bandblur/pkg/pipeline"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleBand  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// printReport writes the per-band statistics collected by the pipeline
func printReport(w io.Writer, metrics []pipeline.BandMetrics) {
	fmt.Fprintln(w, styleTitle.Render("Band statistics"))
	fmt.Fprintln(w, styleDim.Render("mean / standard deviation per channel (R, G, B), before -> after"))

	for _, m := range metrics {
		fmt.Fprintf(w, "\n%s rows [%d,%d) filter=%s\n",
			styleBand.Render(fmt.Sprintf("%-6s", m.Position)), m.Band.Start, m.Band.End, m.Filter)
		if m.Band.Empty() {
			fmt.Fprintln(w, styleDim.Render("  (empty)"))
			continue
		}
		for c, name := range []string{"R", "G", "B"} {
			fmt.Fprintf(w, "  %s  mean %7.2f -> %7.2f   std %7.2f -> %7.2f\n",
				name, m.MeanBefore[c], m.MeanAfter[c], m.StdDevBefore[c], m.StdDevAfter[c])
		}
		fmt.Fprintf(w, "  RMSE %.3f\n", m.RMSE)
	}
}
