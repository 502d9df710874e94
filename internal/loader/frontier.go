package loader

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/scoring"
)

// RenderFrontier draws the state-of-the-art trend as an ASCII chart followed
// by one line per frontier model.
func RenderFrontier(points []scoring.TrendPoint, width, height int) string {
	if len(points) == 0 {
		return "No data available\n"
	}
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.Score
	}

	var b strings.Builder
	first, last := points[0], points[len(points)-1]
	caption := fmt.Sprintf("best avg score, %s to %s", first.Date.Format("2006-01"), last.Date.Format("2006-01"))
	if len(data) == 1 {
		// a single point renders as a flat line
		data = append(data, data[0])
	}
	b.WriteString(asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	))
	b.WriteString("\n\n")
	for _, p := range points {
		fmt.Fprintf(&b, "%s  %-32s %6.2f\n", p.Date.Format("2006-01-02"), p.Name, p.Score)
	}
	return b.String()
}
