package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/actorlog/internal/model"
)

const countsChartHeight = 6

// renderCountsChart draws one bar per bucket next to a counter legend.
func renderCountsChart(counts model.Counts, width int) string {
	legendWidth := 18
	chartWidth := width - legendWidth - 2
	if chartWidth < 12 {
		chartWidth = 12
	}

	bc := barchart.New(chartWidth, countsChartHeight,
		barchart.WithBarGap(2),
		barchart.WithBarWidth(3),
		barchart.WithNoAxis(),
	)

	buckets := []struct {
		name  string
		count int
	}{
		{model.BucketInfo.String(), counts.Info},
		{model.BucketWarn.String(), counts.Warn},
		{model.BucketError.String(), counts.Error},
	}

	for _, b := range buckets {
		color := bucketColors[b.name]
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{{
				Name:  b.name,
				Value: float64(b.count),
				Style: lipgloss.NewStyle().Foreground(color).Background(color),
			}},
		})
	}
	bc.Draw()

	var legendLines []string
	for _, b := range buckets {
		style := lipgloss.NewStyle().Foreground(bucketColors[b.name])
		legendLines = append(legendLines, style.Render(fmt.Sprintf("%-6s:%8d", strings.ToUpper(b.name), b.count)))
	}
	legendLines = append(legendLines, helpStyle.Render(strings.Repeat("─", 15)))
	legendLines = append(legendLines, fmt.Sprintf("%-6s:%8d", "TOTAL", counts.Total()))

	return lipgloss.JoinHorizontal(lipgloss.Top, bc.View(), "  ", strings.Join(legendLines, "\n"))
}
