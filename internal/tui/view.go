package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/actorlog/internal/model"
	"github.com/tinytelemetry/actorlog/internal/stacktrace"
)

func (m *Model) View() string {
	width := max(m.width, 40)
	innerWidth := width - 2

	header := titleStyle.Render("actorlog") + " " +
		helpStyle.Render(fmt.Sprintf("%d buffered · %d logged", len(m.entries), m.counts.Total()))

	chart := sectionStyle.Width(innerWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			chartTitleStyle.Render("Counts"),
			renderCountsChart(m.counts, innerWidth-2),
		))

	var search string
	switch {
	case m.searchActive:
		search = m.searchInput.View()
	case m.searchTerm != "":
		search = helpStyle.Render("search: ") + m.searchTerm
	}

	// Rows left for the entry list after header, chart, search and help.
	used := lipgloss.Height(header) + lipgloss.Height(chart) + 1 + 2
	if search != "" {
		used++
	}
	var detail string
	if m.showTrace {
		detail = m.renderTrace(innerWidth)
		used += lipgloss.Height(detail)
	}
	listHeight := max(m.height-used-2, 3)

	style := sectionStyle
	if !m.searchActive {
		style = activeSectionStyle
	}
	list := style.Width(innerWidth).Render(m.renderEntries(innerWidth-2, listHeight))

	parts := []string{header, chart}
	if search != "" {
		parts = append(parts, search)
	}
	parts = append(parts, list)
	if detail != "" {
		parts = append(parts, detail)
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// visibleRange returns the window of entries to draw so the cursor stays
// on screen.
func (m *Model) visibleRange(height int) (int, int) {
	n := len(m.entries)
	if n <= height {
		return 0, n
	}
	start := m.cursor - height + 1
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > n {
		end = n
		start = n - height
	}
	return start, end
}

func (m *Model) renderEntries(width, height int) string {
	if len(m.entries) == 0 {
		if m.searchTerm != "" {
			return helpStyle.Render("No entries match the search")
		}
		return helpStyle.Render("No entries yet")
	}

	start, end := m.visibleRange(height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := formatEntry(m.entries[i], width)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatEntry(e model.LogEntry, width int) string {
	ts := timestampStyle.Render(e.Timestamp().Local().Format("15:04:05.000"))
	sev := severityStyle(e.Severity().String()).Render(fmt.Sprintf("%-5s", e.Severity()))

	// 12 for the timestamp, 5 for the level, 2 separators.
	room := width - 19
	content := strings.ReplaceAll(e.Content(), "\n", " ")
	if room > 1 && len(content) > room {
		content = content[:room-1] + "…"
	}
	return ts + " " + sev + " " + content
}

func (m *Model) renderTrace(width int) string {
	e, ok := m.selected()
	if !ok {
		return ""
	}
	body := stacktrace.Plain(e.StackTrace())
	if body == "" {
		body = helpStyle.Render("No stack trace captured")
	}
	title := chartTitleStyle.Render(fmt.Sprintf("Stack trace · %s · %s", e.Severity(), e.Timestamp().Format("2006-01-02 15:04:05.000 UTC")))
	return sectionStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
