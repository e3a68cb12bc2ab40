package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorBlue   = lipgloss.Color("39")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("255")
	ColorNavy   = lipgloss.Color("17")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
	ColorPink   = lipgloss.Color("201")
)

var severityColors = map[string]lipgloss.Color{
	"DEBUG": ColorGray,
	"INFO":  ColorBlue,
	"WARN":  ColorOrange,
	"ERROR": ColorRed,
	"FATAL": ColorPink,
}

var bucketColors = map[string]lipgloss.Color{
	"info":  ColorBlue,
	"warn":  ColorOrange,
	"error": ColorRed,
}

var titleStyle = lipgloss.NewStyle().
	Background(ColorNavy).
	Foreground(ColorWhite).
	Bold(true).
	Padding(0, 1)

var sectionStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorNavy)

var activeSectionStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBlue)

var (
	chartTitleStyle = lipgloss.NewStyle().Foreground(ColorWhite).Bold(true)
	helpStyle       = lipgloss.NewStyle().Foreground(ColorGray)
	selectedStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	timestampStyle  = lipgloss.NewStyle().Foreground(ColorGray)
)

func severityStyle(name string) lipgloss.Style {
	c, ok := severityColors[name]
	if !ok {
		c = ColorWhite
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
