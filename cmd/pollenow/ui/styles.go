package ui

import "github.com/charmbracelet/lipgloss"

var categoryColors = map[string]lipgloss.Color{
	"None":      lipgloss.Color("241"),
	"Very Low":  lipgloss.Color("42"),
	"Low":       lipgloss.Color("42"),
	"Moderate":  lipgloss.Color("214"),
	"High":      lipgloss.Color("196"),
	"Very High": lipgloss.Color("160"),
	"No Data":   lipgloss.Color("241"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func categoryStyle(category string) lipgloss.Style {
	color, ok := categoryColors[category]
	if !ok {
		color = categoryColors["No Data"]
	}
	return lipgloss.NewStyle().Foreground(color)
}
