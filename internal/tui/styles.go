package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	hoverFg   = lipgloss.Color("#FFA500")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	hoverMark  = lipgloss.NewStyle().Foreground(hoverFg).Render("◯")

	// datasets are coloured by row, cycling
	palette = []lipgloss.Color{
		"#60A5FA", "#34D399", "#F472B6", "#FBBF24", "#A78BFA", "#F87171", "#2DD4BF",
	}
	paletteStyles = func() []lipgloss.Style {
		s := make([]lipgloss.Style, len(palette))
		for i, c := range palette {
			s[i] = lipgloss.NewStyle().Foreground(c)
		}
		return s
	}()
)

func penStyle(row int) lipgloss.Style {
	return paletteStyles[row%len(paletteStyles)]
}
