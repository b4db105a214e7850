package tui

import (
	"github.com/charmbracelet/lipgloss"

	"jobfeed-engine/internal/rank"
)

var (
	// Adaptive colors for dark/light terminals
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorStatsBg = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#16213E"}
	colorStatsFg = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorError   = lipgloss.Color("#ef4444")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingLeft(1)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	cardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorError).
				Padding(0, 1)

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobMetaStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	jobBodyStyle = lipgloss.NewStyle().
			Foreground(colorStatsFg).
			PaddingLeft(7)

	pageCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorPrimary).
				Padding(0, 1).
				Bold(true)

	pageStyle = lipgloss.NewStyle().
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatsBg).
			Foreground(colorStatsFg).
			PaddingLeft(1).
			PaddingRight(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)
)

// badgeStyle renders a score badge in its band colour.
func badgeStyle(b rank.Band) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(b.Color())).
		Width(5).
		Align(lipgloss.Center)
}
