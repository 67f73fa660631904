package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive pairs keep the browser legible on light terminals
// without a theme toggle.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2f7"}
	ColorDim    = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "243"}
	ColorError  = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f7768e"}
	ColorOK     = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#9ece6a"}

	barBg = lipgloss.AdaptiveColor{Light: "#e5e7eb", Dark: "#24283b"}
	barFg = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#c0caf5"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	AccentText = fg(ColorAccent)
	DimText    = fg(ColorDim)
	ErrorText  = fg(ColorError)
	OKText     = fg(ColorOK)

	TitleStyle   = AccentText.Bold(true)
	CaptionStyle = DimText.Italic(true)
)

// Pane borders. Focus swaps the frame color only, so panes keep their
// size when focus moves.
var (
	FocusedBorder   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(ColorAccent)
	UnfocusedBorder = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(ColorDim)
)

// Sidebar list rows.
var (
	ListItem   = lipgloss.NewStyle().PaddingLeft(1)
	ListCursor = ListItem.Reverse(true)
	ListOpen   = ListItem.Foreground(ColorAccent).Bold(true)
)

// Bars across the top and bottom of the screen.
var (
	TitleBarStyle = lipgloss.NewStyle().Background(barBg).Foreground(barFg).Padding(0, 1)

	BarStyle      = lipgloss.NewStyle().Background(barBg).Foreground(barFg).Padding(0, 1)
	BarErrorStyle = BarStyle.Foreground(ColorError)
	BarOKStyle    = BarStyle.Foreground(ColorOK)
)
