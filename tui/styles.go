package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds every lipgloss style the widget renders with. Hosts
// swap individual entries on the model the same way they would on a
// bubbles component.
type Styles struct {
	FocusedBorder lipgloss.Style
	BlurredBorder lipgloss.Style

	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Control  lipgloss.Style

	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
	DetailNote  lipgloss.Style

	Muted lipgloss.Style
	Error lipgloss.Style
}

// DefaultStyles works on light and dark terminals.
func DefaultStyles() Styles {
	accent := lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#2dd4bf"}
	dim := lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "240"}
	red := lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}

	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	return Styles{
		FocusedBorder: border.BorderForeground(accent),
		BlurredBorder: border.BorderForeground(dim),

		Header:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Cell:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Reverse(true),
		Control:  lipgloss.NewStyle().Foreground(accent).Bold(true),

		DetailLabel: lipgloss.NewStyle().Foreground(accent),
		DetailValue: lipgloss.NewStyle(),
		DetailNote:  lipgloss.NewStyle().Foreground(dim).Italic(true),

		Muted: lipgloss.NewStyle().Foreground(dim),
		Error: lipgloss.NewStyle().Foreground(red),
	}
}
