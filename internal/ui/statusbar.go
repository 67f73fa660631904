package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Level classifies a status flash.
type Level int

const (
	LevelInfo Level = iota
	LevelOK
	LevelError
)

// flashFor is how long info and OK flashes stay up. Errors stick until
// the next flash replaces them.
const flashFor = 4 * time.Second

// StatusBar is the bottom bar: key hints for the focused pane on the
// left, the fetched row window and fit summary on the right, and
// transient flashes over the hints.
type StatusBar struct {
	width int

	flash    string
	level    Level
	deadline time.Time

	pane      int
	filtering bool

	loading bool
	spin    spinner.Model

	window string
	hidden int
}

// NewStatusBar builds an empty bar.
func NewStatusBar() StatusBar {
	return StatusBar{
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(AccentText),
		),
	}
}

// SetWidth sets the rendered width.
func (b *StatusBar) SetWidth(w int) { b.width = w }

// SetPane tells the bar which pane the hints should describe
// (0 sidebar, 1 data).
func (b *StatusBar) SetPane(pane int) { b.pane = pane }

// SetFiltering switches the hints to filter-entry mode.
func (b *StatusBar) SetFiltering(on bool) { b.filtering = on }

// Flash shows a message over the hints. Info and OK flashes expire on
// their own; errors stay until replaced.
func (b *StatusBar) Flash(msg string, lvl Level) {
	b.flash = msg
	b.level = lvl
	if lvl == LevelError {
		b.deadline = time.Time{}
	} else {
		b.deadline = time.Now().Add(flashFor)
	}
}

// Tick drops an expired flash; call it from the host's clock.
func (b *StatusBar) Tick() {
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		b.flash = ""
		b.deadline = time.Time{}
	}
}

// SetLoading toggles the in-flight spinner.
func (b *StatusBar) SetLoading(on bool) { b.loading = on }

// Loading reports whether the spinner is animating.
func (b StatusBar) Loading() bool { return b.loading }

// SpinnerTick starts the spinner animation.
func (b StatusBar) SpinnerTick() tea.Cmd { return b.spin.Tick }

// UpdateSpinner advances the spinner and returns the command scheduling
// its next frame.
func (b *StatusBar) UpdateSpinner(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	b.spin, cmd = b.spin.Update(msg)
	return cmd
}

// SetPageInfo shows the fetched row window and how long the page took.
func (b *StatusBar) SetPageInfo(start, end int, total int64, took time.Duration) {
	if total == 0 {
		b.window = "empty table"
		return
	}
	b.window = fmt.Sprintf("rows %d-%d of %d · %s",
		start, end, total, took.Round(time.Millisecond))
}

// SetHiddenColumns updates the fitted-away column count.
func (b *StatusBar) SetHiddenColumns(n int) { b.hidden = n }

// View renders the bar at its set width.
func (b StatusBar) View() string {
	w := max(b.width, 20)

	if b.flash != "" {
		st := BarStyle
		switch b.level {
		case LevelError:
			st = BarErrorStyle
		case LevelOK:
			st = BarOKStyle
		}
		return st.Width(w).Render(b.flash)
	}

	left := b.hints()
	right := b.rightView()
	pad := max(w-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return BarStyle.Width(w).Render(left + strings.Repeat(" ", pad) + right)
}

func (b StatusBar) rightView() string {
	var parts []string
	switch {
	case b.loading:
		parts = append(parts, b.spin.View()+" loading")
	case b.window != "":
		parts = append(parts, b.window)
	}
	switch {
	case b.hidden == 1:
		parts = append(parts, "1 col hidden")
	case b.hidden > 1:
		parts = append(parts, fmt.Sprintf("%d cols hidden", b.hidden))
	}
	return strings.Join(parts, " · ")
}

func (b StatusBar) hints() string {
	if b.filtering {
		return "type to filter · enter open · esc cancel"
	}
	if b.pane == 0 {
		return "j/k move · enter open · / filter · tab data pane"
	}
	return "j/k rows · enter details · E/C all · n/p page · r refit · tab tables"
}
