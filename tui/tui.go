// Package tui renders a fitted table as a Bubble Tea component: visible
// columns at their resolved widths, toggle affordances in the control
// column, and details panels inlined under expanded rows. It drives the
// controller's coalesced ticks off the message loop, so resizes and
// table edits settle into one fit pass per frame.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"

	"tablefit/engine"
	"tablefit/grid"
)

// RefitMsg asks the widget to run the controller's pending coalesced
// work. RefitCmd issues one after a short delay; hosts may also send it
// directly.
type RefitMsg struct{}

const refitDelay = 50 * time.Millisecond

func refitTickCmd() tea.Cmd {
	return tea.Tick(refitDelay, func(time.Time) tea.Msg {
		return RefitMsg{}
	})
}

// position addresses one data row across body sections.
type position struct {
	section int
	row     int
}

// Model is the interactive fitted-table widget. The host attaches the
// controller and hands both halves in; the widget never owns teardown.
type Model struct {
	// KeyMap, Help, and Styles are replaceable, like on any bubbles
	// component.
	KeyMap KeyMap
	Help   help.Model
	Styles Styles

	table *grid.Table
	ctrl  *engine.Controller

	cursor       int
	scrollOffset int
	focused      bool
	width        int
	height       int
	errMsg       string
}

// New creates a widget over an attached table.
func New(table *grid.Table, ctrl *engine.Controller) Model {
	return Model{
		KeyMap:  DefaultKeyMap(),
		Help:    help.New(),
		Styles:  DefaultStyles(),
		table:   table,
		ctrl:    ctrl,
		focused: true,
	}
}

// Table returns the underlying table.
func (m Model) Table() *grid.Table { return m.table }

// Controller returns the attached controller.
func (m Model) Controller() *engine.Controller { return m.ctrl }

// SetFocused sets focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns focus state.
func (m Model) Focused() bool {
	return m.focused
}

// SetSize sets the widget dimensions and propagates the inner width to
// the table so the next tick refits against it.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	inner := max(w-2, 10)
	m.Help.Width = inner
	m.table.SetWidth(inner)
	m.table.SetViewport(inner)
}

// SelectedKey returns the stable key of the row under the cursor.
func (m Model) SelectedKey() (string, bool) {
	pos := m.positions()
	if m.cursor >= len(pos) {
		return "", false
	}
	p := pos[m.cursor]
	k := m.table.RowKey(p.section, p.row)
	return k, k != ""
}

// RefitCmd returns a command that runs the controller's pending work,
// or nil when nothing is queued. Hosts call it after mutating the table
// outside the widget.
func (m Model) RefitCmd() tea.Cmd {
	if m.ctrl.Pending() {
		return refitTickCmd()
	}
	return nil
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles resize, tick, and key events.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Hosts with their own layout call SetSize instead; responding
		// here keeps the widget usable standalone.
		m.SetSize(msg.Width, msg.Height)
		return m, m.RefitCmd()

	case RefitMsg:
		m.ctrl.Tick()
		m.clampCursor()
		return m, m.RefitCmd()

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	pos := m.positions()

	switch {
	case key.Matches(msg, m.KeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureRowVisible()
		}
	case key.Matches(msg, m.KeyMap.Down):
		if m.cursor < len(pos)-1 {
			m.cursor++
			m.ensureRowVisible()
		}
	case key.Matches(msg, m.KeyMap.Top):
		m.cursor = 0
		m.scrollOffset = 0
	case key.Matches(msg, m.KeyMap.Bottom):
		if len(pos) > 0 {
			m.cursor = len(pos) - 1
			m.ensureRowVisible()
		}
	case key.Matches(msg, m.KeyMap.Toggle):
		if m.cursor < len(pos) {
			p := pos[m.cursor]
			m.errMsg = ""
			if err := m.ctrl.ToggleRowAt(p.section, p.row); err != nil {
				m.errMsg = err.Error()
			}
		}
	case key.Matches(msg, m.KeyMap.ExpandAll):
		m.errMsg = ""
		if err := m.ctrl.ExpandAll(); err != nil {
			m.errMsg = err.Error()
		}
	case key.Matches(msg, m.KeyMap.CollapseAll):
		m.errMsg = ""
		if err := m.ctrl.CollapseAll(); err != nil {
			m.errMsg = err.Error()
		}
	case key.Matches(msg, m.KeyMap.Refresh):
		m.errMsg = ""
		if err := m.ctrl.Refresh(); err != nil {
			m.errMsg = err.Error()
		} else {
			return m, refitTickCmd()
		}
	case key.Matches(msg, m.KeyMap.Help):
		m.Help.ShowAll = !m.Help.ShowAll
	}
	return m, nil
}

func (m Model) positions() []position {
	var out []position
	for s := 0; s < m.table.SectionCount(); s++ {
		for r := 0; r < m.table.RowCount(s); r++ {
			out = append(out, position{section: s, row: r})
		}
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.positions())
	m.cursor = max(min(m.cursor, n-1), 0)
}

func (m *Model) ensureRowVisible() {
	visRows := m.visibleRowCount()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visRows {
		m.scrollOffset = m.cursor - visRows + 1
	}
}

func (m Model) visibleRowCount() int {
	// Border, header, separator, and footer frame the rows, plus however
	// many lines the help view needs in its current mode.
	return max(m.height-5-lipgloss.Height(m.Help.View(m.KeyMap)), 1)
}

// View renders the bordered widget.
func (m Model) View() string {
	borderStyle := m.Styles.BlurredBorder
	if m.focused {
		borderStyle = m.Styles.FocusedBorder
	}

	innerW := max(m.width-2, 10)
	innerH := max(m.height-2, 3)

	var content string
	if !m.ctrl.FitSupported() {
		content = m.Styles.Muted.Render("spanning cells: column fitting disabled")
	} else {
		content = m.renderTable(innerW)
	}
	return borderStyle.Width(innerW).Height(innerH).MaxHeight(innerH + 2).Render(content)
}

func (m Model) renderTable(w int) string {
	header := m.table.Header()
	visible := make([]int, 0, len(header))
	for i, hc := range header {
		if !hc.Hidden {
			visible = append(visible, i)
		}
	}
	if len(visible) == 0 {
		return m.Styles.Muted.Render("no columns to show")
	}
	widths := m.colWidths(w, visible)
	icons := m.table.Hints().Icons

	var b strings.Builder

	headerParts := make([]string, 0, len(visible))
	for _, ci := range visible {
		text := header[ci].Text
		if header[ci].Control {
			text = ""
		}
		headerParts = append(headerParts, m.Styles.Header.Render(pad(text, widths[ci])))
	}
	b.WriteString(strings.Join(headerParts, " | "))
	b.WriteString("\n")

	sepParts := make([]string, 0, len(visible))
	for _, ci := range visible {
		sepParts = append(sepParts, strings.Repeat("─", widths[ci]))
	}
	b.WriteString(m.Styles.Muted.Render(strings.Join(sepParts, "─┼─")))
	b.WriteString("\n")

	pos := m.positions()
	visRows := m.visibleRowCount()
	startRow := m.scrollOffset
	endRow := startRow + visRows
	if endRow > len(pos) {
		endRow = len(pos)
	}

	for ri := startRow; ri < endRow; ri++ {
		p := pos[ri]
		row := m.table.Rows(p.section)[p.row]
		selected := ri == m.cursor && m.focused

		rowParts := make([]string, 0, len(visible))
		for _, ci := range visible {
			var text string
			if ci < len(row.Cells) {
				c := row.Cells[ci]
				if c.Control {
					if row.Expanded {
						text = icons.Collapse
					} else {
						text = icons.Expand
					}
				} else {
					text = c.Text
				}
			}

			style := m.Styles.Cell
			switch {
			case selected:
				style = m.Styles.Selected
			case ci < len(row.Cells) && row.Cells[ci].Control:
				style = m.Styles.Control
			}
			rowParts = append(rowParts, style.Render(pad(text, widths[ci])))
		}
		b.WriteString(strings.Join(rowParts, " | "))
		b.WriteString("\n")

		if row.Expanded && row.Details != nil {
			for _, line := range m.renderPanel(row, w) {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(m.footer(startRow, endRow, len(pos)))
	b.WriteString("\n")
	b.WriteString(m.Help.View(m.KeyMap))
	return b.String()
}

// renderPanel turns a row's details content into indented lines.
func (m Model) renderPanel(row *grid.Row, w int) []string {
	const indent = "    "
	panel := row.Details.Content

	if len(panel.Fields) == 0 {
		return []string{indent + m.Styles.DetailNote.Render(pad(panel.Description, w-len(indent)))}
	}

	lines := make([]string, 0, len(panel.Fields))
	for _, f := range panel.Fields {
		label := m.Styles.DetailLabel.Render(f.Label + ":")
		value := m.Styles.DetailValue.Render(truncate(f.Value, w-len(indent)-runewidth.StringWidth(f.Label)-2))
		lines = append(lines, indent+label+" "+value)
	}
	return lines
}

func (m Model) footer(start, end, total int) string {
	var parts []string
	if n := m.ctrl.Hidden().Len(); n > 0 {
		noun := "columns"
		if n == 1 {
			noun = "column"
		}
		parts = append(parts, m.Styles.Muted.Render(fmt.Sprintf("%d %s hidden", n, noun)))
	}
	if total > end-start {
		parts = append(parts, m.Styles.Muted.Render(fmt.Sprintf("[%d-%d of %d]", start+1, end, total)))
	}
	if m.errMsg != "" {
		parts = append(parts, m.Styles.Error.Render(m.errMsg))
	}
	return strings.Join(parts, "  ")
}

// colWidths resolves the rendered width of every visible column. Auto
// keeps each column at its registry minimum and stretches the last one
// into the leftover; fixed divides the data area evenly.
func (m Model) colWidths(avail int, visible []int) map[int]int {
	minw := make(map[int]int)
	for _, c := range m.ctrl.Columns() {
		minw[c.Index] = c.MinWidth
	}

	widths := make(map[int]int, len(visible))
	seps := 3 * (len(visible) - 1)

	if m.ctrl.Strategy() == engine.StrategyFixed {
		controlW := 0
		data := make([]int, 0, len(visible))
		for _, ci := range visible {
			if ci == 0 && m.table.ControlBound() {
				controlW = minw[ci]
				widths[ci] = controlW
			} else {
				data = append(data, ci)
			}
		}
		if len(data) > 0 {
			share := max((avail-seps-controlW)/len(data), 3)
			for _, ci := range data {
				widths[ci] = share
			}
		}
		return widths
	}

	sum := 0
	for _, ci := range visible {
		w := max(minw[ci], 1)
		widths[ci] = w
		sum += w
	}
	if extra := avail - sum - seps; extra > 0 {
		widths[visible[len(visible)-1]] += extra
	}
	return widths
}

func pad(s string, w int) string {
	w = max(w, 1)
	return runewidth.FillRight(truncate(s, w), w)
}

func truncate(s string, w int) string {
	return runewidth.Truncate(sanitize(s), max(w, 1), "…")
}

// cellEscapes folds multi-line values into one display line. The \r\n
// pair must come first so it collapses to a single mark.
var cellEscapes = strings.NewReplacer("\r\n", "↵", "\n", "↵", "\r", "↵", "\t", " ")

func sanitize(s string) string {
	return cellEscapes.Replace(s)
}
