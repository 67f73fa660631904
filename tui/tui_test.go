package tui_test

import (
	"fmt"
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablefit/engine"
	"tablefit/grid"
	"tablefit/tui"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// fitted builds the usual four-column table, fits it at width, and
// wraps it in a widget sized so the inner area matches the fit width.
func fitted(t *testing.T, width int) (tui.Model, *engine.Controller) {
	t.Helper()

	tbl := grid.New("orders",
		grid.Col("Order", grid.Priority(1), grid.MinWidth(200)),
		grid.Col("Customer", grid.Priority(2), grid.MinWidth(160)),
		grid.Col("Status", grid.Priority(3), grid.MinWidth(130)),
		grid.Col("Total", grid.Priority(4), grid.MinWidth(120)),
	)
	tbl.AppendKeyedRow("o-1", "a1", "b1", "c1", "d1")
	tbl.AppendKeyedRow("o-2", "a2", "b2", "c2", "d2")
	tbl.SetWidth(width)
	tbl.SetViewport(width)

	ctrl, err := engine.Attach(tbl, engine.Config{ControlWidth: 46})
	require.NoError(t, err)

	m := tui.New(tbl, ctrl)
	m.SetSize(width+2, 12)
	return m, ctrl
}

func TestViewHidesOverflowColumns(t *testing.T) {
	t.Parallel()

	m, ctrl := fitted(t, 500)
	assert.Equal(t, []int{3, 4}, ctrl.Hidden().Indices())

	view := stripANSI(m.View())
	assert.Contains(t, view, "Order")
	assert.Contains(t, view, "Customer")
	assert.NotContains(t, view, "Status")
	assert.NotContains(t, view, "Total")
	assert.NotContains(t, view, "c1")
	assert.Contains(t, view, "▸")
	assert.Contains(t, view, "2 columns hidden")
}

func TestViewWideEnoughShowsEverything(t *testing.T) {
	t.Parallel()

	m, ctrl := fitted(t, 700)
	assert.True(t, ctrl.Hidden().Empty())

	view := stripANSI(m.View())
	assert.Contains(t, view, "Order")
	assert.Contains(t, view, "Customer")
	assert.Contains(t, view, "Status")
	assert.Contains(t, view, "Total")
	assert.NotContains(t, view, "▸")
	assert.NotContains(t, view, "hidden")
}

func TestToggleExpandsAndCollapsesDetails(t *testing.T) {
	t.Parallel()

	m, _ := fitted(t, 500)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view := stripANSI(m.View())
	assert.Contains(t, view, "▾")
	assert.Contains(t, view, "Status: c1")
	assert.Contains(t, view, "Total: d1")
	assert.NotContains(t, view, "Status: c2")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view = stripANSI(m.View())
	assert.NotContains(t, view, "Status: c1")
	assert.NotContains(t, view, "▾")
}

func TestToggleWithNothingHiddenIsNoOp(t *testing.T) {
	t.Parallel()

	m, _ := fitted(t, 700)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := stripANSI(m.View())
	assert.NotContains(t, view, "Status: c1")
}

func TestExpandAllAndCollapseAllKeys(t *testing.T) {
	t.Parallel()

	m, _ := fitted(t, 500)

	m, _ = m.Update(keyRunes('E'))
	view := stripANSI(m.View())
	assert.Contains(t, view, "Status: c1")
	assert.Contains(t, view, "Status: c2")

	m, _ = m.Update(keyRunes('C'))
	view = stripANSI(m.View())
	assert.NotContains(t, view, "Status: c1")
	assert.NotContains(t, view, "Status: c2")
}

func TestCursorNavigation(t *testing.T) {
	t.Parallel()

	m, _ := fitted(t, 500)

	key, ok := m.SelectedKey()
	require.True(t, ok)
	assert.Equal(t, "o-1", key)

	m, _ = m.Update(keyRunes('j'))
	key, _ = m.SelectedKey()
	assert.Equal(t, "o-2", key)

	// Already at the bottom.
	m, _ = m.Update(keyRunes('j'))
	key, _ = m.SelectedKey()
	assert.Equal(t, "o-2", key)

	m, _ = m.Update(keyRunes('k'))
	key, _ = m.SelectedKey()
	assert.Equal(t, "o-1", key)

	m, _ = m.Update(keyRunes('G'))
	key, _ = m.SelectedKey()
	assert.Equal(t, "o-2", key)

	m, _ = m.Update(keyRunes('g'))
	key, _ = m.SelectedKey()
	assert.Equal(t, "o-1", key)
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	t.Parallel()

	m, _ := fitted(t, 500)
	m.SetFocused(false)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view := stripANSI(m.View())
	assert.NotContains(t, view, "Status: c1")
}

func TestWindowResizeQueuesRefit(t *testing.T) {
	t.Parallel()

	m, ctrl := fitted(t, 500)
	assert.Equal(t, []int{3, 4}, ctrl.Hidden().Indices())

	m, cmd := m.Update(tea.WindowSizeMsg{Width: 702, Height: 12})
	require.NotNil(t, cmd)

	m, _ = m.Update(tui.RefitMsg{})
	assert.True(t, ctrl.Hidden().Empty())

	view := stripANSI(m.View())
	assert.Contains(t, view, "Total")
	assert.NotContains(t, view, "▸")
}

func TestRefitCmdNilWhenIdle(t *testing.T) {
	t.Parallel()

	m, _ := fitted(t, 500)
	assert.Nil(t, m.RefitCmd())

	m.Table().SetWidth(640)
	assert.NotNil(t, m.RefitCmd())
}

func TestRefreshKeySchedulesTick(t *testing.T) {
	t.Parallel()

	m, ctrl := fitted(t, 500)

	m, cmd := m.Update(keyRunes('r'))
	require.NotNil(t, cmd)

	m, _ = m.Update(tui.RefitMsg{})
	assert.Equal(t, []int{3, 4}, ctrl.Hidden().Indices())
}

func TestScrollWindowAndIndicator(t *testing.T) {
	t.Parallel()

	tbl := grid.New("orders",
		grid.Col("Order", grid.Priority(1), grid.MinWidth(200)),
		grid.Col("Customer", grid.Priority(2), grid.MinWidth(160)),
		grid.Col("Status", grid.Priority(3), grid.MinWidth(130)),
		grid.Col("Total", grid.Priority(4), grid.MinWidth(120)),
	)
	for i := 1; i <= 6; i++ {
		tbl.AppendKeyedRow(fmt.Sprintf("o-%d", i),
			fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i),
			fmt.Sprintf("c%d", i), fmt.Sprintf("d%d", i))
	}
	tbl.SetWidth(500)
	tbl.SetViewport(500)

	ctrl, err := engine.Attach(tbl, engine.Config{ControlWidth: 46})
	require.NoError(t, err)

	m := tui.New(tbl, ctrl)
	m.SetSize(502, 9)

	view := stripANSI(m.View())
	assert.Contains(t, view, "[1-3 of 6]")

	m, _ = m.Update(keyRunes('G'))
	key, _ := m.SelectedKey()
	assert.Equal(t, "o-6", key)

	view = stripANSI(m.View())
	assert.Contains(t, view, "[4-6 of 6]")
	assert.Contains(t, view, "a6")
	assert.NotContains(t, view, "a1")
}

func TestHelpLineAndToggle(t *testing.T) {
	t.Parallel()

	m, _ := fitted(t, 500)
	view := stripANSI(m.View())
	assert.Contains(t, view, "toggle details")
	assert.NotContains(t, view, "expand all")

	m, _ = m.Update(keyRunes('?'))
	view = stripANSI(m.View())
	assert.Contains(t, view, "expand all")
	assert.Contains(t, view, "collapse all")
	assert.Contains(t, view, "refit")

	m, _ = m.Update(keyRunes('?'))
	view = stripANSI(m.View())
	assert.NotContains(t, view, "expand all")
}

func TestSpanningTableShowsBanner(t *testing.T) {
	t.Parallel()

	tbl := grid.New("report",
		grid.Col("Summary", grid.SpanCols(2)),
		grid.Col("Detail"),
	)
	tbl.AppendRow("x", "y")

	ctrl, err := engine.Attach(tbl, engine.Config{})
	require.NoError(t, err)
	assert.False(t, ctrl.FitSupported())

	m := tui.New(tbl, ctrl)
	m.SetSize(60, 10)

	view := stripANSI(m.View())
	assert.Contains(t, view, "column fitting disabled")
}
