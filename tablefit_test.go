package tablefit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablefit"
	"tablefit/engine"
	"tablefit/fit"
	"tablefit/grid"
)

// orders builds the usual four-column table: priorities 1..4, minimum
// widths 200/160/130/120, two keyed rows.
func orders(id string) *grid.Table {
	t := grid.New(id,
		grid.Col("Order", grid.Priority(1), grid.MinWidth(200)),
		grid.Col("Customer", grid.Priority(2), grid.MinWidth(160)),
		grid.Col("Status", grid.Priority(3), grid.MinWidth(130)),
		grid.Col("Total", grid.Priority(4), grid.MinWidth(120)),
	)
	t.AppendKeyedRow("o-1", "a1", "b1", "c1", "d1")
	t.AppendKeyedRow("o-2", "a2", "b2", "c2", "d2")
	t.SetWidth(500)
	return t
}

func record(m *tablefit.Manager) *[]engine.Event {
	var got []engine.Event
	m.Subscribe(func(ev engine.Event) { got = append(got, ev) })
	return &got
}

func kinds(events []engine.Event) []engine.EventKind {
	out := make([]engine.EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestManagerAttachDetach(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager()
	tbl := orders("t1")

	ctrl, err := m.Attach(tbl, tablefit.WithControlWidth(46))
	require.NoError(t, err)
	require.NotNil(t, ctrl)
	assert.Equal(t, fit.NewSet(3, 4).Indices(), ctrl.Hidden().Indices())

	got, ok := m.Controller(tbl)
	require.True(t, ok)
	assert.Same(t, ctrl, got)
	assert.Equal(t, []*engine.Controller{ctrl}, m.Controllers())

	_, err = m.Attach(tbl)
	require.ErrorIs(t, err, tablefit.ErrAlreadyAttached)
	_, ok = m.Controller(tbl)
	assert.True(t, ok, "failed re-attach must not evict the original")

	require.NoError(t, m.Detach(tbl))
	assert.Equal(t, engine.StateDestroyed, ctrl.State())
	assert.False(t, tbl.ControlBound(), "detach restores the base layout")
	_, ok = m.Controller(tbl)
	assert.False(t, ok)

	require.ErrorIs(t, m.Detach(tbl), tablefit.ErrNotAttached)
}

func TestAttachAllContinuesPastFailures(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager()
	good := orders("good")
	headless := grid.New("headless") // zero columns

	err := m.AttachAll([]engine.Surface{good, nil, headless})
	require.ErrorIs(t, err, engine.ErrNilSurface)
	require.ErrorIs(t, err, engine.ErrMissingHeader)

	_, ok := m.Controller(good)
	assert.True(t, ok, "good table attaches despite sibling failures")
	assert.Len(t, m.Controllers(), 1)
}

func TestManagerDefaultsMergeUnderPerCallOptions(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager(tablefit.WithControlWidth(46))

	a := orders("a")
	ctrlA, err := m.Attach(a)
	require.NoError(t, err)
	assert.Equal(t, 46, ctrlA.Columns()[0].MinWidth)

	b := orders("b")
	ctrlB, err := m.Attach(b, tablefit.WithControlWidth(7))
	require.NoError(t, err)
	assert.Equal(t, 7, ctrlB.Columns()[0].MinWidth)
}

func TestSubscribeReceivesEventsAcrossTables(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager(tablefit.WithControlWidth(46))
	got := record(m)

	tbl := orders("t1")
	_, err := m.Attach(tbl)
	require.NoError(t, err)

	require.NoError(t, m.ToggleRow(tbl, "o-1"))
	require.NoError(t, m.ToggleRow(tbl, "o-1"))

	require.Equal(t, []engine.EventKind{
		engine.EventRefit,
		engine.EventExpand, engine.EventToggle,
		engine.EventCollapse, engine.EventToggle,
	}, kinds(*got))
	assert.True(t, (*got)[0].Initial)
	assert.True(t, (*got)[0].AnyHidden)
	assert.Equal(t, "o-1", (*got)[1].Key)
	assert.Equal(t, "t1", (*got)[1].Table)
}

func TestSubscribeCancelAndPanicIsolation(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager(tablefit.WithControlWidth(46))

	var first, second int
	cancel := m.Subscribe(func(engine.Event) { first++; panic("boom") })
	m.Subscribe(func(engine.Event) { second++ })

	tbl := orders("t1")
	_, err := m.Attach(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second, "panicking sibling must not starve later handlers")

	cancel()
	cancel() // safe twice
	require.NoError(t, m.ToggleRow(tbl, "o-2"))
	assert.Equal(t, 1, first)
	assert.Equal(t, 3, second)
}

func TestRefreshNilReachesEveryTable(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager()
	a, b := orders("a"), orders("b")
	_, err := m.Attach(a)
	require.NoError(t, err)
	_, err = m.Attach(b)
	require.NoError(t, err)
	require.False(t, m.Pending())

	require.NoError(t, m.Refresh(nil))
	ctrlA, _ := m.Controller(a)
	ctrlB, _ := m.Controller(b)
	assert.True(t, ctrlA.Pending())
	assert.True(t, ctrlB.Pending())
	assert.True(t, m.Pending())

	m.Tick()
	assert.False(t, m.Pending())

	require.ErrorIs(t, m.Refresh(orders("stranger")), tablefit.ErrNotAttached)
}

func TestRowOperationsByKey(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager(tablefit.WithControlWidth(46))
	tbl := orders("t1")
	_, err := m.Attach(tbl)
	require.NoError(t, err)

	require.NoError(t, m.ExpandRow(tbl, "o-2"))
	assert.True(t, tbl.RowExpanded(0, 1))
	require.NoError(t, m.CollapseRow(tbl, "o-2"))
	assert.False(t, tbl.RowExpanded(0, 1))
	require.NoError(t, m.ToggleRow(tbl, "o-1"))
	assert.True(t, tbl.RowExpanded(0, 0))

	require.ErrorIs(t, m.ExpandRow(tbl, "nope"), engine.ErrNoSuchRow)
	require.ErrorIs(t, m.ExpandRow(orders("stranger"), "o-1"), tablefit.ErrNotAttached)
}

func TestRowOperationsByPosition(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager(tablefit.WithControlWidth(46))
	tbl := orders("t1")
	_, err := m.Attach(tbl)
	require.NoError(t, err)

	require.NoError(t, m.ExpandRowAt(tbl, 0, 1))
	assert.True(t, tbl.RowExpanded(0, 1))
	require.NoError(t, m.CollapseRowAt(tbl, 0, 1))
	assert.False(t, tbl.RowExpanded(0, 1))
	require.NoError(t, m.ToggleRowAt(tbl, 0, 0))
	assert.True(t, tbl.RowExpanded(0, 0))

	require.ErrorIs(t, m.ExpandRowAt(tbl, 0, 9), engine.ErrNoSuchRow)
	require.ErrorIs(t, m.ToggleRowAt(orders("stranger"), 0, 0), tablefit.ErrNotAttached)
}

func TestExpandAndCollapseAllAcrossTables(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager(tablefit.WithControlWidth(46))
	a, b := orders("a"), orders("b")
	_, err := m.Attach(a)
	require.NoError(t, err)
	_, err = m.Attach(b)
	require.NoError(t, err)

	require.NoError(t, m.ExpandAll(nil))
	for _, tbl := range []*grid.Table{a, b} {
		assert.True(t, tbl.RowExpanded(0, 0))
		assert.True(t, tbl.RowExpanded(0, 1))
	}

	require.NoError(t, m.CollapseAll(a))
	assert.False(t, a.RowExpanded(0, 0))
	assert.True(t, b.RowExpanded(0, 0), "per-table collapse leaves siblings alone")

	require.NoError(t, m.CollapseAll(nil))
	assert.False(t, b.RowExpanded(0, 0))
}

func TestUpdateOptionsAppliesToSubsequentAttaches(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager()
	a := orders("a")
	ctrlA, err := m.Attach(a)
	require.NoError(t, err)
	// Default 3-cell control column: only Total is over budget at 500.
	require.Equal(t, fit.NewSet(4).Indices(), ctrlA.Hidden().Indices())

	require.NoError(t, m.UpdateOptions(tablefit.WithControlWidth(46)))
	assert.Len(t, m.Options(), 1)
	assert.True(t, ctrlA.Pending(), "attached tables get a refresh scheduled")
	m.Tick()
	assert.Equal(t, 3, ctrlA.Columns()[0].MinWidth,
		"existing controllers keep the configuration they were built with")
	assert.Equal(t, fit.NewSet(4).Indices(), ctrlA.Hidden().Indices())

	b := orders("b")
	ctrlB, err := m.Attach(b)
	require.NoError(t, err)
	assert.Equal(t, 46, ctrlB.Columns()[0].MinWidth)
	assert.Equal(t, fit.NewSet(3, 4).Indices(), ctrlB.Hidden().Indices())
}

func TestReattachRebuildsController(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager()
	tbl := orders("t1")
	ctrl, err := m.Attach(tbl)
	require.NoError(t, err)
	require.Equal(t, fit.NewSet(4).Indices(), ctrl.Hidden().Indices())

	got := record(m)
	next, err := m.Reattach(tbl, tablefit.WithControlWidth(46))
	require.NoError(t, err)
	require.NotSame(t, ctrl, next)
	assert.Equal(t, engine.StateDestroyed, ctrl.State())
	assert.Equal(t, fit.NewSet(3, 4).Indices(), next.Hidden().Indices())
	assert.Equal(t, "o-1", tbl.RowKey(0, 0), "stable keys survive the re-attach")

	require.Equal(t, []engine.EventKind{engine.EventDestroy, engine.EventRefit}, kinds(*got))

	mapped, ok := m.Controller(tbl)
	require.True(t, ok)
	assert.Same(t, next, mapped)
}

func TestReattachFailureForgetsTable(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager()
	tbl := orders("t1")
	_, err := m.Attach(tbl)
	require.NoError(t, err)

	// Strip every data column; the re-attach then has nothing to bind to.
	for i := 0; i < 4; i++ {
		tbl.RemoveColumn(1)
	}
	_, err = m.Reattach(tbl)
	require.ErrorIs(t, err, engine.ErrMissingHeader)
	_, ok := m.Controller(tbl)
	assert.False(t, ok)
	assert.False(t, tbl.ControlBound(), "failed re-attach still restored the layout")
}

func TestDetachAll(t *testing.T) {
	t.Parallel()

	m := tablefit.NewManager()
	a, b := orders("a"), orders("b")
	require.NoError(t, m.AttachAll([]engine.Surface{a, b}))
	require.NoError(t, m.DetachAll())
	assert.Empty(t, m.Controllers())
	assert.False(t, a.ControlBound())
	assert.False(t, b.ControlBound())
}

// Exercises the package-level functions backed by the shared default
// manager; not parallel because of that shared state.
func TestDefaultManagerFunctions(t *testing.T) {
	tbl := orders("std-t1")
	ctrl, err := tablefit.Attach(tbl, tablefit.WithControlWidth(46))
	require.NoError(t, err)
	defer func() { require.NoError(t, tablefit.DetachAll()) }()

	got, ok := tablefit.Default().Controller(tbl)
	require.True(t, ok)
	assert.Same(t, ctrl, got)

	var events int
	cancel := tablefit.Subscribe(func(engine.Event) { events++ })
	defer cancel()

	require.NoError(t, tablefit.ExpandRow(tbl, "o-1"))
	require.NoError(t, tablefit.CollapseRow(tbl, "o-1"))
	require.NoError(t, tablefit.ToggleRow(tbl, "o-2"))
	assert.Equal(t, 6, events)

	require.NoError(t, tablefit.ExpandAll(nil))
	require.NoError(t, tablefit.CollapseAll(nil))
	require.NoError(t, tablefit.Refresh(tbl))
	assert.True(t, tablefit.Pending())
	tablefit.Tick()
	assert.False(t, tablefit.Pending())

	require.NoError(t, tablefit.Detach(tbl))
	require.ErrorIs(t, tablefit.Refresh(tbl), tablefit.ErrNotAttached)
}
