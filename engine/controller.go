package engine

import (
	"fmt"
	"sort"

	"tablefit/fit"
)

// State is a controller's lifecycle position.
type State uint8

const (
	StateUninitialized State = iota
	StateBound
	StateObserving
	StateRefitting
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBound:
		return "bound"
	case StateObserving:
		return "observing"
	case StateRefitting:
		return "refitting"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// pending accumulates coalesced change notifications between ticks.
type pending struct {
	refit    bool
	header   bool
	sections map[int]struct{}
}

func (p *pending) any() bool {
	return p.refit || p.header || len(p.sections) > 0
}

func (p *pending) section(i int) {
	if p.sections == nil {
		p.sections = make(map[int]struct{})
	}
	p.sections[i] = struct{}{}
}

// Controller drives one attached table. It owns the column registry
// snapshot, the row bindings, and the change subscription; everything it
// knows about the table itself is read back through the Surface. Not safe
// for concurrent use: like the rest of the package it assumes the host's
// single event loop.
type Controller struct {
	s   Surface
	cfg Config
	id  string

	state          State
	fitUnsupported bool

	cols   []fit.Column
	pend   pending
	cancel func()
}

// Attach binds a controller to a surface: validates the structure, binds
// control cells and details containers, runs the initial fit pass, and
// subscribes to the change feed. Validation failures are returned before
// any mutation, leaving the table exactly as it was.
//
// Spanning cells are not an error: the table attaches in fit-unsupported
// mode, keeping its base layout untouched, and every later pass is a
// no-op.
func Attach(s Surface, cfg Config) (*Controller, error) {
	if s == nil {
		return nil, ErrNilSurface
	}
	c := &Controller{s: s, cfg: cfg.withDefaults(), id: s.ID()}
	if c.id == "" {
		c.id = nextTableID()
	}
	if !s.HasHeader() || s.ColumnCount() == 0 {
		return nil, fmt.Errorf("bind %s: %w", c.id, ErrMissingHeader)
	}
	if s.SectionCount() == 0 {
		return nil, fmt.Errorf("bind %s: %w", c.id, ErrMissingBody)
	}

	c.state = StateBound
	if s.HasSpans() {
		c.fitUnsupported = true
		diagf("table %s: spanning cells detected, fit disabled", c.id)
	} else {
		s.Configure(c.cfg.hints())
		// Bind before building: the registry reads indices with the
		// control column already in place at 0.
		c.bindAll()
		c.cols = c.buildColumns()
		c.refit(true)
	}
	c.cancel = s.Observe(c.onChange)
	c.state = StateObserving
	return c, nil
}

// ID returns the table identifier the controller works under.
func (c *Controller) ID() string { return c.id }

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// FitSupported reports whether fit passes run for this table; false once
// spanning cells were detected at bind time.
func (c *Controller) FitSupported() bool { return !c.fitUnsupported }

// Strategy returns the rendering width policy this controller was
// configured with.
func (c *Controller) Strategy() Strategy { return c.cfg.Strategy }

// Pending reports whether coalesced work awaits the next tick.
func (c *Controller) Pending() bool { return c.pend.any() }

// Columns returns a copy of the current registry snapshot.
func (c *Controller) Columns() []fit.Column {
	return append([]fit.Column(nil), c.cols...)
}

// Hidden returns the hidden-set currently expressed by the structure.
func (c *Controller) Hidden() fit.Set {
	if c.state == StateDestroyed || c.fitUnsupported {
		return fit.NewSet()
	}
	return c.readHidden()
}

// onChange is the single fan-in for every notification source. It only
// marks pending work; the pass itself runs on the next tick.
func (c *Controller) onChange(ch Change) {
	if c.state == StateDestroyed {
		return
	}
	was := c.pend.any()
	switch ch.Kind {
	case ChangeResize:
		c.pend.refit = true
	case ChangeHeader, ChangeAttribute:
		c.pend.header = true
		c.pend.refit = true
	case ChangeSection:
		c.pend.section(ch.Section)
		c.pend.refit = true
	case ChangeVisibility:
		// Only becoming visible changes what a pass can measure.
		if c.s.Visible() {
			c.pend.refit = true
		}
	}
	if !was && c.pend.any() && c.cfg.Schedule != nil {
		c.cfg.Schedule()
	}
}

// Tick runs the work coalesced since the last tick: registry and binder
// reruns implied by structural changes, then one fit pass. Hosts call it
// on the frame after Schedule fires, or poll Pending. A tick on a
// destroyed or fit-unsupported table does nothing.
func (c *Controller) Tick() {
	if c.state == StateDestroyed || !c.pend.any() {
		return
	}
	pend := c.pend
	c.pend = pending{}
	if c.fitUnsupported {
		return
	}

	c.state = StateRefitting
	defer func() { c.state = StateObserving }()

	if pend.header {
		// Header changed: rebind under the new shape, then re-derive
		// columns, re-measuring natural widths.
		c.bindAll()
		c.cols = c.buildColumns()
	} else if len(pend.sections) > 0 {
		sections := make([]int, 0, len(pend.sections))
		for s := range pend.sections {
			sections = append(sections, s)
		}
		sort.Ints(sections)
		for _, s := range sections {
			if s >= 0 && s < c.s.SectionCount() {
				c.bindSection(s)
			}
		}
	}
	if pend.refit {
		c.refit(false)
	}
}

// refit is one full pass: measure the width budget, solve, apply.
func (c *Controller) refit(initial bool) {
	hidden := fit.Solve(c.cols, c.availableWidth())
	c.applyHidden(hidden)
	c.emitRefit(initial, !hidden.Empty())
}

// availableWidth picks the budget a pass fits against. While the table
// cannot be measured, the defer-while-hidden option substitutes the
// viewport width so an undisplayed table keeps a sensible layout instead
// of hiding every unlocked column.
func (c *Controller) availableWidth() int {
	if c.cfg.DeferWhileHidden && !c.s.Visible() {
		return c.s.ViewportWidth()
	}
	return c.s.AvailableWidth()
}

// Refresh schedules a re-measure and a fresh fit pass. It returns
// immediately; the pass itself runs on the next tick. On a
// fit-unsupported table it is a successful no-op.
func (c *Controller) Refresh() error {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	if c.fitUnsupported {
		return nil
	}
	was := c.pend.any()
	c.pend.header = true
	c.pend.refit = true
	if !was && c.cfg.Schedule != nil {
		c.cfg.Schedule()
	}
	return nil
}

// ToggleRowAt flips a row's details panel. With no data column hidden
// there is nothing to reveal or conceal, so the call is a no-op and no
// events fire. Toggling never triggers a refit.
func (c *Controller) ToggleRowAt(section, row int) error {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	if c.fitUnsupported {
		return nil
	}
	if !c.validRow(section, row) {
		return fmt.Errorf("toggle row %d/%d in %s: %w", section, row, c.id, ErrNoSuchRow)
	}
	if !c.anyDataHidden() {
		return nil
	}
	if c.s.RowExpanded(section, row) {
		c.collapseAt(section, row)
	} else {
		c.expandAt(section, row)
	}
	return nil
}

// ExpandRowAt opens a row's details panel. Already-expanded rows and
// tables with nothing hidden are successful no-ops without events.
func (c *Controller) ExpandRowAt(section, row int) error {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	if c.fitUnsupported {
		return nil
	}
	if !c.validRow(section, row) {
		return fmt.Errorf("expand row %d/%d in %s: %w", section, row, c.id, ErrNoSuchRow)
	}
	if !c.anyDataHidden() || c.s.RowExpanded(section, row) {
		return nil
	}
	c.expandAt(section, row)
	return nil
}

// CollapseRowAt closes a row's details panel. Unlike expansion it is not
// gated on hidden columns: a panel left open when every column grew back
// must still be closable.
func (c *Controller) CollapseRowAt(section, row int) error {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	if c.fitUnsupported {
		return nil
	}
	if !c.validRow(section, row) {
		return fmt.Errorf("collapse row %d/%d in %s: %w", section, row, c.id, ErrNoSuchRow)
	}
	if !c.s.RowExpanded(section, row) {
		return nil
	}
	c.collapseAt(section, row)
	return nil
}

// ToggleRowKey resolves a stable key and toggles that row.
func (c *Controller) ToggleRowKey(key string) error {
	section, row, err := c.findRow(key)
	if err != nil {
		return err
	}
	return c.ToggleRowAt(section, row)
}

// ExpandRowKey resolves a stable key and expands that row.
func (c *Controller) ExpandRowKey(key string) error {
	section, row, err := c.findRow(key)
	if err != nil {
		return err
	}
	return c.ExpandRowAt(section, row)
}

// CollapseRowKey resolves a stable key and collapses that row.
func (c *Controller) CollapseRowKey(key string) error {
	section, row, err := c.findRow(key)
	if err != nil {
		return err
	}
	return c.CollapseRowAt(section, row)
}

// ExpandAll opens every row's panel. A table with nothing hidden stays
// untouched.
func (c *Controller) ExpandAll() error {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	if c.fitUnsupported || !c.anyDataHidden() {
		return nil
	}
	for section := 0; section < c.s.SectionCount(); section++ {
		for row := 0; row < c.s.RowCount(section); row++ {
			if !c.s.RowExpanded(section, row) {
				c.expandAt(section, row)
			}
		}
	}
	return nil
}

// CollapseAll closes every open panel.
func (c *Controller) CollapseAll() error {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	if c.fitUnsupported {
		return nil
	}
	for section := 0; section < c.s.SectionCount(); section++ {
		for row := 0; row < c.s.RowCount(section); row++ {
			if c.s.RowExpanded(section, row) {
				c.collapseAt(section, row)
			}
		}
	}
	return nil
}

// Destroy tears the binding down: unsubscribes synchronously, restores
// the surface's base layout, and gates all further work. Idempotent; any
// tick already scheduled becomes a no-op.
func (c *Controller) Destroy() error {
	if c.state == StateDestroyed {
		return nil
	}
	c.state = StateDestroyed
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.pend = pending{}
	if !c.fitUnsupported {
		c.unbindAll()
	}
	c.emit(Event{Kind: EventDestroy, Table: c.id, Section: -1, Row: -1})
	return nil
}

// expandAt renders the panel against the current hidden-set, then flips
// the toggle. Rows seen for the first time are bound on the spot.
func (c *Controller) expandAt(section, row int) {
	c.bindRow(section, row)
	c.s.SetDetailsContent(section, row, c.renderDetails(section, row, c.readHidden()))
	c.s.SetRowExpanded(section, row, true)
	c.emitRow(EventExpand, section, row, true)
	c.emitRow(EventToggle, section, row, true)
}

func (c *Controller) collapseAt(section, row int) {
	c.bindRow(section, row)
	c.s.SetRowExpanded(section, row, false)
	c.emitRow(EventCollapse, section, row, false)
	c.emitRow(EventToggle, section, row, false)
}

func (c *Controller) validRow(section, row int) bool {
	return section >= 0 && section < c.s.SectionCount() &&
		row >= 0 && row < c.s.RowCount(section)
}

// findRow scans the body sections for a row bound to key.
func (c *Controller) findRow(key string) (int, int, error) {
	if c.state == StateDestroyed {
		return 0, 0, ErrDestroyed
	}
	for section := 0; section < c.s.SectionCount(); section++ {
		for row := 0; row < c.s.RowCount(section); row++ {
			if c.s.RowKey(section, row) == key {
				return section, row, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("row %q in %s: %w", key, c.id, ErrNoSuchRow)
}
