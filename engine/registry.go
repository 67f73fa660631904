package engine

import (
	"strconv"
	"strings"

	"tablefit/fit"
)

// buildColumns derives the solver's view of the table from its header:
// the control column pinned at index 0, then one entry per data column
// with priority, minimum width, and lock flag resolved. Runs at bind time
// and again whenever header structure or attributes change; the measured
// natural widths are cached in the snapshot until then.
func (c *Controller) buildColumns() []fit.Column {
	n := c.s.ColumnCount()
	cols := make([]fit.Column, 0, n)
	cols = append(cols, fit.Column{
		Index:    0,
		MinWidth: c.cfg.ControlWidth,
		Priority: 1,
		Locked:   true,
	})

	locked := 0
	for i := 1; i < n; i++ {
		col := fit.Column{Index: i, Priority: c.columnPriority(i)}
		col.MinWidth = c.columnMinWidth(i)
		col.Locked = col.Priority == 1
		if col.Locked {
			locked++
		}
		cols = append(cols, col)
	}

	if locked > 1 {
		diagf("table %s: %d columns carry priority 1 and can never hide",
			c.id, locked)
	}
	return cols
}

// columnPriority reads the priority attribute, defaulting to the column's
// position so later columns hide first. An unusable value keeps the
// positional default and is reported on the advisory channel only.
func (c *Controller) columnPriority(col int) int {
	v, ok := c.s.HeaderAttr(col, c.cfg.PriorityAttr)
	if !ok {
		return col
	}
	p, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || p < 1 {
		diagf("table %s: column %d priority %q unusable, using position",
			c.id, col, v)
		return col
	}
	return p
}

// columnMinWidth resolves the column's minimum width: explicit hint,
// else the one-time measured natural width, else the configured default
// (measurement yields zero while the table cannot be measured).
func (c *Controller) columnMinWidth(col int) int {
	if v, ok := c.s.HeaderAttr(col, c.cfg.WidthAttr); ok {
		w, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && w > 0 {
			return w
		}
		diagf("table %s: column %d width hint %q unusable, measuring",
			c.id, col, v)
	}
	if w := c.s.MeasureColumn(col); w > 0 {
		return w
	}
	return c.cfg.DefaultMinWidth
}

// columnLabel returns the label used for a column in details panels: the
// explicit override attribute when present, else the header text.
func (c *Controller) columnLabel(col int) string {
	if v, ok := c.s.HeaderAttr(col, c.cfg.LabelAttr); ok && v != "" {
		return v
	}
	return c.s.HeaderText(col)
}
