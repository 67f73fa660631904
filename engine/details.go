package engine

import (
	"strings"

	"tablefit/fit"
)

// renderDetails produces a row's panel content against a hidden-set. A
// configured provider gets the first word; anything it cannot or will
// not handle falls through to the default rendering.
func (c *Controller) renderDetails(section, row int, hidden fit.Set) Panel {
	if c.cfg.Provider != nil {
		if p, ok := c.provideDetails(section, row, hidden); ok {
			return p
		}
	}
	return c.defaultDetails(section, row, hidden)
}

// provideDetails invokes the caller's provider with panic isolation: a
// panic, a declined call, or a nil field slice all fall back to the
// default rendering for this call only.
func (c *Controller) provideDetails(section, row int, hidden fit.Set) (p Panel, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			diagf("table %s: details provider panicked: %v", c.id, r)
			p, ok = Panel{}, false
		}
	}()
	fields, handled := c.cfg.Provider(c.rowView(section, row, hidden))
	if !handled || fields == nil {
		return Panel{}, false
	}
	return Panel{
		Fields:      fields,
		Description: c.describeRow(section, row, hidden),
	}, true
}

// defaultDetails pairs each hidden column's label with the row's cell
// content, in column order.
func (c *Controller) defaultDetails(section, row int, hidden fit.Set) Panel {
	cells := c.s.CellCount(section, row)
	fields := make([]Field, 0, hidden.Len())
	for _, col := range hidden.Indices() {
		if col == 0 {
			continue
		}
		f := Field{Label: c.columnLabel(col)}
		if col < cells {
			f.Value = c.s.CellText(section, row, col)
		}
		fields = append(fields, f)
	}
	return Panel{
		Fields:      fields,
		Description: c.describeRow(section, row, hidden),
	}
}

// describeRow builds the panel's accessible description from the first
// visible, non-control cell with non-empty text, falling back to the
// configured generic label.
func (c *Controller) describeRow(section, row int, hidden fit.Set) string {
	n := c.s.ColumnCount()
	cells := c.s.CellCount(section, row)
	for col := 1; col < n && col < cells; col++ {
		if hidden.Has(col) {
			continue
		}
		if text := c.s.CellText(section, row, col); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return c.cfg.Strings.DetailsFallback
}

// rowView snapshots a row for the custom provider.
func (c *Controller) rowView(section, row int, hidden fit.Set) RowView {
	n := c.s.ColumnCount()
	cells := c.s.CellCount(section, row)
	labels := make([]string, n)
	values := make([]string, n)
	for col := 0; col < n; col++ {
		labels[col] = c.columnLabel(col)
		if col < cells {
			values[col] = c.s.CellText(section, row, col)
		}
	}
	return RowView{
		Table:   c.id,
		Section: section,
		Row:     row,
		Key:     c.s.RowKey(section, row),
		Hidden:  hidden.Indices(),
		Labels:  labels,
		Cells:   values,
	}
}
