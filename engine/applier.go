package engine

import "tablefit/fit"

// applyHidden projects a hidden-set onto the surface: hidden markers on
// header and body cells, the derived control-column rule, details span
// resync, and a re-render of every open panel against the new set.
func (c *Controller) applyHidden(hidden fit.Set) {
	n := c.s.ColumnCount()

	// The control column only earns its place while something is hidden;
	// otherwise it would sit as a dangling empty leading column.
	controlHidden := hidden.Empty()

	for col := 0; col < n; col++ {
		h := hidden.Has(col)
		if col == 0 {
			h = controlHidden
		}
		c.s.SetHeaderHidden(col, h)
	}

	for section := 0; section < c.s.SectionCount(); section++ {
		for row := 0; row < c.s.RowCount(section); row++ {
			cells := c.s.CellCount(section, row)
			for col := 0; col < n && col < cells; col++ {
				h := hidden.Has(col)
				if col == 0 {
					h = controlHidden
				}
				c.s.SetCellHidden(section, row, col, h)
			}
			// Span drifts when columns come and go between passes.
			c.s.SetDetailsSpan(section, row, n)
			if c.s.RowExpanded(section, row) {
				c.s.SetDetailsContent(section, row,
					c.renderDetails(section, row, hidden))
			}
		}
	}
}

// readHidden derives the current hidden-set from the structure's own
// markers, control column excluded: its state follows the derived rule,
// not the solver.
func (c *Controller) readHidden() fit.Set {
	hidden := make(fit.Set)
	for col := 1; col < c.s.ColumnCount(); col++ {
		if c.s.HeaderHidden(col) {
			hidden[col] = struct{}{}
		}
	}
	return hidden
}

// anyDataHidden reports whether any data column is currently hidden.
func (c *Controller) anyDataHidden() bool {
	for col := 1; col < c.s.ColumnCount(); col++ {
		if c.s.HeaderHidden(col) {
			return true
		}
	}
	return false
}
