package engine

// bindAll runs the row binder over the whole table: the control header
// cell, then every row of every body section. Safe to run repeatedly;
// everything it inserts is checked for first.
func (c *Controller) bindAll() {
	if !c.s.ControlBound() {
		c.s.BindControl()
	}
	for section := 0; section < c.s.SectionCount(); section++ {
		c.bindSection(section)
	}
}

// bindSection binds the rows of one body section, picking up rows added
// since the last pass.
func (c *Controller) bindSection(section int) {
	for row := 0; row < c.s.RowCount(section); row++ {
		c.bindRow(section, row)
	}
}

// bindRow guarantees the row's stable key, its control cell with the
// toggle affordance, and the details container that follows it. The
// details identifier is deterministic so hosts can address the panel.
func (c *Controller) bindRow(section, row int) {
	key := c.s.RowKey(section, row)
	if key == "" {
		key = nextRowKey()
		c.s.SetRowKey(section, row, key)
	}
	if !c.s.RowControlBound(section, row) {
		c.s.BindRowControl(section, row)
	}
	if !c.s.DetailsBound(section, row) {
		c.s.BindDetails(section, row, detailsID(c.id, key), c.s.ColumnCount())
	}
}

// unbindAll restores the surface to its pre-attach shape: hidden markers
// cleared, panels collapsed and removed, controller-inserted control
// cells detached. Row cells go first since removing a control cell
// shifts the indices after it.
func (c *Controller) unbindAll() {
	n := c.s.ColumnCount()
	for section := 0; section < c.s.SectionCount(); section++ {
		for row := 0; row < c.s.RowCount(section); row++ {
			cells := c.s.CellCount(section, row)
			for col := 0; col < n && col < cells; col++ {
				c.s.SetCellHidden(section, row, col, false)
			}
			if c.s.RowExpanded(section, row) {
				c.s.SetRowExpanded(section, row, false)
			}
			c.s.UnbindDetails(section, row)
			c.s.UnbindRowControl(section, row)
		}
	}
	for col := 0; col < n; col++ {
		c.s.SetHeaderHidden(col, false)
	}
	c.s.UnbindControl()
}
