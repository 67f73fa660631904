package grid

// engine.Surface implementation. Nothing in this file notifies observers:
// these are the controller's own writes, and echoing them back through
// the change feed would schedule a refit for every refit.

import (
	runewidth "github.com/mattn/go-runewidth"

	"tablefit/engine"
)

// ID implements engine.Surface.
func (t *Table) ID() string { return t.id }

// HasHeader implements engine.Surface.
func (t *Table) HasHeader() bool { return t.header != nil }

// ColumnCount implements engine.Surface.
func (t *Table) ColumnCount() int { return len(t.header) }

// SectionCount implements engine.Surface.
func (t *Table) SectionCount() int { return len(t.sections) }

// RowCount implements engine.Surface.
func (t *Table) RowCount(section int) int { return len(t.sections[section].Rows) }

// CellCount implements engine.Surface.
func (t *Table) CellCount(section, row int) int {
	return len(t.sections[section].Rows[row].Cells)
}

// HasSpans implements engine.Surface.
func (t *Table) HasSpans() bool {
	for _, h := range t.header {
		if h.Span > 1 {
			return true
		}
	}
	for _, s := range t.sections {
		for _, r := range s.Rows {
			for _, c := range r.Cells {
				if c.Span > 1 {
					return true
				}
			}
		}
	}
	return false
}

// HeaderText implements engine.Surface.
func (t *Table) HeaderText(col int) string { return t.header[col].Text }

// HeaderAttr implements engine.Surface.
func (t *Table) HeaderAttr(col int, name string) (string, bool) {
	v, ok := t.header[col].Attrs[name]
	return v, ok
}

// HeaderHidden implements engine.Surface.
func (t *Table) HeaderHidden(col int) bool { return t.header[col].Hidden }

// CellText implements engine.Surface.
func (t *Table) CellText(section, row, col int) string {
	return t.sections[section].Rows[row].Cells[col].Text
}

// MeasureColumn implements engine.Surface: the widest rendered content in
// the column, header included, measured in terminal cells so double-width
// runes count as two.
func (t *Table) MeasureColumn(col int) int {
	w := runewidth.StringWidth(t.header[col].Text)
	for _, s := range t.sections {
		for _, r := range s.Rows {
			if col < len(r.Cells) {
				if cw := runewidth.StringWidth(r.Cells[col].Text); cw > w {
					w = cw
				}
			}
		}
	}
	return w
}

// AvailableWidth implements engine.Surface.
func (t *Table) AvailableWidth() int {
	if !t.visible {
		return 0
	}
	return t.width
}

// ViewportWidth implements engine.Surface.
func (t *Table) ViewportWidth() int { return t.viewport }

// Visible implements engine.Surface.
func (t *Table) Visible() bool { return t.visible }

// Configure implements engine.Surface.
func (t *Table) Configure(hints engine.Hints) { t.hints = hints }

// ControlBound implements engine.Surface.
func (t *Table) ControlBound() bool {
	return len(t.header) > 0 && t.header[0].Control
}

// BindControl implements engine.Surface.
func (t *Table) BindControl() {
	h := &HeaderCell{
		Control:  true,
		Class:    t.hints.Classes.Control,
		inserted: true,
	}
	t.header = append([]*HeaderCell{h}, t.header...)
}

// UnbindControl implements engine.Surface. A control column the host
// built itself stays put.
func (t *Table) UnbindControl() {
	if len(t.header) == 0 || !t.header[0].inserted {
		return
	}
	t.header = t.header[1:]
}

// RowControlBound implements engine.Surface.
func (t *Table) RowControlBound(section, row int) bool {
	cells := t.sections[section].Rows[row].Cells
	return len(cells) > 0 && cells[0].Control
}

// BindRowControl implements engine.Surface.
func (t *Table) BindRowControl(section, row int) {
	r := t.sections[section].Rows[row]
	c := &Cell{
		Control:  true,
		Class:    t.hints.Classes.Toggle,
		inserted: true,
	}
	r.Cells = append([]*Cell{c}, r.Cells...)
}

// UnbindRowControl implements engine.Surface.
func (t *Table) UnbindRowControl(section, row int) {
	r := t.sections[section].Rows[row]
	if len(r.Cells) == 0 || !r.Cells[0].inserted {
		return
	}
	r.Cells = r.Cells[1:]
}

// RowKey implements engine.Surface.
func (t *Table) RowKey(section, row int) string {
	return t.sections[section].Rows[row].Key
}

// SetRowKey implements engine.Surface.
func (t *Table) SetRowKey(section, row int, key string) {
	t.sections[section].Rows[row].Key = key
}

// DetailsBound implements engine.Surface.
func (t *Table) DetailsBound(section, row int) bool {
	return t.sections[section].Rows[row].Details != nil
}

// BindDetails implements engine.Surface.
func (t *Table) BindDetails(section, row int, id string, span int) {
	t.sections[section].Rows[row].Details = &Details{
		ID:    id,
		Span:  span,
		Class: t.hints.Classes.Details,
	}
}

// UnbindDetails implements engine.Surface.
func (t *Table) UnbindDetails(section, row int) {
	t.sections[section].Rows[row].Details = nil
}

// SetDetailsSpan implements engine.Surface.
func (t *Table) SetDetailsSpan(section, row, span int) {
	if d := t.sections[section].Rows[row].Details; d != nil {
		d.Span = span
	}
}

// SetDetailsContent implements engine.Surface.
func (t *Table) SetDetailsContent(section, row int, content engine.Panel) {
	if d := t.sections[section].Rows[row].Details; d != nil {
		d.Content = content
	}
}

// RowExpanded implements engine.Surface.
func (t *Table) RowExpanded(section, row int) bool {
	return t.sections[section].Rows[row].Expanded
}

// SetRowExpanded implements engine.Surface.
func (t *Table) SetRowExpanded(section, row int, expanded bool) {
	t.sections[section].Rows[row].Expanded = expanded
}

// SetHeaderHidden implements engine.Surface. The Hidden flag is the
// marker here; Class keeps naming what the element is.
func (t *Table) SetHeaderHidden(col int, hidden bool) {
	t.header[col].Hidden = hidden
}

// SetCellHidden implements engine.Surface.
func (t *Table) SetCellHidden(section, row, col int, hidden bool) {
	t.sections[section].Rows[row].Cells[col].Hidden = hidden
}

// Observe implements engine.Surface.
func (t *Table) Observe(fn func(engine.Change)) func() {
	t.subs = append(t.subs, fn)
	i := len(t.subs) - 1
	return func() { t.subs[i] = nil }
}
