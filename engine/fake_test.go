package engine_test

import (
	"tablefit/engine"
)

// fakeSurface is a scripted, in-memory Surface for driving the controller
// without any rendering host. Mutations the controller performs are
// recorded; host-side edits are applied directly to the fields and then
// announced through notify.
type fakeSurface struct {
	id       string
	noHeader bool

	header   []*fakeHeaderCell
	sections []*fakeSection

	width    int
	viewport int
	visible  bool

	hints      engine.Hints
	configured int

	control  bool
	naturals map[string]int
	measures int

	subs []func(engine.Change)
}

type fakeHeaderCell struct {
	text     string
	attrs    map[string]string
	span     int
	hidden   bool
	control  bool
	inserted bool
}

type fakeSection struct {
	rows []*fakeRow
}

type fakeRow struct {
	key      string
	cells    []*fakeCell
	details  *fakeDetails
	expanded bool
}

type fakeCell struct {
	text     string
	span     int
	hidden   bool
	control  bool
	inserted bool
}

type fakeDetails struct {
	id      string
	span    int
	content engine.Panel
	renders int
}

var _ engine.Surface = (*fakeSurface)(nil)

func newFake(id string, cols ...*fakeHeaderCell) *fakeSurface {
	return &fakeSurface{
		id:       id,
		header:   cols,
		sections: []*fakeSection{{}},
		width:    80,
		viewport: 80,
		visible:  true,
		naturals: make(map[string]int),
	}
}

// hcol builds a header cell from a text and attribute pairs.
func hcol(text string, kv ...string) *fakeHeaderCell {
	attrs := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return &fakeHeaderCell{text: text, attrs: attrs}
}

func (f *fakeSurface) addRow(cells ...string) *fakeRow {
	r := &fakeRow{}
	for _, text := range cells {
		r.cells = append(r.cells, &fakeCell{text: text})
	}
	f.sections[0].rows = append(f.sections[0].rows, r)
	return r
}

func (f *fakeSurface) addRowTo(section int, cells ...string) *fakeRow {
	r := &fakeRow{}
	for _, text := range cells {
		r.cells = append(r.cells, &fakeCell{text: text})
	}
	f.sections[section].rows = append(f.sections[section].rows, r)
	return r
}

func (f *fakeSurface) notify(c engine.Change) {
	for _, fn := range f.subs {
		if fn != nil {
			fn(c)
		}
	}
}

func (f *fakeSurface) row(section, row int) *fakeRow {
	return f.sections[section].rows[row]
}

// Surface implementation.

func (f *fakeSurface) ID() string { return f.id }

func (f *fakeSurface) HasHeader() bool { return !f.noHeader }

func (f *fakeSurface) ColumnCount() int { return len(f.header) }

func (f *fakeSurface) SectionCount() int { return len(f.sections) }

func (f *fakeSurface) RowCount(section int) int { return len(f.sections[section].rows) }

func (f *fakeSurface) CellCount(section, row int) int { return len(f.row(section, row).cells) }

func (f *fakeSurface) HasSpans() bool {
	for _, h := range f.header {
		if h.span > 1 {
			return true
		}
	}
	for _, s := range f.sections {
		for _, r := range s.rows {
			for _, c := range r.cells {
				if c.span > 1 {
					return true
				}
			}
		}
	}
	return false
}

func (f *fakeSurface) HeaderText(col int) string { return f.header[col].text }

func (f *fakeSurface) HeaderAttr(col int, name string) (string, bool) {
	v, ok := f.header[col].attrs[name]
	return v, ok
}

func (f *fakeSurface) HeaderHidden(col int) bool { return f.header[col].hidden }

func (f *fakeSurface) CellText(section, row, col int) string {
	return f.row(section, row).cells[col].text
}

func (f *fakeSurface) MeasureColumn(col int) int {
	f.measures++
	return f.naturals[f.header[col].text]
}

func (f *fakeSurface) AvailableWidth() int {
	if !f.visible {
		return 0
	}
	return f.width
}

func (f *fakeSurface) ViewportWidth() int { return f.viewport }

func (f *fakeSurface) Visible() bool { return f.visible }

func (f *fakeSurface) Configure(hints engine.Hints) {
	f.hints = hints
	f.configured++
}

func (f *fakeSurface) ControlBound() bool { return f.control }

func (f *fakeSurface) BindControl() {
	cell := &fakeHeaderCell{control: true, inserted: true, attrs: map[string]string{}}
	f.header = append([]*fakeHeaderCell{cell}, f.header...)
	f.control = true
}

func (f *fakeSurface) UnbindControl() {
	if !f.control {
		return
	}
	if len(f.header) > 0 && f.header[0].control && f.header[0].inserted {
		f.header = f.header[1:]
	}
	f.control = false
}

func (f *fakeSurface) RowControlBound(section, row int) bool {
	r := f.row(section, row)
	return len(r.cells) > 0 && r.cells[0].control
}

func (f *fakeSurface) BindRowControl(section, row int) {
	r := f.row(section, row)
	cell := &fakeCell{control: true, inserted: true}
	r.cells = append([]*fakeCell{cell}, r.cells...)
}

func (f *fakeSurface) UnbindRowControl(section, row int) {
	r := f.row(section, row)
	if len(r.cells) > 0 && r.cells[0].control && r.cells[0].inserted {
		r.cells = r.cells[1:]
	}
}

func (f *fakeSurface) RowKey(section, row int) string { return f.row(section, row).key }

func (f *fakeSurface) SetRowKey(section, row int, key string) { f.row(section, row).key = key }

func (f *fakeSurface) DetailsBound(section, row int) bool { return f.row(section, row).details != nil }

func (f *fakeSurface) BindDetails(section, row int, id string, span int) {
	f.row(section, row).details = &fakeDetails{id: id, span: span}
}

func (f *fakeSurface) UnbindDetails(section, row int) { f.row(section, row).details = nil }

func (f *fakeSurface) SetDetailsSpan(section, row, span int) {
	if d := f.row(section, row).details; d != nil {
		d.span = span
	}
}

func (f *fakeSurface) SetDetailsContent(section, row int, content engine.Panel) {
	if d := f.row(section, row).details; d != nil {
		d.content = content
		d.renders++
	}
}

func (f *fakeSurface) RowExpanded(section, row int) bool { return f.row(section, row).expanded }

func (f *fakeSurface) SetRowExpanded(section, row int, expanded bool) {
	f.row(section, row).expanded = expanded
}

func (f *fakeSurface) SetHeaderHidden(col int, hidden bool) { f.header[col].hidden = hidden }

func (f *fakeSurface) SetCellHidden(section, row, col int, hidden bool) {
	f.row(section, row).cells[col].hidden = hidden
}

func (f *fakeSurface) Observe(fn func(engine.Change)) func() {
	f.subs = append(f.subs, fn)
	idx := len(f.subs) - 1
	return func() { f.subs[idx] = nil }
}
