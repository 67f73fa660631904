// Package grid is the concrete table structure tablefit ships: a header
// row of attributed cells, body sections of rows, and the details
// containers the controller binds. It implements engine.Surface, measures
// natural column widths itself, and feeds host-side edits into the change
// stream the controller observes.
//
// Only the Table methods in this file count as host edits and notify
// observers; the Surface methods in surface.go are the controller's own
// writes and stay silent, otherwise every fit pass would schedule the
// next one.
package grid

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"

	"tablefit/engine"
)

// HeaderCell is one column head: its text, the attribute map the column
// registry reads, and the visibility marker the applier writes. Control
// marks the toggle column the controller inserts.
type HeaderCell struct {
	Text    string
	Attrs   map[string]string
	Span    int
	Hidden  bool
	Control bool
	Class   string

	inserted bool
}

// Cell is one body cell.
type Cell struct {
	Text    string
	Span    int
	Hidden  bool
	Control bool
	Class   string

	inserted bool
}

// Details is the auxiliary container rendered after an expanded row.
type Details struct {
	ID      string
	Span    int
	Content engine.Panel
	Class   string
}

// Row is a data row. Key is its stable identity; the controller assigns
// one if the caller did not. Expanded is the toggle's expressed state and
// the single source of truth for whether Details is showing.
type Row struct {
	Key      string
	Cells    []*Cell
	Details  *Details
	Expanded bool
}

// Section is one body section of rows.
type Section struct {
	Rows []*Row
}

// Table is the whole structure. Build one with New, hand it to the
// facade, and keep mutating it through these methods; the attached
// controller picks the edits up on its next tick.
type Table struct {
	id       string
	header   []*HeaderCell
	sections []*Section

	width    int
	viewport int
	visible  bool

	hints engine.Hints

	subs []func(engine.Change)
}

var _ engine.Surface = (*Table)(nil)

// ColOption configures a column at construction time.
type ColOption func(*HeaderCell)

// Priority sets the column's importance rank; lower hides later. Written
// under the default attribute name; tables read through overridden
// attribute names should use Attr directly.
func Priority(p int) ColOption {
	return Attr(engine.DefaultPriorityAttr, strconv.Itoa(p))
}

// MinWidth pins the column's minimum width instead of measuring it.
func MinWidth(w int) ColOption {
	return Attr(engine.DefaultWidthAttr, strconv.Itoa(w))
}

// Label overrides the column's label in details panels.
func Label(l string) ColOption {
	return Attr(engine.DefaultLabelAttr, l)
}

// Attr sets a raw header attribute.
func Attr(name, value string) ColOption {
	return func(h *HeaderCell) {
		h.Attrs[name] = value
	}
}

// SpanCols marks the header cell as spanning n columns. Anything above
// one puts the table in fit-unsupported mode at attach.
func SpanCols(n int) ColOption {
	return func(h *HeaderCell) {
		h.Span = n
	}
}

// Col builds a header cell.
func Col(text string, opts ...ColOption) *HeaderCell {
	h := &HeaderCell{Text: text, Attrs: make(map[string]string)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// New builds a table with one empty body section. The initial width and
// viewport come from the terminal when one is attached, so a table is
// usable before the first resize message arrives.
func New(id string, cols ...*HeaderCell) *Table {
	vw := detectViewport()
	return &Table{
		id:       id,
		header:   cols,
		sections: []*Section{{}},
		width:    vw,
		viewport: vw,
		visible:  true,
	}
}

// detectViewport sizes the fallback budget: the real terminal when
// stdout is one, the COLUMNS convention otherwise, else a conservative
// default.
func detectViewport() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	if c := os.Getenv("COLUMNS"); c != "" {
		if n, err := strconv.Atoi(c); err == nil && n > 0 {
			return n
		}
	}
	return 80
}

// Header returns the header cells, control column included once bound.
func (t *Table) Header() []*HeaderCell { return t.header }

// Rows returns the rows of one body section.
func (t *Table) Rows(section int) []*Row { return t.sections[section].Rows }

// Hints returns the presentation hints the controller configured.
func (t *Table) Hints() engine.Hints { return t.hints }

// Width returns the current container width.
func (t *Table) Width() int { return t.width }

// AddSection appends an empty body section and returns its index.
func (t *Table) AddSection() int {
	t.sections = append(t.sections, &Section{})
	return len(t.sections) - 1
}

// AppendRow adds a row of cells to the first body section.
func (t *Table) AppendRow(cells ...string) *Row {
	return t.AppendRowTo(0, cells...)
}

// AppendKeyedRow adds a row with a caller-supplied stable key.
func (t *Table) AppendKeyedRow(key string, cells ...string) *Row {
	r := t.AppendRowTo(0, cells...)
	r.Key = key
	return r
}

// AppendRowTo adds a row to the given body section.
func (t *Table) AppendRowTo(section int, cells ...string) *Row {
	r := &Row{}
	for _, text := range cells {
		r.Cells = append(r.Cells, &Cell{Text: text})
	}
	// Rows added after binding are one control cell short until the
	// next tick re-runs the binder; that is expected.
	t.sections[section].Rows = append(t.sections[section].Rows, r)
	t.notify(engine.Change{Kind: engine.ChangeSection, Section: section})
	return r
}

// RemoveRow deletes a row; its details container goes with it.
func (t *Table) RemoveRow(section, row int) {
	s := t.sections[section]
	s.Rows = append(s.Rows[:row], s.Rows[row+1:]...)
	t.notify(engine.Change{Kind: engine.ChangeSection, Section: section})
}

// SetCell replaces a body cell's text.
func (t *Table) SetCell(section, row, col int, text string) {
	t.sections[section].Rows[row].Cells[col].Text = text
	t.notify(engine.Change{Kind: engine.ChangeSection, Section: section})
}

// SetHeaderAttr updates a header attribute; the registry rebuilds on the
// next tick.
func (t *Table) SetHeaderAttr(col int, name, value string) {
	h := t.header[col]
	if h.Attrs == nil {
		h.Attrs = make(map[string]string)
	}
	h.Attrs[name] = value
	t.notify(engine.Change{Kind: engine.ChangeAttribute})
}

// AddColumn appends a column; existing rows grow an empty trailing cell
// to stay rectangular.
func (t *Table) AddColumn(col *HeaderCell) {
	t.header = append(t.header, col)
	for _, s := range t.sections {
		for _, r := range s.Rows {
			r.Cells = append(r.Cells, &Cell{})
		}
	}
	t.notify(engine.Change{Kind: engine.ChangeHeader})
}

// RemoveColumn deletes a data column and its cells. The control column
// belongs to the controller and is ignored here.
func (t *Table) RemoveColumn(col int) {
	if col < 0 || col >= len(t.header) || t.header[col].Control {
		return
	}
	t.header = append(t.header[:col], t.header[col+1:]...)
	for _, s := range t.sections {
		for _, r := range s.Rows {
			if col < len(r.Cells) {
				r.Cells = append(r.Cells[:col], r.Cells[col+1:]...)
			}
		}
	}
	t.notify(engine.Change{Kind: engine.ChangeHeader})
}

// SetWidth updates the container width, usually from a resize message.
func (t *Table) SetWidth(w int) {
	if t.width == w {
		return
	}
	t.width = w
	t.notify(engine.Change{Kind: engine.ChangeResize})
}

// SetViewport updates the fallback budget used while the table itself
// cannot be measured.
func (t *Table) SetViewport(w int) {
	if t.viewport == w {
		return
	}
	t.viewport = w
	t.notify(engine.Change{Kind: engine.ChangeResize})
}

// SetVisible flips whether the table is displayed.
func (t *Table) SetVisible(v bool) {
	if t.visible == v {
		return
	}
	t.visible = v
	t.notify(engine.Change{Kind: engine.ChangeVisibility})
}

func (t *Table) notify(c engine.Change) {
	for _, fn := range t.subs {
		if fn != nil {
			fn(c)
		}
	}
}
