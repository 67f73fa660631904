package engine

// Surface is the host-side table the controller binds to: a header row,
// one or more body sections of rows, and the cells within them. The
// controller owns none of it; it queries shape and size, and mutates
// visibility markers and the auxiliary elements it inserts (control
// cells, details containers). grid.Table is the concrete implementation
// shipped with this module; tests use scripted doubles.
//
// Mutations performed through this interface must not feed back into the
// change feed. Only host-initiated edits (resize, content changes,
// attribute changes) are observable, otherwise every fit pass would
// schedule the next one.
type Surface interface {
	// ID identifies the table; empty means the controller generates a
	// fallback identifier.
	ID() string

	// HasHeader reports whether the table has its single header row.
	HasHeader() bool
	// ColumnCount returns the number of header cells, including the
	// control column once bound.
	ColumnCount() int
	// SectionCount returns the number of body sections.
	SectionCount() int
	// RowCount returns the number of data rows in a body section.
	RowCount(section int) int
	// CellCount returns the number of cells in a row; rows may be ragged.
	CellCount(section, row int) int
	// HasSpans reports whether any header or body cell spans more than
	// one column or row.
	HasSpans() bool

	// HeaderText returns the text of a header cell.
	HeaderText(col int) string
	// HeaderAttr returns a named attribute of a header cell, if present.
	HeaderAttr(col int, name string) (string, bool)
	// HeaderHidden reports the hidden marker on a header cell.
	HeaderHidden(col int) bool
	// CellText returns the text of a body cell.
	CellText(section, row, col int) string

	// MeasureColumn returns the natural width of a column's content, or
	// zero when nothing is measurable.
	MeasureColumn(col int) int
	// AvailableWidth returns the width the table may occupy right now,
	// zero while that is unknowable (for instance, not displayed).
	AvailableWidth() int
	// ViewportWidth returns the enclosing viewport's width, the fallback
	// budget used while the table itself cannot be measured.
	ViewportWidth() int
	// Visible reports whether the table is currently displayed.
	Visible() bool

	// Configure hands the surface its presentation hints once, before
	// any binding mutation.
	Configure(hints Hints)

	// ControlBound reports whether a control header cell occupies
	// index 0.
	ControlBound() bool
	// BindControl inserts the control header cell at index 0.
	BindControl()
	// UnbindControl removes the control header cell if the controller
	// inserted it.
	UnbindControl()

	// RowControlBound reports whether a row has its control cell.
	RowControlBound(section, row int) bool
	// BindRowControl inserts a control cell with a toggle affordance at
	// position 0 of a row, wired to the row's stable key.
	BindRowControl(section, row int)
	// UnbindRowControl removes a row's control cell if the controller
	// inserted it.
	UnbindRowControl(section, row int)

	// RowKey returns the row's stable key, empty if none was assigned.
	RowKey(section, row int) string
	// SetRowKey assigns the row's stable key.
	SetRowKey(section, row int, key string)

	// DetailsBound reports whether the row has its details container.
	DetailsBound(section, row int) bool
	// BindDetails inserts a details container immediately after the row.
	BindDetails(section, row int, id string, span int)
	// UnbindDetails removes the row's details container.
	UnbindDetails(section, row int)
	// SetDetailsSpan re-synchronizes the container's column span.
	SetDetailsSpan(section, row, span int)
	// SetDetailsContent replaces the container's rendered content.
	SetDetailsContent(section, row int, content Panel)

	// RowExpanded reports the toggle affordance's expressed state; this
	// is the authoritative expansion state, never cached elsewhere.
	RowExpanded(section, row int) bool
	// SetRowExpanded flips the toggle and the details visibility
	// together.
	SetRowExpanded(section, row int, expanded bool)

	// SetHeaderHidden toggles the hidden marker on a header cell.
	SetHeaderHidden(col int, hidden bool)
	// SetCellHidden toggles the hidden marker on a body cell.
	SetCellHidden(section, row, col int, hidden bool)

	// Observe subscribes to host-initiated changes. The returned cancel
	// detaches the subscription; it must be safe to call once.
	Observe(fn func(Change)) (cancel func())
}

// ChangeKind classifies a host-initiated change.
type ChangeKind uint8

const (
	// ChangeResize: the available width changed.
	ChangeResize ChangeKind = iota
	// ChangeHeader: header structure changed (columns added/removed).
	ChangeHeader
	// ChangeSection: rows changed within one body section.
	ChangeSection
	// ChangeAttribute: a header attribute changed.
	ChangeAttribute
	// ChangeVisibility: the table was shown or hidden.
	ChangeVisibility
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeResize:
		return "resize"
	case ChangeHeader:
		return "header"
	case ChangeSection:
		return "section"
	case ChangeAttribute:
		return "attribute"
	case ChangeVisibility:
		return "visibility"
	default:
		return "unknown"
	}
}

// Change is one entry in a surface's change feed. Section is meaningful
// only for ChangeSection.
type Change struct {
	Kind    ChangeKind
	Section int
}

// Hints carries the presentation knobs a surface needs to render what the
// controller binds: marker class names, toggle icons, and the control
// column's width and accessible hint.
type Hints struct {
	ControlWidth int
	Classes      Classes
	Icons        Icons
	ToggleHint   string
}

// Field is one label/value pair inside a details panel.
type Field struct {
	Label string
	Value string
}

// Panel is the rendered content of a row's details container, plus the
// accessible description derived from the row itself.
type Panel struct {
	Fields      []Field
	Description string
}

// RowView is the read-only snapshot handed to a custom details provider.
// Labels and Cells are indexed by column; Cells holds an empty string
// where the row has no cell.
type RowView struct {
	Table   string
	Section int
	Row     int
	Key     string
	Hidden  []int
	Labels  []string
	Cells   []string
}

// DetailsProvider supplies custom details content. Returning handled ==
// false, or a nil field slice, falls through to the default rendering; a
// panic is recovered and treated the same way.
type DetailsProvider func(row RowView) (fields []Field, handled bool)
