package engine

// EventKind classifies a controller event.
type EventKind uint8

const (
	// EventExpand fires when a row's details panel opens.
	EventExpand EventKind = iota
	// EventCollapse fires when a row's details panel closes.
	EventCollapse
	// EventToggle fires after either, carrying the resulting state.
	EventToggle
	// EventRefit fires after every fit pass.
	EventRefit
	// EventDestroy fires once when a controller is destroyed.
	EventDestroy
)

func (k EventKind) String() string {
	switch k {
	case EventExpand:
		return "expand"
	case EventCollapse:
		return "collapse"
	case EventToggle:
		return "toggle"
	case EventRefit:
		return "refit"
	case EventDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Event is a controller notification. Section, Row, and Key identify the
// row for expand/collapse/toggle events and are -1/-1/"" otherwise.
// Expanded is the post-toggle state on toggle events; Initial and
// AnyHidden describe refit events.
type Event struct {
	Kind      EventKind
	Table     string
	Section   int
	Row       int
	Key       string
	Expanded  bool
	Initial   bool
	AnyHidden bool
}

func (c *Controller) emit(ev Event) {
	if c.cfg.Emit == nil {
		return
	}
	// A panicking consumer must not abort the pass that emitted.
	defer func() {
		if r := recover(); r != nil {
			diagf("table %s: event consumer panicked: %v", c.id, r)
		}
	}()
	c.cfg.Emit(ev)
}

func (c *Controller) emitRefit(initial, anyHidden bool) {
	c.emit(Event{
		Kind:      EventRefit,
		Table:     c.id,
		Section:   -1,
		Row:       -1,
		Initial:   initial,
		AnyHidden: anyHidden,
	})
}

func (c *Controller) emitRow(kind EventKind, section, row int, expanded bool) {
	c.emit(Event{
		Kind:     kind,
		Table:    c.id,
		Section:  section,
		Row:      row,
		Key:      c.s.RowKey(section, row),
		Expanded: expanded,
	})
}
