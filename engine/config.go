package engine

// Built-in defaults, in terminal cells. Explicit hints in header
// attributes override them per column.
const (
	DefaultControlWidth    = 3
	DefaultMinColumnWidth  = 10
	DefaultPriorityAttr    = "priority"
	DefaultWidthAttr       = "min-width"
	DefaultLabelAttr       = "label"
	DefaultExpandIcon      = "▸"
	DefaultCollapseIcon    = "▾"
	DefaultToggleHint      = "show hidden columns"
	DefaultDetailsFallback = "row details"
)

// Strategy selects how surviving columns share the available width.
type Strategy string

const (
	// StrategyAuto renders columns at their natural widths.
	StrategyAuto Strategy = "auto"
	// StrategyFixed divides the available width evenly.
	StrategyFixed Strategy = "fixed"
)

// Classes are the marker names stamped on elements the controller binds
// or hides, for hosts that style by class.
type Classes struct {
	Control string
	Toggle  string
	Details string
	Hidden  string
}

// Icons are the toggle glyphs for the two expansion states.
type Icons struct {
	Expand   string
	Collapse string
}

// Strings are the accessible labels the controller hands to the surface
// and the details renderer.
type Strings struct {
	// ToggleHint describes the control column's purpose.
	ToggleHint string
	// DetailsFallback describes a details panel when no cell text
	// qualifies as a description.
	DetailsFallback string
}

// Config is the resolved per-controller configuration. The facade merges
// caller options over global defaults and hands the result here; fields
// left at their zero value fall back to the package defaults.
type Config struct {
	// ControlWidth reserves space for the control column.
	ControlWidth int
	// DefaultMinWidth is used when a column has no width hint and
	// measurement yields nothing.
	DefaultMinWidth int
	// Strategy selects the rendering width policy.
	Strategy Strategy
	// DeferWhileHidden substitutes the viewport width while the table is
	// not visible, so an undisplayed table does not collapse to nothing.
	DeferWhileHidden bool

	// Attribute names read off header cells.
	PriorityAttr string
	WidthAttr    string
	LabelAttr    string

	Classes Classes
	Icons   Icons
	Strings Strings

	// Provider, when set, is consulted before the default details
	// rendering.
	Provider DetailsProvider

	// Emit receives lifecycle and row events; nil drops them.
	Emit func(Event)
	// Schedule is invoked when coalesced work first becomes pending.
	// Hosts that poll Pending and call Tick themselves leave it nil.
	Schedule func()
}

func (c Config) withDefaults() Config {
	if c.ControlWidth <= 0 {
		c.ControlWidth = DefaultControlWidth
	}
	if c.DefaultMinWidth <= 0 {
		c.DefaultMinWidth = DefaultMinColumnWidth
	}
	if c.Strategy != StrategyFixed {
		c.Strategy = StrategyAuto
	}
	if c.PriorityAttr == "" {
		c.PriorityAttr = DefaultPriorityAttr
	}
	if c.WidthAttr == "" {
		c.WidthAttr = DefaultWidthAttr
	}
	if c.LabelAttr == "" {
		c.LabelAttr = DefaultLabelAttr
	}
	if c.Classes.Control == "" {
		c.Classes.Control = "tf-control"
	}
	if c.Classes.Toggle == "" {
		c.Classes.Toggle = "tf-toggle"
	}
	if c.Classes.Details == "" {
		c.Classes.Details = "tf-details"
	}
	if c.Classes.Hidden == "" {
		c.Classes.Hidden = "tf-hidden"
	}
	if c.Icons.Expand == "" {
		c.Icons.Expand = DefaultExpandIcon
	}
	if c.Icons.Collapse == "" {
		c.Icons.Collapse = DefaultCollapseIcon
	}
	if c.Strings.ToggleHint == "" {
		c.Strings.ToggleHint = DefaultToggleHint
	}
	if c.Strings.DetailsFallback == "" {
		c.Strings.DetailsFallback = DefaultDetailsFallback
	}
	return c
}

func (c Config) hints() Hints {
	return Hints{
		ControlWidth: c.ControlWidth,
		Classes:      c.Classes,
		Icons:        c.Icons,
		ToggleHint:   c.Strings.ToggleHint,
	}
}
