package tablefit

import "tablefit/engine"

// Option adjusts one attachment knob. Manager defaults apply first, then
// per-attach options, so a call site only names what it overrides.
type Option func(*engine.Config)

// WithControlWidth fixes the reserved width of the control column.
func WithControlWidth(w int) Option {
	return func(c *engine.Config) { c.ControlWidth = w }
}

// WithDefaultMinWidth sets the minimum width assumed for columns that
// neither declare a hint nor measure to anything useful.
func WithDefaultMinWidth(w int) Option {
	return func(c *engine.Config) { c.DefaultMinWidth = w }
}

// WithStrategy selects how surviving columns share the freed width.
func WithStrategy(s engine.Strategy) Option {
	return func(c *engine.Config) { c.Strategy = s }
}

// WithDeferWhileHidden makes fit passes on an undisplayed table use the
// viewport width instead of hiding everything against a zero budget.
func WithDeferWhileHidden() Option {
	return func(c *engine.Config) { c.DeferWhileHidden = true }
}

// WithPriorityAttr overrides the header attribute read for priorities.
func WithPriorityAttr(name string) Option {
	return func(c *engine.Config) { c.PriorityAttr = name }
}

// WithWidthAttr overrides the header attribute read for width hints.
func WithWidthAttr(name string) Option {
	return func(c *engine.Config) { c.WidthAttr = name }
}

// WithLabelAttr overrides the header attribute read for details labels.
func WithLabelAttr(name string) Option {
	return func(c *engine.Config) { c.LabelAttr = name }
}

// WithClasses overrides marker class names; empty fields keep defaults.
func WithClasses(cl engine.Classes) Option {
	return func(c *engine.Config) {
		if cl.Control != "" {
			c.Classes.Control = cl.Control
		}
		if cl.Toggle != "" {
			c.Classes.Toggle = cl.Toggle
		}
		if cl.Details != "" {
			c.Classes.Details = cl.Details
		}
		if cl.Hidden != "" {
			c.Classes.Hidden = cl.Hidden
		}
	}
}

// WithIcons overrides the toggle icons; empty fields keep defaults.
func WithIcons(ic engine.Icons) Option {
	return func(c *engine.Config) {
		if ic.Expand != "" {
			c.Icons.Expand = ic.Expand
		}
		if ic.Collapse != "" {
			c.Icons.Collapse = ic.Collapse
		}
	}
}

// WithStrings overrides user-visible strings; empty fields keep defaults.
func WithStrings(s engine.Strings) Option {
	return func(c *engine.Config) {
		if s.ToggleHint != "" {
			c.Strings.ToggleHint = s.ToggleHint
		}
		if s.DetailsFallback != "" {
			c.Strings.DetailsFallback = s.DetailsFallback
		}
	}
}

// WithDetailsProvider installs a custom details renderer. The provider
// runs before the built-in label/value rendering and may decline by
// returning handled == false.
func WithDetailsProvider(p engine.DetailsProvider) Option {
	return func(c *engine.Config) { c.Provider = p }
}

// WithSchedule installs the host's wake-up hook, fired once per burst of
// coalesced changes. Hosts that poll Pending do not need it.
func WithSchedule(fn func()) Option {
	return func(c *engine.Config) { c.Schedule = fn }
}
