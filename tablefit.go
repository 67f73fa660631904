package tablefit

import (
	"errors"
	"fmt"
	"log"

	"tablefit/engine"
)

var (
	// ErrAlreadyAttached is returned when a surface is attached twice.
	ErrAlreadyAttached = errors.New("tablefit: table already attached")
	// ErrNotAttached is returned for operations on unknown surfaces.
	ErrNotAttached = errors.New("tablefit: table not attached")
)

// Manager tracks attached tables, applies shared option defaults, and
// fans controller events out to subscribers. One failing table never
// blocks the rest: the All variants keep going and join the errors.
//
// Like the engine underneath, a Manager assumes the host's single event
// loop and is not safe for concurrent use.
type Manager struct {
	base     []Option
	tables   map[engine.Surface]*engine.Controller
	order    []engine.Surface
	handlers []func(engine.Event)
}

// NewManager builds a manager whose base options apply to every attach.
func NewManager(base ...Option) *Manager {
	return &Manager{
		base:   append([]Option(nil), base...),
		tables: make(map[engine.Surface]*engine.Controller),
	}
}

// config merges built-ins, manager defaults, and per-call options into
// the controller configuration, then hooks event dispatch.
func (m *Manager) config(opts []Option) engine.Config {
	var cfg engine.Config
	for _, o := range m.base {
		if o != nil {
			o(&cfg)
		}
	}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	cfg.Emit = m.dispatch
	return cfg
}

// dispatch hands one event to every subscriber. A panicking subscriber
// is isolated so the rest still hear the event.
func (m *Manager) dispatch(ev engine.Event) {
	for _, h := range m.handlers {
		if h == nil {
			continue
		}
		func() {
			defer func() { _ = recover() }()
			h(ev)
		}()
	}
}

// Subscribe registers an event handler for every managed table. The
// returned cancel removes it; calling cancel more than once is safe.
func (m *Manager) Subscribe(fn func(engine.Event)) func() {
	m.handlers = append(m.handlers, fn)
	i := len(m.handlers) - 1
	return func() { m.handlers[i] = nil }
}

// Attach binds a controller to the surface using the manager's defaults
// plus the given options. Attaching the same surface twice is an error;
// the original attachment stays intact.
func (m *Manager) Attach(s engine.Surface, opts ...Option) (*engine.Controller, error) {
	if s == nil {
		return nil, engine.ErrNilSurface
	}
	if _, ok := m.tables[s]; ok {
		return nil, fmt.Errorf("attach %s: %w", s.ID(), ErrAlreadyAttached)
	}
	ctrl, err := engine.Attach(s, m.config(opts))
	if err != nil {
		return nil, err
	}
	m.tables[s] = ctrl
	m.order = append(m.order, s)
	return ctrl, nil
}

// AttachAll attaches every surface, continuing past failures, and
// returns the joined errors.
func (m *Manager) AttachAll(surfaces []engine.Surface, opts ...Option) error {
	var errs []error
	for _, s := range surfaces {
		if _, err := m.Attach(s, opts...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Detach destroys the surface's controller and forgets it. The surface
// is restored to its base layout.
func (m *Manager) Detach(s engine.Surface) error {
	ctrl, ok := m.tables[s]
	if !ok {
		return m.notAttached(s)
	}
	delete(m.tables, s)
	m.forget(s)
	return ctrl.Destroy()
}

// DetachAll detaches every managed table.
func (m *Manager) DetachAll() error {
	var errs []error
	for _, s := range append([]engine.Surface(nil), m.order...) {
		if err := m.Detach(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Controller returns the controller attached to s, if any.
func (m *Manager) Controller(s engine.Surface) (*engine.Controller, bool) {
	ctrl, ok := m.tables[s]
	return ctrl, ok
}

// Controllers returns every managed controller in attach order.
func (m *Manager) Controllers() []*engine.Controller {
	out := make([]*engine.Controller, 0, len(m.order))
	for _, s := range m.order {
		if ctrl, ok := m.tables[s]; ok {
			out = append(out, ctrl)
		}
	}
	return out
}

// Refresh schedules a re-measure and fit pass for one table, or for
// every table when s is nil.
func (m *Manager) Refresh(s engine.Surface) error {
	ctrls, err := m.resolve(s)
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range ctrls {
		if err := c.Refresh(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExpandAll opens every row panel of one table, or of every table when
// s is nil.
func (m *Manager) ExpandAll(s engine.Surface) error {
	ctrls, err := m.resolve(s)
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range ctrls {
		if err := c.ExpandAll(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CollapseAll closes every open panel of one table, or of every table
// when s is nil.
func (m *Manager) CollapseAll(s engine.Surface) error {
	ctrls, err := m.resolve(s)
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range ctrls {
		if err := c.CollapseAll(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExpandRow opens the panel of the row bound to key.
func (m *Manager) ExpandRow(s engine.Surface, key string) error {
	ctrl, ok := m.tables[s]
	if !ok {
		return m.notAttached(s)
	}
	return ctrl.ExpandRowKey(key)
}

// CollapseRow closes the panel of the row bound to key.
func (m *Manager) CollapseRow(s engine.Surface, key string) error {
	ctrl, ok := m.tables[s]
	if !ok {
		return m.notAttached(s)
	}
	return ctrl.CollapseRowKey(key)
}

// ToggleRow flips the panel of the row bound to key.
func (m *Manager) ToggleRow(s engine.Surface, key string) error {
	ctrl, ok := m.tables[s]
	if !ok {
		return m.notAttached(s)
	}
	return ctrl.ToggleRowKey(key)
}

// ExpandRowAt opens the panel of the row at a section position, for
// hosts that never assigned keys.
func (m *Manager) ExpandRowAt(s engine.Surface, section, row int) error {
	ctrl, ok := m.tables[s]
	if !ok {
		return m.notAttached(s)
	}
	return ctrl.ExpandRowAt(section, row)
}

// CollapseRowAt closes the panel of the row at a section position.
func (m *Manager) CollapseRowAt(s engine.Surface, section, row int) error {
	ctrl, ok := m.tables[s]
	if !ok {
		return m.notAttached(s)
	}
	return ctrl.CollapseRowAt(section, row)
}

// ToggleRowAt flips the panel of the row at a section position.
func (m *Manager) ToggleRowAt(s engine.Surface, section, row int) error {
	ctrl, ok := m.tables[s]
	if !ok {
		return m.notAttached(s)
	}
	return ctrl.ToggleRowAt(section, row)
}

// Options returns the manager's shared defaults in merge order.
func (m *Manager) Options() []Option {
	return append([]Option(nil), m.base...)
}

// UpdateOptions overlays opts onto the shared defaults, so they apply
// to every subsequent attach, and schedules a refresh of the tables
// already attached. Later options win field by field. Controllers keep
// the configuration they were built with; Reattach rebuilds one under
// the current defaults.
func (m *Manager) UpdateOptions(opts ...Option) error {
	m.base = append(m.base, opts...)
	return m.Refresh(nil)
}

// Reattach destroys the table's controller and attaches a fresh one
// under the manager's current defaults plus the given options.
// Subscribers see a destroy event followed by the new initial refit;
// stable row keys survive because they live on the rows themselves.
func (m *Manager) Reattach(s engine.Surface, opts ...Option) (*engine.Controller, error) {
	ctrl, ok := m.tables[s]
	if !ok {
		return nil, m.notAttached(s)
	}
	if err := ctrl.Destroy(); err != nil {
		return nil, err
	}
	next, err := engine.Attach(s, m.config(opts))
	if err != nil {
		delete(m.tables, s)
		m.forget(s)
		return nil, err
	}
	m.tables[s] = next
	return next, nil
}

// Tick runs pending coalesced work on every managed controller, in
// attach order.
func (m *Manager) Tick() {
	for _, c := range m.Controllers() {
		c.Tick()
	}
}

// Pending reports whether any managed controller has coalesced work
// waiting for a tick.
func (m *Manager) Pending() bool {
	for _, c := range m.Controllers() {
		if c.Pending() {
			return true
		}
	}
	return false
}

func (m *Manager) resolve(s engine.Surface) ([]*engine.Controller, error) {
	if s == nil {
		return m.Controllers(), nil
	}
	ctrl, ok := m.tables[s]
	if !ok {
		return nil, m.notAttached(s)
	}
	return []*engine.Controller{ctrl}, nil
}

func (m *Manager) notAttached(s engine.Surface) error {
	if s == nil {
		return ErrNotAttached
	}
	return fmt.Errorf("table %s: %w", s.ID(), ErrNotAttached)
}

func (m *Manager) forget(s engine.Surface) {
	for i, o := range m.order {
		if o == s {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// std backs the package-level functions, for hosts that want the
// one-manager common case without holding a Manager themselves.
var std = NewManager()

// Default returns the manager behind the package-level functions.
func Default() *Manager { return std }

// Attach binds the default manager to a surface.
func Attach(s engine.Surface, opts ...Option) (*engine.Controller, error) {
	return std.Attach(s, opts...)
}

// AttachAll attaches every surface to the default manager.
func AttachAll(surfaces []engine.Surface, opts ...Option) error {
	return std.AttachAll(surfaces, opts...)
}

// Detach removes a surface from the default manager.
func Detach(s engine.Surface) error { return std.Detach(s) }

// DetachAll removes every surface from the default manager.
func DetachAll() error { return std.DetachAll() }

// Refresh schedules a fit pass on one table, or all tables when s is nil.
func Refresh(s engine.Surface) error { return std.Refresh(s) }

// ExpandAll opens every panel of one table, or all tables when s is nil.
func ExpandAll(s engine.Surface) error { return std.ExpandAll(s) }

// CollapseAll closes every panel of one table, or all tables when s is
// nil.
func CollapseAll(s engine.Surface) error { return std.CollapseAll(s) }

// ExpandRow opens the panel of the row bound to key.
func ExpandRow(s engine.Surface, key string) error { return std.ExpandRow(s, key) }

// CollapseRow closes the panel of the row bound to key.
func CollapseRow(s engine.Surface, key string) error { return std.CollapseRow(s, key) }

// ToggleRow flips the panel of the row bound to key.
func ToggleRow(s engine.Surface, key string) error { return std.ToggleRow(s, key) }

// ExpandRowAt opens the panel of the row at a section position.
func ExpandRowAt(s engine.Surface, section, row int) error {
	return std.ExpandRowAt(s, section, row)
}

// CollapseRowAt closes the panel of the row at a section position.
func CollapseRowAt(s engine.Surface, section, row int) error {
	return std.CollapseRowAt(s, section, row)
}

// ToggleRowAt flips the panel of the row at a section position.
func ToggleRowAt(s engine.Surface, section, row int) error {
	return std.ToggleRowAt(s, section, row)
}

// Options returns the default manager's shared defaults.
func Options() []Option { return std.Options() }

// UpdateOptions overlays opts onto the default manager's shared
// defaults and schedules a refresh of its attached tables.
func UpdateOptions(opts ...Option) error { return std.UpdateOptions(opts...) }

// Reattach rebuilds the surface's controller under the default
// manager's current defaults plus the given options.
func Reattach(s engine.Surface, opts ...Option) (*engine.Controller, error) {
	return std.Reattach(s, opts...)
}

// Subscribe registers an event handler on the default manager.
func Subscribe(fn func(engine.Event)) func() { return std.Subscribe(fn) }

// Tick runs pending work on the default manager's controllers.
func Tick() { std.Tick() }

// Pending reports whether the default manager has work waiting.
func Pending() bool { return std.Pending() }

// SetDiagnostics routes advisory diagnostics to l; nil silences them
// again. Malformed hints and isolated panics are reported here instead
// of interrupting fit passes.
func SetDiagnostics(l *log.Logger) { engine.SetDiagnostics(l) }
