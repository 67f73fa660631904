// Package tablefit keeps wide tables readable in narrow windows by
// hiding whole columns instead of letting them wrap or overflow, and
// moving the concealed values into per-row details panels the user can
// expand.
//
// The central entry point is [Attach], which binds a controller to any
// table implementing [engine.Surface], typically a [grid.Table]:
//
//	tbl := grid.New("orders",
//		grid.Col("Order", grid.Priority(1)),
//		grid.Col("Customer", grid.Priority(2)),
//		grid.Col("Total", grid.Priority(4), grid.MinWidth(12)),
//	)
//	tbl.AppendRow("A-1042", "Ada Lovelace", "$120.00")
//	ctrl, err := tablefit.Attach(tbl)
//
// The controller measures the table, decides which columns fit, marks
// the rest hidden, and inserts a control column whose per-row toggles
// reveal the hidden values in a details panel. Columns declare their
// importance through a priority rank (1 never hides); shrinking hides
// the least important column first, and growing restores the most
// important first.
//
// # Reacting to change
//
// Hosts report edits (resizes, new rows, attribute changes) through
// the surface's change feed. The controller coalesces a burst into one
// pending pass; run it with [Tick] on the next frame, or poll [Pending].
// Everything is single-threaded by contract: calls belong on the host's
// event loop.
//
// # Options
//
// [Option] values adjust one attachment each and merge left to right
// over the manager's defaults:
//
//	m := tablefit.NewManager(tablefit.WithDefaultMinWidth(12))
//	m.Attach(tbl, tablefit.WithControlWidth(4))
//
// [UpdateOptions] overlays new defaults for later attaches and
// schedules a refresh of the tables already managed; [Reattach]
// rebuilds a single table under the current defaults.
//
// # Events
//
// [Subscribe] observes expansion, refit, and teardown across every
// managed table; a panicking handler is isolated and never disturbs the
// table itself:
//
//	cancel := tablefit.Subscribe(func(ev engine.Event) { ... })
//	defer cancel()
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrAlreadyAttached]: surface already has a controller
//   - [ErrNotAttached]: operation on an unknown surface
//   - [engine.ErrMissingHeader], [engine.ErrMissingBody]: structure
//     unusable for fitting
//   - [engine.ErrNoSuchRow]: row key or position not found
//   - [engine.ErrDestroyed]: operation after teardown
package tablefit
