// Package engine contains the per-table machinery behind tablefit: the
// column registry, row binder, visibility applier, details renderer, and
// the controller state machine tying them together. It never renders
// anything itself; all reads and writes go through the Surface interface,
// so any table-shaped host can be driven, including test doubles.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
)

var (
	// ErrNilSurface is returned when attaching to a nil surface.
	ErrNilSurface = errors.New("tablefit: nil surface")
	// ErrMissingHeader is returned when the surface has no header row.
	ErrMissingHeader = errors.New("tablefit: table has no header row")
	// ErrMissingBody is returned when the surface has no body section.
	ErrMissingBody = errors.New("tablefit: table has no body section")
	// ErrDestroyed is returned by operations on a destroyed controller.
	ErrDestroyed = errors.New("tablefit: controller destroyed")
	// ErrNoSuchRow is returned when a row reference resolves to nothing.
	ErrNoSuchRow = errors.New("tablefit: no such row")
)

// diag receives advisory warnings: suspicious priority configuration,
// unusable attribute values, provider panics. None of it affects
// behavior, and by default it all goes nowhere.
var diag = log.New(io.Discard, "", 0)

// SetDiagnostics routes advisory output to l. Passing nil restores the
// discard default. Useful with tea.LogToFile while debugging a layout;
// never required for correct operation.
func SetDiagnostics(l *log.Logger) {
	if l == nil {
		diag = log.New(io.Discard, "", 0)
		return
	}
	diag = l
}

func diagf(format string, args ...any) {
	diag.Printf("tablefit: "+format, args...)
}

// Generated row keys and fallback table identifiers are unique for the
// life of the process, across all tables.
var (
	rowKeySeq atomic.Uint64
	tableSeq  atomic.Uint64
)

func nextRowKey() string { return fmt.Sprintf("r%d", rowKeySeq.Add(1)) }

func nextTableID() string { return fmt.Sprintf("table-%d", tableSeq.Add(1)) }

// detailsID derives the deterministic identifier of a row's details
// container from the table identifier and the row's stable key.
func detailsID(table, key string) string {
	return table + "-details-" + key
}
