// Package fit decides which table columns to hide for a given available
// width. Solve is a pure function over column metadata: it owns no state,
// touches no UI, and always produces the same hidden-set for the same
// input.
package fit

import "sort"

// Column describes one table column as the solver sees it. Index is
// positional within the header snapshot; index 0 is reserved for the
// control column. Lower Priority means more important. Locked columns are
// never hidden, whatever the available width.
type Column struct {
	Index    int
	MinWidth int
	Priority int
	Locked   bool
}

// Set holds the indices of the columns hidden by a fit pass.
type Set map[int]struct{}

// NewSet builds a Set from explicit indices.
func NewSet(indices ...int) Set {
	s := make(Set, len(indices))
	for _, i := range indices {
		s[i] = struct{}{}
	}
	return s
}

// Has reports whether column index i is in the set.
func (s Set) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// Empty reports whether no column is hidden.
func (s Set) Empty() bool { return len(s) == 0 }

// Len returns the number of hidden columns.
func (s Set) Len() int { return len(s) }

// Indices returns the hidden indices in ascending order.
func (s Set) Indices() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Extra shrink iterations tolerated beyond the column count before the
// loop gives up. The candidate pool shrinks by one per iteration, so the
// ceiling should never bind on sane input.
const shrinkMargin = 4

// Solve returns the set of column indices to hide so that the minimum
// widths of the surviving columns fit within available. Both phases run on
// every call; the result is not incremental over a previous one.
//
// Shrink hides the least important candidate (highest priority value, ties
// broken toward the larger minimum width) until the visible sum fits or no
// unlocked candidate remains. Grow-back then restores hidden columns most
// important first (lowest priority value, ties toward the smaller minimum
// width) as long as the sum keeps fitting.
//
// If the locked columns alone exceed available, the overflow is accepted:
// locked and control columns are never hidden.
func Solve(columns []Column, available int) Set {
	hidden := make(Set)
	limit := len(columns) + shrinkMargin
	for i := 0; i < limit && visibleSum(columns, hidden) > available; i++ {
		idx, ok := shrinkCandidate(columns, hidden)
		if !ok {
			break
		}
		hidden[idx] = struct{}{}
	}
	growBack(columns, hidden, available)
	return hidden
}

// visibleSum totals the minimum widths of every column not in hidden. The
// control column counts while visible, like any other.
func visibleSum(columns []Column, hidden Set) int {
	sum := 0
	for _, c := range columns {
		if !hidden.Has(c.Index) {
			sum += c.MinWidth
		}
	}
	return sum
}

// shrinkCandidate picks the visible, unlocked, non-control column with the
// highest priority value, preferring the larger minimum width on ties.
// Full ties resolve to the earliest column, keeping the pick deterministic.
func shrinkCandidate(columns []Column, hidden Set) (int, bool) {
	found := false
	var best Column
	for _, c := range columns {
		if c.Index == 0 || c.Locked || hidden.Has(c.Index) {
			continue
		}
		if !found || c.Priority > best.Priority ||
			(c.Priority == best.Priority && c.MinWidth > best.MinWidth) {
			found, best = true, c
		}
	}
	return best.Index, found
}

// growBack restores hidden columns while they still fit, scanning most
// important first. The scan restarts from the top after every successful
// restore; a candidate that failed earlier in the scan can only have less
// room now, so the restart keeps the pass order stable without changing
// the outcome.
func growBack(columns []Column, hidden Set, available int) {
	for {
		restored := false
		for _, c := range restoreOrder(columns, hidden) {
			delete(hidden, c.Index)
			if visibleSum(columns, hidden) > available {
				hidden[c.Index] = struct{}{}
				continue
			}
			restored = true
			break
		}
		if !restored {
			return
		}
	}
}

// restoreOrder lists the hidden columns sorted lowest priority value
// first, ties by smaller minimum width, then by index.
func restoreOrder(columns []Column, hidden Set) []Column {
	out := make([]Column, 0, len(hidden))
	for _, c := range columns {
		if hidden.Has(c.Index) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.MinWidth != b.MinWidth {
			return a.MinWidth < b.MinWidth
		}
		return a.Index < b.Index
	})
	return out
}
