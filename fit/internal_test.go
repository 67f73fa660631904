package fit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShrinkCandidate(t *testing.T) {
	t.Parallel()

	cols := []Column{
		{Index: 0, MinWidth: 10, Priority: 1, Locked: true},
		{Index: 1, MinWidth: 90, Priority: 1, Locked: true},
		{Index: 2, MinWidth: 60, Priority: 2},
		{Index: 3, MinWidth: 80, Priority: 3},
		{Index: 4, MinWidth: 70, Priority: 3},
	}

	idx, ok := shrinkCandidate(cols, NewSet())
	assert.True(t, ok)
	assert.Equal(t, 3, idx, "highest priority value, wider on tie")

	idx, ok = shrinkCandidate(cols, NewSet(3))
	assert.True(t, ok)
	assert.Equal(t, 4, idx)

	idx, ok = shrinkCandidate(cols, NewSet(3, 4))
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = shrinkCandidate(cols, NewSet(2, 3, 4))
	assert.False(t, ok, "locked and control columns are never candidates")
}

func TestShrinkCandidateFullTieIsStable(t *testing.T) {
	t.Parallel()

	cols := []Column{
		{Index: 1, MinWidth: 50, Priority: 2},
		{Index: 2, MinWidth: 50, Priority: 2},
	}
	idx, ok := shrinkCandidate(cols, NewSet())
	assert.True(t, ok)
	assert.Equal(t, 1, idx, "earliest column wins a full tie")
}

func TestRestoreOrder(t *testing.T) {
	t.Parallel()

	cols := []Column{
		{Index: 1, MinWidth: 40, Priority: 4},
		{Index: 2, MinWidth: 30, Priority: 2},
		{Index: 3, MinWidth: 20, Priority: 2},
		{Index: 4, MinWidth: 10, Priority: 3},
	}
	order := restoreOrder(cols, NewSet(1, 2, 3, 4))

	got := make([]int, len(order))
	for i, c := range order {
		got[i] = c.Index
	}
	assert.Equal(t, []int{3, 2, 4, 1}, got,
		"lowest priority value first, smaller width on tie")
}

func TestVisibleSum(t *testing.T) {
	t.Parallel()

	cols := []Column{
		{Index: 0, MinWidth: 5},
		{Index: 1, MinWidth: 10},
		{Index: 2, MinWidth: 20},
	}
	assert.Equal(t, 35, visibleSum(cols, NewSet()))
	assert.Equal(t, 15, visibleSum(cols, NewSet(2)))
	assert.Equal(t, 0, visibleSum(cols, NewSet(0, 1, 2)))
}
