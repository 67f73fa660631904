package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlashExpiry(t *testing.T) {
	t.Parallel()

	b := NewStatusBar()
	b.SetWidth(80)

	b.Flash("loaded orders", LevelOK)
	b.Tick()
	assert.Contains(t, b.View(), "loaded orders", "fresh flash must survive a tick")

	b.deadline = time.Now().Add(-time.Millisecond)
	b.Tick()
	assert.NotContains(t, b.View(), "loaded orders")
}

func TestErrorFlashSticksUntilReplaced(t *testing.T) {
	t.Parallel()

	b := NewStatusBar()
	b.SetWidth(80)

	b.Flash("connection lost", LevelError)
	for i := 0; i < 3; i++ {
		b.Tick()
	}
	assert.Contains(t, b.View(), "connection lost")

	b.Flash("reconnected", LevelOK)
	assert.Contains(t, b.View(), "reconnected")
	assert.NotContains(t, b.View(), "connection lost")
}

func TestPageInfo(t *testing.T) {
	t.Parallel()

	b := NewStatusBar()
	b.SetWidth(100)

	b.SetPageInfo(1, 200, 1234, 15*time.Millisecond)
	assert.Contains(t, b.View(), "rows 1-200 of 1234 · 15ms")

	b.SetPageInfo(0, 0, 0, 0)
	assert.Contains(t, b.View(), "empty table")
}

func TestHintsFollowPaneAndFilter(t *testing.T) {
	t.Parallel()

	b := NewStatusBar()
	b.SetWidth(100)

	assert.Contains(t, b.View(), "tab data pane")

	b.SetPane(1)
	assert.Contains(t, b.View(), "n/p page")

	b.SetFiltering(true)
	assert.Contains(t, b.View(), "esc cancel")
}

func TestHiddenColumnCount(t *testing.T) {
	t.Parallel()

	b := NewStatusBar()
	b.SetWidth(100)

	assert.NotContains(t, b.View(), "hidden")

	b.SetHiddenColumns(1)
	assert.Contains(t, b.View(), "1 col hidden")

	b.SetHiddenColumns(3)
	assert.Contains(t, b.View(), "3 cols hidden")
}
