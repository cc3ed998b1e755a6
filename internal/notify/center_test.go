package notify

import (
	"testing"
	"time"

	"playbox/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastCapacityEvictsOldest(t *testing.T) {
	c := NewCenter()
	var first string
	for i := 0; i < MaxNotices+1; i++ {
		id := c.Toast("notice", engine.ColorInfo, 0)
		if i == 0 {
			first = id
		}
	}

	notices := c.Notices()
	require.Len(t, notices, MaxNotices)
	for _, n := range notices {
		assert.NotEqual(t, first, n.ID, "oldest notice is evicted")
	}
}

func TestToastAutoDismiss(t *testing.T) {
	c := NewCenter()
	c.Toast("short lived", engine.ColorInfo, 30*time.Millisecond)
	require.Len(t, c.Notices(), 1)

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, c.Notices())
}

func TestToastWithoutLifeStays(t *testing.T) {
	c := NewCenter()
	c.Toast("sticky", engine.ColorInfo, 0)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, c.Notices(), 1)
}

func TestDismissIsIdempotent(t *testing.T) {
	c := NewCenter()
	id := c.Toast("bye", engine.ColorInfo, 0)
	c.Dismiss(id)
	c.Dismiss(id)
	c.Dismiss("no-such-id")
	assert.Empty(t, c.Notices())
}

func TestActionRunsCallbackThenDismisses(t *testing.T) {
	c := NewCenter()
	calls := 0
	id := c.ToastAction("Unit will be deleted", engine.ColorDanger, 0, "Undo", func() { calls++ })

	assert.True(t, c.Action(id))
	assert.Equal(t, 1, calls)
	assert.Empty(t, c.Notices())

	// second invocation finds nothing
	assert.False(t, c.Action(id))
	assert.Equal(t, 1, calls)
}

func TestActionUnknownID(t *testing.T) {
	c := NewCenter()
	assert.False(t, c.Action("missing"))
}

func TestActionCanToastBack(t *testing.T) {
	// undo actions re-enter the engine, which toasts back into the center
	c := NewCenter()
	id := c.ToastAction("pending", engine.ColorDanger, 0, "Undo", func() {
		c.Toast("Delete undone", engine.ColorInfo, 0)
	})

	require.True(t, c.Action(id))
	notices := c.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Delete undone", notices[0].Text)
}

func TestSignalsDrainOnce(t *testing.T) {
	c := NewCenter()
	c.Signal(engine.SignalWarning, 3, 0.8)
	c.Signal(engine.SignalFinish, 6, 1)

	signals := c.DrainSignals()
	require.Len(t, signals, 2)
	assert.Equal(t, engine.SignalWarning, signals[0].Kind)
	assert.Equal(t, 3, signals[0].Repetitions)
	assert.Equal(t, engine.SignalFinish, signals[1].Kind)
	assert.Equal(t, 6, signals[1].Repetitions)

	assert.Empty(t, c.DrainSignals())
}
