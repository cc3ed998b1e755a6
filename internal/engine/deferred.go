package engine

import (
	"sync"
	"time"
)

// deferredActions schedules at most one pending action per unit id.
// Scheduling again replaces the previous timer; Cancel is a no-op for
// unknown ids. Callbacks must re-check live state themselves, the timer
// proves nothing about what happened since it was armed.
type deferredActions struct {
	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func newDeferredActions() *deferredActions {
	return &deferredActions{timers: make(map[uint]*time.Timer)}
}

func (d *deferredActions) Schedule(id uint, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[id]; ok {
		t.Stop()
	}
	d.timers[id] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, id)
		d.mu.Unlock()
		fn()
	})
}

func (d *deferredActions) Cancel(id uint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[id]; ok {
		t.Stop()
		delete(d.timers, id)
	}
}
