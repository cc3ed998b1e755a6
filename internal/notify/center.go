package notify

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"playbox/internal/engine"
)

// MaxNotices bounds the visible toast stack; enqueueing past it evicts the
// oldest notice.
const MaxNotices = 6

// Notice is a transient toast. Action, when present, is a single callback
// behind ActionLabel (e.g. "Undo") that runs at most once.
type Notice struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Color       string    `json:"color"`
	ActionLabel string    `json:"actionLabel,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	action func()
}

// Signal is a queued tone request, drained by the frontend poll.
type Signal struct {
	Kind        engine.SignalKind `json:"kind"`
	Repetitions int               `json:"repetitions"`
	Volume      float64           `json:"volume"`
}

// Center is the bounded notice queue plus the audio signal buffer. It
// implements engine.Notifier. Auto-dismiss timers are keyed by notice id
// and cancelled on early dismiss, so they never act on a reused slot.
type Center struct {
	mu      sync.Mutex
	notices []*Notice
	timers  map[string]*time.Timer
	signals []Signal
}

func NewCenter() *Center {
	return &Center{timers: make(map[string]*time.Timer)}
}

// Toast enqueues a notice that self-dismisses after life (if positive).
func (c *Center) Toast(text, color string, life time.Duration) string {
	return c.ToastAction(text, color, life, "", nil)
}

// ToastAction enqueues a notice carrying an optional action.
func (c *Center) ToastAction(text, color string, life time.Duration, actionLabel string, action func()) string {
	n := &Notice{
		ID:          newNoticeID(),
		Text:        text,
		Color:       color,
		ActionLabel: actionLabel,
		CreatedAt:   time.Now(),
		action:      action,
	}

	c.mu.Lock()
	c.notices = append(c.notices, n)
	if len(c.notices) > MaxNotices {
		evicted := c.notices[0]
		c.notices = c.notices[1:]
		c.stopTimer(evicted.ID)
	}
	if life > 0 {
		c.timers[n.ID] = time.AfterFunc(life, func() { c.Dismiss(n.ID) })
	}
	c.mu.Unlock()
	return n.ID
}

// Dismiss removes a notice. Unknown ids are ignored, so a late auto-dismiss
// racing a manual one is harmless.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimer(id)
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return
		}
	}
}

// Action runs the notice's callback, then dismisses it. The callback is
// invoked outside the center lock: actions typically re-enter the engine,
// which may toast back here.
func (c *Center) Action(id string) bool {
	c.mu.Lock()
	var action func()
	found := false
	for _, n := range c.notices {
		if n.ID == id {
			action = n.action
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return false
	}
	if action != nil {
		action()
	}
	c.Dismiss(id)
	return true
}

// Signal queues a tone request for the next poll.
func (c *Center) Signal(kind engine.SignalKind, repetitions int, volume float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, Signal{Kind: kind, Repetitions: repetitions, Volume: volume})
}

// Notices returns the current stack, oldest first.
func (c *Center) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, 0, len(c.notices))
	for _, n := range c.notices {
		out = append(out, *n)
	}
	return out
}

// DrainSignals returns and clears all queued tone requests.
func (c *Center) DrainSignals() []Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.signals
	c.signals = nil
	return out
}

// stopTimer must be called with c.mu held.
func (c *Center) stopTimer(id string) {
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
}

func newNoticeID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "t" + hex.EncodeToString(b)
}
