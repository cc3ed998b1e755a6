package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"playbox/internal/models"
)

const (
	// WarningThresholdSec is the remaining-time boundary for the pre-expiry
	// alert. Runs shorter than this never warn.
	WarningThresholdSec = 600

	// DeleteGrace is the window between a delete request and irreversible
	// removal, during which Undo is available.
	DeleteGrace = 5 * time.Second

	warningBeeps = 3
	finishBeeps  = 6
)

var (
	ErrUnitNotFound    = errors.New("unit not found")
	ErrConfirmRequired = errors.New("unit is running, restart requires confirmation")
	ErrInvalidPrice    = errors.New("price per hour must be positive")
	ErrNameRequired    = errors.New("unit name is required")
)

// Engine owns the unit registry and is the only writer of timer state.
// One mutex serializes ticks and operator actions, so a Stop that arrives
// before the tick observes zero is a Stop, never a Finish.
type Engine struct {
	mu       sync.Mutex
	units    []*models.Unit
	store    UnitStore
	logs     LogSink
	notifier Notifier
	deferred *deferredActions

	// undo toast per pending delete, retired when removal goes through
	undoToasts map[uint]string

	grace time.Duration
	now   func() time.Time
}

func New(store UnitStore, logs LogSink, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{
		store:      store,
		logs:       logs,
		notifier:   notifier,
		deferred:   newDeferredActions(),
		undoToasts: make(map[uint]string),
		grace:      DeleteGrace,
		now:        time.Now,
	}
}

// NewUnit builds an idle unit with default audio settings.
func NewUnit(id uint, name string, pricePerHour int) *models.Unit {
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("PlayBox %d", id)
	}
	return &models.Unit{
		ID:           id,
		Name:         name,
		PricePerHour: pricePerHour,
		Color:        ColorIdle,
		Volume:       1,
	}
}

// Load pulls persisted units into memory. An empty or unreadable store
// seeds defaultCount fresh units at defaultPrice; the read error is
// returned so the caller can log it, but the engine stays usable.
func (e *Engine) Load(defaultCount, defaultPrice int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	units, err := e.store.LoadUnits()
	if err == nil && len(units) > 0 {
		e.units = make([]*models.Unit, 0, len(units))
		for i := range units {
			u := units[i]
			e.units = append(e.units, &u)
		}
		return nil
	}

	e.units = nil
	for i := 1; i <= defaultCount; i++ {
		u := NewUnit(uint(i), "", defaultPrice)
		e.units = append(e.units, u)
		e.store.SaveUnit(u)
	}
	return err
}

// Run drives the countdown until the context is cancelled. Ticks never
// overlap: each one fully applies before the next fires.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// List returns snapshots of all units in registry order.
func (e *Engine) List() []models.Unit {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Unit, 0, len(e.units))
	for _, u := range e.units {
		out = append(out, *u)
	}
	return out
}

// Get returns a snapshot of one unit.
func (e *Engine) Get(id uint) (models.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return models.Unit{}, ErrUnitNotFound
	}
	return *u, nil
}

// Add creates a new idle unit. Empty name and non-positive price fall back
// to defaults.
func (e *Engine) Add(name string, pricePerHour int, defaultPrice int) models.Unit {
	e.mu.Lock()
	defer e.mu.Unlock()

	var id uint = 1
	for _, u := range e.units {
		if u.ID >= id {
			id = u.ID + 1
		}
	}
	if pricePerHour <= 0 {
		pricePerHour = defaultPrice
	}
	nu := NewUnit(id, name, pricePerHour)
	e.units = append(e.units, nu)
	e.store.SaveUnit(nu)

	e.notifier.Toast(fmt.Sprintf("%s added", nu.Name), ColorInfo, 4*time.Second)
	e.notifier.Signal(SignalConfirm, 1, 1)
	return *nu
}

// Rename changes the display label.
func (e *Engine) Rename(id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return ErrUnitNotFound
	}
	u.Name = name
	e.store.SaveUnit(u)
	e.notifier.Toast("Name updated", ColorInfo, 4*time.Second)
	return nil
}

// SetPrice changes the hourly rate. Running units keep the new rate for the
// bill computed at stop or finish.
func (e *Engine) SetPrice(id uint, pricePerHour int) error {
	if pricePerHour <= 0 {
		return ErrInvalidPrice
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return ErrUnitNotFound
	}
	u.PricePerHour = pricePerHour
	e.store.SaveUnit(u)
	e.notifier.Toast("Price updated", ColorInfo, 4*time.Second)
	return nil
}

// SetNotes replaces the free-text note. The note is snapshotted onto log
// entries when a run ends.
func (e *Engine) SetNotes(id uint, notes string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return ErrUnitNotFound
	}
	u.Notes = notes
	e.store.SaveUnit(u)
	return nil
}

// SetInputs stages the duration for the next start. Negative values clamp
// to zero; nothing else is touched, this is a form buffer.
func (e *Engine) SetInputs(id uint, hours, mins int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return ErrUnitNotFound
	}
	u.Inputs = models.UnitInputs{Hours: max(0, hours), Mins: max(0, mins)}
	e.store.SaveUnit(u)
	return nil
}

// SetVolume clamps to [0,1]; zero also mutes.
func (e *Engine) SetVolume(id uint, volume float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return ErrUnitNotFound
	}
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	u.Volume = volume
	if volume == 0 {
		u.Muted = true
	}
	e.store.SaveUnit(u)
	return nil
}

// ToggleMute flips the per-unit mute flag.
func (e *Engine) ToggleMute(id uint) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return false, ErrUnitNotFound
	}
	u.Muted = !u.Muted
	e.store.SaveUnit(u)
	return u.Muted, nil
}

// Start begins a run from the staged inputs. Restarting a running unit
// needs confirm=true and discards the current run's accrued time without
// logging it.
func (e *Engine) Start(id uint, confirm bool) (models.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return models.Unit{}, ErrUnitNotFound
	}
	if u.Active && !confirm {
		return models.Unit{}, ErrConfirmRequired
	}

	total := u.Inputs.Hours*3600 + u.Inputs.Mins*60
	if total < 0 {
		total = 0
	}

	u.Active = true
	u.Finished = false
	u.Warned = false
	u.RemainingSec = total
	u.InitialSec = total
	u.Color = ColorIdle
	e.store.SaveUnit(u)

	e.notifier.Signal(SignalConfirm, 1, effectiveVolume(u))
	return *u, nil
}

// Stop ends a run manually. Elapsed time is billed with ceil rounding; a
// zero-usage stop resets the timer but produces no log entry.
func (e *Engine) Stop(id uint) (minutesUsed int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return 0, ErrUnitNotFound
	}

	usedSec := u.InitialSec - u.RemainingSec
	if usedSec < 0 {
		usedSec = 0
	}
	minutesUsed = Minutes(usedSec)

	if usedSec > 0 {
		e.logs.Append(models.LogEntry{
			Unit:            u.Name,
			DurationMinutes: minutesUsed,
			Cost:            Cost(usedSec, u.PricePerHour),
			Notes:           u.Notes,
			Timestamp:       e.now(),
		})
	}

	u.Active = false
	u.Finished = false
	u.Warned = false
	u.RemainingSec = 0
	u.InitialSec = 0
	u.Color = ColorNeutral
	e.store.SaveUnit(u)

	e.notifier.Signal(SignalStop, 1, effectiveVolume(u))
	e.notifier.Toast(fmt.Sprintf("%s stopped — %d min", u.Name, minutesUsed), ColorInfo, 4*time.Second)
	return minutesUsed, nil
}

// RequestDelete marks the unit for removal after the grace window. The unit
// stays fully operational until the deadline; Undo clears the mark.
func (e *Engine) RequestDelete(id uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil {
		return ErrUnitNotFound
	}

	deadline := e.now().Add(e.grace)
	u.PendingDelete = &deadline
	e.store.SaveUnit(u)

	toastID := e.notifier.ToastAction("Unit will be deleted", ColorDanger,
		e.grace+200*time.Millisecond, "Undo", func() { e.UndoDelete(id) })
	e.undoToasts[id] = toastID

	// re-checks live state when it fires; a little slack so the deadline
	// comparison is unambiguous
	e.deferred.Schedule(id, e.grace+120*time.Millisecond, func() { e.finalizeDelete(id) })
	return nil
}

// UndoDelete cancels a pending removal. Once the unit is gone this is a
// no-op, not an error.
func (e *Engine) UndoDelete(id uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil || u.PendingDelete == nil {
		return
	}
	u.PendingDelete = nil
	e.store.SaveUnit(u)
	e.deferred.Cancel(id)
	delete(e.undoToasts, id)
	e.notifier.Toast("Delete undone", ColorInfo, 4*time.Second)
}

func (e *Engine) finalizeDelete(id uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := e.find(id)
	if u == nil || u.PendingDelete == nil || e.now().Before(*u.PendingDelete) {
		return
	}

	for i, cand := range e.units {
		if cand.ID == id {
			e.units = append(e.units[:i], e.units[i+1:]...)
			break
		}
	}
	e.store.DeleteUnit(id)

	if toastID, ok := e.undoToasts[id]; ok {
		e.notifier.Dismiss(toastID)
		delete(e.undoToasts, id)
	}
	// historical log entries keep the name snapshot and are left alone
	e.notifier.Toast(fmt.Sprintf("%s deleted", u.Name), ColorDanger, 4*time.Second)
}

// Tick applies one second to every running unit and emits warning and
// finish events at the moment of the crossing, inside the same locked
// update that changes the state.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	var finished []models.LogEntry
	var changed []models.Unit

	for _, u := range e.units {
		if !u.Active || u.RemainingSec <= 0 {
			continue
		}
		u.RemainingSec--
		if u.InitialSec > 0 {
			u.Color = ProgressColor(float64(u.RemainingSec) / float64(u.InitialSec))
		}

		if !u.Warned && u.InitialSec > WarningThresholdSec &&
			u.RemainingSec <= WarningThresholdSec && u.RemainingSec > 0 {
			u.Warned = true
			e.notifier.Toast(fmt.Sprintf("%s — 10 min remaining", u.Name), ColorWarn, 8*time.Second)
			e.notifier.Signal(SignalWarning, warningBeeps, effectiveVolume(u))
		}

		if u.RemainingSec == 0 && u.InitialSec > 0 {
			finished = append(finished, models.LogEntry{
				Unit:            u.Name,
				DurationMinutes: Minutes(u.InitialSec),
				Cost:            Cost(u.InitialSec, u.PricePerHour),
				Notes:           u.Notes,
				Timestamp:       e.now(),
			})
			u.Active = false
			u.Finished = true
			u.Warned = false
			u.RemainingSec = 0
			u.InitialSec = 0
			u.Color = ColorDanger
			e.notifier.Toast(fmt.Sprintf("%s — Time's up!", u.Name), ColorDanger, 10*time.Second)
			e.notifier.Signal(SignalFinish, finishBeeps, effectiveVolume(u))
		}

		changed = append(changed, *u)
	}

	if len(finished) > 0 {
		e.logs.Append(finished...)
	}
	if len(changed) > 0 {
		e.store.SaveUnits(changed)
	}
}

func (e *Engine) find(id uint) *models.Unit {
	for _, u := range e.units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func effectiveVolume(u *models.Unit) float64 {
	if u.Muted {
		return 0
	}
	return u.Volume
}
