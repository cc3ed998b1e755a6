package engine

import (
	"sync"
	"testing"
	"time"

	"playbox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	units   []models.Unit
	loadErr error
	deleted []uint
}

func (m *memStore) LoadUnits() ([]models.Unit, error) { return m.units, m.loadErr }

func (m *memStore) SaveUnit(u *models.Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return nil
}

func (m *memStore) SaveUnits(units []models.Unit) error { return nil }

func (m *memStore) DeleteUnit(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

type memLog struct {
	mu      sync.Mutex
	entries []models.LogEntry
}

func (l *memLog) Append(entries ...models.LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entries...)
	return nil
}

func (l *memLog) all() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.LogEntry(nil), l.entries...)
}

type toastRec struct {
	text, color, label string
}

type signalRec struct {
	kind   SignalKind
	reps   int
	volume float64
}

type recordingNotifier struct {
	mu        sync.Mutex
	toasts    []toastRec
	signals   []signalRec
	dismissed []string
	nextID    int
}

func (n *recordingNotifier) Toast(text, color string, life time.Duration) string {
	return n.ToastAction(text, color, life, "", nil)
}

func (n *recordingNotifier) ToastAction(text, color string, life time.Duration, label string, action func()) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.toasts = append(n.toasts, toastRec{text: text, color: color, label: label})
	return string(rune('a' + n.nextID))
}

func (n *recordingNotifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dismissed = append(n.dismissed, id)
}

func (n *recordingNotifier) Signal(kind SignalKind, repetitions int, volume float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.signals = append(n.signals, signalRec{kind: kind, reps: repetitions, volume: volume})
}

func (n *recordingNotifier) signalsOf(kind SignalKind) []signalRec {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []signalRec
	for _, s := range n.signals {
		if s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func (n *recordingNotifier) toastTexts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, t := range n.toasts {
		out = append(out, t.text)
	}
	return out
}

func newTestEngine(t *testing.T) (*Engine, *memStore, *memLog, *recordingNotifier) {
	t.Helper()
	store := &memStore{}
	logs := &memLog{}
	notifier := &recordingNotifier{}
	e := New(store, logs, notifier)
	require.NoError(t, e.Load(3, 30000))
	return e, store, logs, notifier
}

func assertInvariants(t *testing.T, u models.Unit) {
	t.Helper()
	assert.GreaterOrEqual(t, u.RemainingSec, 0)
	assert.LessOrEqual(t, u.RemainingSec, u.InitialSec)
	assert.False(t, u.Active && u.Finished, "unit must never be active and finished at once")
}

func TestLoadSeedsDefaults(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	units := e.List()
	require.Len(t, units, 3)
	assert.Equal(t, "PlayBox 1", units[0].Name)
	assert.Equal(t, 30000, units[0].PricePerHour)
	assert.False(t, units[0].Active)
	assert.False(t, units[0].Finished)
}

func TestLoadFallsBackOnStoreError(t *testing.T) {
	store := &memStore{loadErr: assert.AnError}
	e := New(store, &memLog{}, nil)
	err := e.Load(3, 30000)
	assert.Error(t, err)
	assert.Len(t, e.List(), 3)
}

func TestStartFromStagedInputs(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, 0, 25))

	u, err := e.Start(1, false)
	require.NoError(t, err)
	assert.Equal(t, 1500, u.InitialSec)
	assert.Equal(t, 1500, u.RemainingSec)
	assert.True(t, u.Active)
	assert.False(t, u.Finished)
	assert.False(t, u.Warned)
	assertInvariants(t, u)
}

func TestStartClampsNegativeInputs(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, -2, -30))
	u, err := e.Start(1, false)
	require.NoError(t, err)
	assert.Equal(t, 0, u.InitialSec)
	assert.True(t, u.Active)
}

func TestRestartRequiresConfirm(t *testing.T) {
	e, _, logs, _ := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, 1, 0))
	_, err := e.Start(1, false)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		e.Tick()
	}

	_, err = e.Start(1, false)
	assert.ErrorIs(t, err, ErrConfirmRequired)

	u, _ := e.Get(1)
	assert.Equal(t, 3500, u.RemainingSec, "declined restart leaves state untouched")

	// confirmed restart discards accrued time without logging it
	require.NoError(t, e.SetInputs(1, 0, 30))
	u, err = e.Start(1, true)
	require.NoError(t, err)
	assert.Equal(t, 1800, u.InitialSec)
	assert.Equal(t, 1800, u.RemainingSec)
	assert.Empty(t, logs.all())
}

func TestTickIgnoresIdleAndFinishedUnits(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.Tick()
	for _, u := range e.List() {
		assert.Equal(t, 0, u.RemainingSec)
		assert.False(t, u.Active)
	}
}

func TestWarningFiresExactlyOnce(t *testing.T) {
	e, _, _, notifier := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, 0, 25)) // 1500s > threshold
	_, err := e.Start(1, false)
	require.NoError(t, err)

	// tick down to one second above the threshold: no warning yet
	for i := 0; i < 1500-WarningThresholdSec-1; i++ {
		e.Tick()
	}
	assert.Empty(t, notifier.signalsOf(SignalWarning))

	// crossing tick
	e.Tick()
	u, _ := e.Get(1)
	assert.Equal(t, WarningThresholdSec, u.RemainingSec)
	assert.True(t, u.Warned)

	warnings := notifier.signalsOf(SignalWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, 3, warnings[0].reps)
	assert.Contains(t, notifier.toastTexts(), "PlayBox 1 — 10 min remaining")

	// never re-fires for the same run
	for i := 0; i < 100; i++ {
		e.Tick()
	}
	assert.Len(t, notifier.signalsOf(SignalWarning), 1)
}

func TestNoWarningForShortRuns(t *testing.T) {
	e, _, _, notifier := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, 0, 10)) // 600s, not above threshold
	_, err := e.Start(1, false)
	require.NoError(t, err)

	for i := 0; i < 600; i++ {
		e.Tick()
	}
	assert.Empty(t, notifier.signalsOf(SignalWarning))

	u, _ := e.Get(1)
	assert.True(t, u.Finished)
}

func TestNaturalFinish(t *testing.T) {
	e, _, logs, notifier := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, 1, 0)) // 3600s at 30000/hr
	_, err := e.Start(1, false)
	require.NoError(t, err)

	for i := 0; i < 3600; i++ {
		e.Tick()
	}

	u, _ := e.Get(1)
	assert.False(t, u.Active)
	assert.True(t, u.Finished)
	assert.False(t, u.Warned)
	assert.Equal(t, 0, u.RemainingSec)
	assert.Equal(t, 0, u.InitialSec)
	assert.Equal(t, ColorDanger, u.Color)
	assertInvariants(t, u)

	entries := logs.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "PlayBox 1", entries[0].Unit)
	assert.Equal(t, 60, entries[0].DurationMinutes)
	assert.Equal(t, 30000, entries[0].Cost)

	finishes := notifier.signalsOf(SignalFinish)
	require.Len(t, finishes, 1)
	assert.Equal(t, 6, finishes[0].reps)
	assert.Contains(t, notifier.toastTexts(), "PlayBox 1 — Time's up!")

	// finished unit is inert on further ticks
	e.Tick()
	assert.Len(t, logs.all(), 1)
}

func TestManualStopBillsUsedTime(t *testing.T) {
	e, _, logs, _ := newTestEngine(t)
	require.NoError(t, e.SetInputs(2, 1, 0))
	_, err := e.Start(2, false)
	require.NoError(t, err)

	for i := 0; i < 125; i++ {
		e.Tick()
	}

	minutes, err := e.Stop(2)
	require.NoError(t, err)
	assert.Equal(t, 2, minutes)

	entries := logs.all()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].DurationMinutes)
	assert.Equal(t, 1042, entries[0].Cost)

	u, _ := e.Get(2)
	assert.False(t, u.Active)
	assert.False(t, u.Finished)
	assert.Equal(t, 0, u.RemainingSec)
	assert.Equal(t, 0, u.InitialSec)
	assertInvariants(t, u)
}

func TestZeroUsageStopProducesNoEntry(t *testing.T) {
	e, _, logs, _ := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, 1, 0))
	_, err := e.Start(1, false)
	require.NoError(t, err)

	minutes, err := e.Stop(1)
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)
	assert.Empty(t, logs.all())
}

func TestStopSnapshotsNotesOntoEntry(t *testing.T) {
	e, _, logs, _ := newTestEngine(t)
	require.NoError(t, e.SetNotes(1, "controller 2, customer Budi"))
	require.NoError(t, e.SetInputs(1, 0, 5))
	_, err := e.Start(1, false)
	require.NoError(t, err)
	for i := 0; i < 70; i++ {
		e.Tick()
	}
	_, err = e.Stop(1)
	require.NoError(t, err)

	entries := logs.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "controller 2, customer Budi", entries[0].Notes)
}

func TestSimultaneousFinishesAppendInOrder(t *testing.T) {
	e, _, logs, _ := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, 0, 1))
	require.NoError(t, e.SetInputs(2, 0, 1))
	_, err := e.Start(1, false)
	require.NoError(t, err)
	_, err = e.Start(2, false)
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		e.Tick()
	}

	entries := logs.all()
	require.Len(t, entries, 2)
	assert.Equal(t, "PlayBox 1", entries[0].Unit)
	assert.Equal(t, "PlayBox 2", entries[1].Unit)
}

func TestAddAssignsNextID(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	u := e.Add("", 0, 30000)
	assert.Equal(t, uint(4), u.ID)
	assert.Equal(t, "PlayBox 4", u.Name)
	assert.Equal(t, 30000, u.PricePerHour)

	named := e.Add("VIP Room", 45000, 30000)
	assert.Equal(t, uint(5), named.ID)
	assert.Equal(t, "VIP Room", named.Name)
	assert.Equal(t, 45000, named.PricePerHour)
}

func TestSetPriceRejectsNonPositive(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	assert.ErrorIs(t, e.SetPrice(1, 0), ErrInvalidPrice)
	assert.ErrorIs(t, e.SetPrice(1, -100), ErrInvalidPrice)
	assert.NoError(t, e.SetPrice(1, 40000))
	u, _ := e.Get(1)
	assert.Equal(t, 40000, u.PricePerHour)
}

func TestVolumeClampAndMute(t *testing.T) {
	e, _, _, notifier := newTestEngine(t)
	require.NoError(t, e.SetVolume(1, 1.7))
	u, _ := e.Get(1)
	assert.Equal(t, 1.0, u.Volume)

	require.NoError(t, e.SetVolume(1, 0))
	u, _ = e.Get(1)
	assert.Equal(t, 0.0, u.Volume)
	assert.True(t, u.Muted, "zero volume mutes")

	// muted unit signals at zero volume
	require.NoError(t, e.SetInputs(1, 0, 1))
	_, err := e.Start(1, false)
	require.NoError(t, err)
	confirms := notifier.signalsOf(SignalConfirm)
	require.NotEmpty(t, confirms)
	assert.Equal(t, 0.0, confirms[len(confirms)-1].volume)

	muted, err := e.ToggleMute(1)
	require.NoError(t, err)
	assert.False(t, muted)
}

func TestDeleteUndoWithinGrace(t *testing.T) {
	e, store, _, _ := newTestEngine(t)
	e.grace = 50 * time.Millisecond

	require.NoError(t, e.RequestDelete(2))
	u, err := e.Get(2)
	require.NoError(t, err)
	require.NotNil(t, u.PendingDelete)

	e.UndoDelete(2)
	u, err = e.Get(2)
	require.NoError(t, err)
	assert.Nil(t, u.PendingDelete)

	// past the would-be deadline the unit is still here
	time.Sleep(250 * time.Millisecond)
	_, err = e.Get(2)
	assert.NoError(t, err)
	assert.Empty(t, store.deleted)
}

func TestDeleteFinalizesAfterGrace(t *testing.T) {
	e, store, _, notifier := newTestEngine(t)
	e.grace = 50 * time.Millisecond

	require.NoError(t, e.RequestDelete(2))
	time.Sleep(250 * time.Millisecond)

	_, err := e.Get(2)
	assert.ErrorIs(t, err, ErrUnitNotFound)
	assert.Equal(t, []uint{2}, store.deleted)
	assert.Contains(t, notifier.toastTexts(), "PlayBox 2 deleted")

	// late undo is a no-op, not an error
	e.UndoDelete(2)
	_, err = e.Get(2)
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestDeletePendingUnitStaysOperational(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.grace = time.Hour

	require.NoError(t, e.SetInputs(3, 0, 2))
	_, err := e.Start(3, false)
	require.NoError(t, err)
	require.NoError(t, e.RequestDelete(3))

	e.Tick()
	u, _ := e.Get(3)
	assert.Equal(t, 119, u.RemainingSec, "unit keeps ticking through the grace window")
	assert.NotNil(t, u.PendingDelete)
}

func TestInvariantsAcrossLifecycle(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	require.NoError(t, e.SetInputs(1, 0, 11))
	_, err := e.Start(1, false)
	require.NoError(t, err)

	for i := 0; i < 11*60; i++ {
		e.Tick()
		u, err := e.Get(1)
		require.NoError(t, err)
		assertInvariants(t, u)
	}
	u, _ := e.Get(1)
	assert.True(t, u.Finished)
}
