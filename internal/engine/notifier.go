package engine

import "time"

// SignalKind identifies a tone the frontend should play. The engine only
// requests a kind; synthesis is the sink's problem.
type SignalKind string

const (
	SignalConfirm SignalKind = "confirm"
	SignalStop    SignalKind = "stop"
	SignalWarning SignalKind = "warning"
	SignalFinish  SignalKind = "finish"
)

// Notifier receives transient notices and tone requests emitted by state
// transitions. Toast returns the notice id so a later transition can retire
// it early (the delete toast is dismissed once removal goes through).
type Notifier interface {
	Toast(text, color string, life time.Duration) string
	ToastAction(text, color string, life time.Duration, actionLabel string, action func()) string
	Dismiss(id string)
	Signal(kind SignalKind, repetitions int, volume float64)
}

// NopNotifier discards everything. Handy for tests and headless runs.
type NopNotifier struct{}

func (NopNotifier) Toast(string, string, time.Duration) string { return "" }
func (NopNotifier) ToastAction(string, string, time.Duration, string, func()) string {
	return ""
}
func (NopNotifier) Dismiss(string) {}
func (NopNotifier) Signal(SignalKind, int, float64) {}
