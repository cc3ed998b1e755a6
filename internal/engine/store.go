package engine

import "playbox/internal/models"

// UnitStore persists unit snapshots. The engine owns all units in memory
// and writes through; a load failure is survivable (the engine falls back
// to seeded defaults).
type UnitStore interface {
	LoadUnits() ([]models.Unit, error)
	SaveUnit(u *models.Unit) error
	SaveUnits(units []models.Unit) error
	DeleteUnit(id uint) error
}

// LogSink receives billing records when a run ends. Entries passed in one
// call are appended in order, so simultaneous finishes keep their
// chronological order.
type LogSink interface {
	Append(entries ...models.LogEntry) error
}
