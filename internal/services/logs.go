package services

import (
	"time"

	"playbox/internal/models"
)

// LogService is the append-only session ledger. It satisfies engine.LogSink;
// entries are immutable once written and survive unit deletion.
type LogService struct{}

func NewLogService() *LogService {
	return &LogService{}
}

// Append writes entries in the order given, so simultaneous finishes keep
// their chronological order.
func (s *LogService) Append(entries ...models.LogEntry) error {
	for i := range entries {
		if entries[i].Timestamp.IsZero() {
			entries[i].Timestamp = time.Now()
		}
		if err := models.DB.Create(&entries[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// List returns entries most-recent-first, filtered by the optional
// inclusive [from, to] bounds. A nil bound means unbounded on that side.
func (s *LogService) List(from, to *time.Time) ([]models.LogEntry, error) {
	q := models.DB.Model(&models.LogEntry{})
	if from != nil {
		q = q.Where("timestamp >= ?", *from)
	}
	if to != nil {
		q = q.Where("timestamp <= ?", *to)
	}

	var entries []models.LogEntry
	if err := q.Order("timestamp desc").Order("id desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Total sums cost across ALL entries, independent of any active filter.
func (s *LogService) Total() (int64, error) {
	var total int64
	err := models.DB.Model(&models.LogEntry{}).
		Select("coalesce(sum(cost), 0)").Scan(&total).Error
	return total, err
}

// Clear drops the whole ledger. Irreversible.
func (s *LogService) Clear() error {
	return models.DB.Where("1 = 1").Delete(&models.LogEntry{}).Error
}
