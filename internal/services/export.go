package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"playbox/internal/models"
)

var (
	ErrExportFromInvalid  = errors.New("invalid from date")
	ErrExportToInvalid    = errors.New("invalid to date")
	ErrExportRangeInvalid = errors.New("from must not be after to")
	ErrExportEmpty        = errors.New("no logs in range")
)

// ParseLogRange turns optional YYYY-MM-DD query values into inclusive
// instant bounds: from at midnight, to at the end of its day. Empty values
// mean unbounded on that side.
func ParseLogRange(rawFrom, rawTo string) (*time.Time, *time.Time, error) {
	fromRaw := strings.TrimSpace(rawFrom)
	toRaw := strings.TrimSpace(rawTo)

	var from *time.Time
	if fromRaw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromRaw, time.Local)
		if err != nil {
			return nil, nil, ErrExportFromInvalid
		}
		from = &parsed
	}

	var to *time.Time
	if toRaw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toRaw, time.Local)
		if err != nil {
			return nil, nil, ErrExportToInvalid
		}
		endOfDay := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &endOfDay
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrExportRangeInvalid
	}
	return from, to, nil
}

// ExportCSV renders log entries as CSV. Every field is quoted and embedded
// quotes are doubled; one row per entry, header first.
func ExportCSV(entries []models.LogEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrExportEmpty
	}

	var b strings.Builder
	writeRow(&b, []string{"Timestamp", "Unit", "Minutes", "CostRp", "Notes"})
	for _, e := range entries {
		writeRow(&b, []string{
			e.Timestamp.Format(time.RFC3339),
			e.Unit,
			strconv.Itoa(e.DurationMinutes),
			strconv.Itoa(e.Cost),
			e.Notes,
		})
	}
	return []byte(b.String()), nil
}

// ExportFilename includes the current date, e.g. playbox_logs_2025-01-31.csv.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("playbox_logs_%s.csv", now.Format("2006-01-02"))
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
