package domain

import (
	"fmt"
	"time"
)

// Date and time layouts used for CSV rows. Local wall-clock time, split into
// separate date and time columns so the log stays readable in a spreadsheet.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// CSVHeader is the header row written once at the top of every log file.
var CSVHeader = []string{"Event", "Start Date", "Start Time", "End Date", "End Time", "Notes"}

// EventRecord represents a completed (or aborted) event in the domain model.
// Records are immutable once written to the journal.
type EventRecord struct {
	EventType string
	StartTime time.Time
	EndTime   time.Time
	Notes     string
}

// IsValid checks if the event record has valid data.
func (r EventRecord) IsValid() bool {
	if r.EventType == "" {
		return false
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return false
	}
	return !r.EndTime.Before(r.StartTime)
}

// Duration returns the duration of the event.
func (r EventRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// CSVRow projects the record onto the six journal columns.
func (r EventRecord) CSVRow() []string {
	return []string{
		r.EventType,
		r.StartTime.Format(DateLayout),
		r.StartTime.Format(TimeLayout),
		r.EndTime.Format(DateLayout),
		r.EndTime.Format(TimeLayout),
		r.Notes,
	}
}

// RecordFromCSVRow parses a journal row back into an EventRecord.
// The round trip is lossless at second precision, which is the precision
// the journal records at.
func RecordFromCSVRow(row []string) (EventRecord, error) {
	if len(row) != len(CSVHeader) {
		return EventRecord{}, fmt.Errorf("expected %d columns, got %d", len(CSVHeader), len(row))
	}

	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, row[1]+" "+row[2], time.Local)
	if err != nil {
		return EventRecord{}, fmt.Errorf("invalid start timestamp: %w", err)
	}
	end, err := time.ParseInLocation(DateLayout+" "+TimeLayout, row[3]+" "+row[4], time.Local)
	if err != nil {
		return EventRecord{}, fmt.Errorf("invalid end timestamp: %w", err)
	}

	return EventRecord{
		EventType: row[0],
		StartTime: start,
		EndTime:   end,
		Notes:     row[5],
	}, nil
}

// ActiveEvent represents an event that has been started but not yet closed.
// At most one exists per session at any time.
type ActiveEvent struct {
	EventType string
	StartTime time.Time
}

// NewActiveEvent opens an event of the given type at the given start time.
func NewActiveEvent(eventType string, startTime time.Time) ActiveEvent {
	return ActiveEvent{
		EventType: eventType,
		StartTime: startTime,
	}
}

// Stop closes the active event at the given end time, producing an immutable record.
func (a ActiveEvent) Stop(endTime time.Time, notes string) EventRecord {
	return EventRecord{
		EventType: a.EventType,
		StartTime: a.StartTime,
		EndTime:   endTime,
		Notes:     notes,
	}
}

// Elapsed returns how long the event has been running.
func (a ActiveEvent) Elapsed() time.Duration {
	return time.Since(a.StartTime)
}

// String returns the event type for display purposes.
func (a ActiveEvent) String() string {
	return a.EventType
}
