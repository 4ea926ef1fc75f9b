// Package journal is the append-only CSV log of completed events. One file
// per program run, named from the startup timestamp, one row per completed
// or aborted event, never reordered or rewritten.
package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/domain"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/errors"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/logging"
)

// Journal defines the interface for event log storage
type Journal interface {
	// Append writes one record and makes it durable before returning.
	Append(record domain.EventRecord) error

	// Path returns the location of the log file.
	Path() string

	// Close releases the underlying file.
	Close() error
}

// CSVJournal implements Journal on a local CSV file with an exclusive
// single-writer discipline.
type CSVJournal struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// Filename builds the log filename fixed at startup:
// [<PROJECT_ID>_]event_log_<MMDD>_<HH>_<MM>.csv
func Filename(projectID string, now time.Time) string {
	stamp := now.Format("0102_15_04")
	if projectID == "" {
		return fmt.Sprintf("event_log_%s.csv", stamp)
	}
	return fmt.Sprintf("%s_event_log_%s.csv", projectID, stamp)
}

// New creates the journal file for this run under a per-day subdirectory of
// dir and writes the header row. The filename is fixed for the process
// lifetime.
func New(dir, projectID string, perms os.FileMode, now time.Time) (*CSVJournal, error) {
	dayDir := filepath.Join(dir, now.Format(domain.DateLayout))
	if err := os.MkdirAll(dayDir, perms); err != nil {
		return nil, errors.NewWriteFailureError(dayDir, err)
	}

	path := filepath.Join(dayDir, Filename(projectID, now))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.NewWriteFailureError(path, err)
	}

	j := &CSVJournal{path: path, file: file}

	// A fresh file gets the header row. Reopening an existing file (same
	// project, same minute) must not duplicate it.
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.NewWriteFailureError(path, err)
	}
	if info.Size() == 0 {
		if err := j.writeRow(domain.CSVHeader); err != nil {
			file.Close()
			return nil, err
		}
	}

	logging.Debugf("journal opened at %s\n", path)
	return j, nil
}

// Path returns the location of the log file.
func (j *CSVJournal) Path() string {
	return j.path
}

// Append writes one record, flushes it, and fsyncs the file so a crash
// immediately afterwards cannot lose the row. Records are not considered
// logged until Append returns nil.
func (j *CSVJournal) Append(record domain.EventRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.writeRow(record.CSVRow())
}

// Close closes the underlying file.
func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

func (j *CSVJournal) writeRow(row []string) error {
	writer := csv.NewWriter(j.file)
	if err := writer.Write(row); err != nil {
		return errors.NewWriteFailureError(j.path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewWriteFailureError(j.path, err)
	}
	if err := j.file.Sync(); err != nil {
		return errors.NewWriteFailureError(j.path, err)
	}
	return nil
}

// ReadRecords parses a journal file back into event records. Every row the
// journal appends is independently parseable with identical field values.
func ReadRecords(path string) ([]domain.EventRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewNotFoundError("journal file", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewValidationError("journal file is empty", nil)
	}
	if err != nil {
		return nil, errors.NewValidationError("failed to read journal header", err)
	}
	if len(header) != len(domain.CSVHeader) {
		return nil, errors.NewValidationError("unexpected journal header", nil)
	}

	var records []domain.EventRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewValidationError("failed to read journal row", err)
		}
		record, err := domain.RecordFromCSVRow(row)
		if err != nil {
			return nil, errors.NewValidationError("malformed journal row", err)
		}
		records = append(records, record)
	}

	return records, nil
}
