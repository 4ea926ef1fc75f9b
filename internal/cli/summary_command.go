package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/domain"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/journal"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	errorHandler *ErrorHandler
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand() *SummaryCommand {
	return &SummaryCommand{
		errorHandler: NewErrorHandler(),
	}
}

// categoryTotal accumulates per-category statistics for one log file.
type categoryTotal struct {
	name     string
	count    int
	duration time.Duration
}

// Execute parses a log file and prints per-category event counts and totals
func (c *SummaryCommand) Execute(out io.Writer, path string) error {
	records, err := journal.ReadRecords(path)
	if err != nil {
		return c.errorHandler.Handle("read log file", err)
	}

	totals := c.aggregate(records)

	fmt.Fprintf(out, "%s: %d events\n", path, len(records))
	for _, total := range totals {
		fmt.Fprintf(out, "  %-25s %3d  %s\n", total.name, total.count, formatDuration(total.duration))
	}
	return nil
}

// aggregate groups records by category, preserving first-seen order.
func (c *SummaryCommand) aggregate(records []domain.EventRecord) []*categoryTotal {
	index := make(map[string]*categoryTotal)
	var ordered []*categoryTotal

	for _, record := range records {
		total, ok := index[record.EventType]
		if !ok {
			total = &categoryTotal{name: record.EventType}
			index[record.EventType] = total
			ordered = append(ordered, total)
		}
		total.count++
		total.duration += record.Duration()
	}

	return ordered
}

// formatDuration formats a duration as HH:MM:SS to match the log's time columns.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
