package validation

import (
	"strings"
	"time"
	"unicode"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/config"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/domain"
)

// EventValidator validates event names and notes against a deployment's
// category set and configured limits.
type EventValidator struct {
	categories     domain.CategorySet
	notesMaxLength int
}

// NewEventValidator creates a validator for the given category set with defaults
func NewEventValidator(categories domain.CategorySet) *EventValidator {
	return &EventValidator{
		categories:     categories,
		notesMaxLength: 500,
	}
}

// NewEventValidatorWithConfig creates a validator honoring configured limits
func NewEventValidatorWithConfig(categories domain.CategorySet, cfg *config.Config) *EventValidator {
	return &EventValidator{
		categories:     categories,
		notesMaxLength: cfg.Validation.NotesMaxLength,
	}
}

// ValidateEventType checks that the event name is a member of the closed
// category set. Unknown names are rejected with no state mutation.
func (v *EventValidator) ValidateEventType(eventType string) error {
	validationErr := &ValidationError{}

	trimmed := strings.TrimSpace(eventType)
	if trimmed == "" {
		validationErr.AddRequiredError("event")
	} else if !v.categories.Contains(trimmed) {
		validationErr.AddInvalidValueError("event", eventType, "not a recognized event category")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// ValidateNotes checks free-text notes for length and control characters.
// Commas and quotes are fine, the CSV encoder escapes them.
func (v *EventValidator) ValidateNotes(notes string) error {
	validationErr := &ValidationError{}

	if len(notes) > v.notesMaxLength {
		validationErr.AddInvalidLengthError("notes", notes, v.notesMaxLength)
	}
	for _, r := range notes {
		if unicode.IsControl(r) {
			validationErr.AddInvalidCharacterError("notes", notes)
			break
		}
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// ValidateMissedEventTimes checks backfilled event timestamps: the end must
// be strictly after the start.
func (v *EventValidator) ValidateMissedEventTimes(start, end time.Time) error {
	validationErr := &ValidationError{}

	if start.IsZero() {
		validationErr.AddRequiredError("start_time")
	}
	if end.IsZero() {
		validationErr.AddRequiredError("end_time")
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		validationErr.AddInvalidRangeError("end_time", end, "end time must be after start time")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// CleanEventType returns the trimmed canonical event name
func (v *EventValidator) CleanEventType(eventType string) string {
	return strings.TrimSpace(eventType)
}
