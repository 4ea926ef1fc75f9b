// Package recorder implements the event logger: it owns the session state
// machine and the journal, and is the only path that mutates either.
package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/domain"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/errors"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/journal"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/logging"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/session"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// Result is the outcome reported back to the presentation layer.
type Result struct {
	// Status is a human-readable description of what happened.
	Status string `json:"status"`
	// ActiveEvent is the event type now being timed, nil when idle.
	ActiveEvent *string `json:"active_event"`
}

// Recorder defines the interface for all event logging operations.
type Recorder interface {
	// Toggle starts the named event, stops it if it is already active, or
	// switches to it if a different event is active.
	Toggle(ctx context.Context, eventType, notes string) (*Result, error)

	// Abort force-closes the active event, recording it with the same row
	// shape as a normal stop.
	Abort(ctx context.Context, notes string) (*Result, error)

	// LogMissed backfills an event that was not captured live. It never
	// touches the active session.
	LogMissed(ctx context.Context, eventType string, start, end time.Time, notes string) (*Result, error)

	// Current returns a snapshot of the active event, or nil when idle.
	Current() *domain.ActiveEvent

	// Categories returns the category labels accepted by this deployment.
	Categories() []string
}

type recorderImpl struct {
	mu         sync.Mutex
	session    *session.Session
	journal    journal.Journal
	categories domain.CategorySet
	validator  *validation.EventValidator
}

// New creates a Recorder over the given journal and category set.
func New(jrnl journal.Journal, categories domain.CategorySet) Recorder {
	return &recorderImpl{
		session:    session.New(),
		journal:    jrnl,
		categories: categories,
		validator:  validation.NewEventValidator(categories),
	}
}

// NewWithValidator creates a Recorder with a caller-configured validator.
func NewWithValidator(jrnl journal.Journal, categories domain.CategorySet, validator *validation.EventValidator) Recorder {
	return &recorderImpl{
		session:    session.New(),
		journal:    jrnl,
		categories: categories,
		validator:  validator,
	}
}

func (r *recorderImpl) Toggle(ctx context.Context, eventType, notes string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("toggle event", ctx)
	}
	if err := r.validator.ValidateEventType(eventType); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateNotes(notes); err != nil {
		return nil, err
	}
	eventType = r.validator.CleanEventType(eventType)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := timeNow()
	transition := r.session.Toggle(eventType, now)

	if transition.Closed != nil {
		record := transition.Closed.Stop(now, notes)
		if err := r.journal.Append(record); err != nil {
			// The record is not logged until the append succeeds. Undo the
			// transition so the operator can retry without losing the
			// original start time.
			r.session.Restore(*transition.Closed)
			return nil, err
		}
		logging.Debugf("logged %s (%s - %s)\n",
			record.EventType,
			record.StartTime.Format(domain.TimeLayout),
			record.EndTime.Format(domain.TimeLayout))
	}

	return r.result(transition), nil
}

func (r *recorderImpl) Abort(ctx context.Context, notes string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("abort event", ctx)
	}
	if err := r.validator.ValidateNotes(notes); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	closed, ok := r.session.Abort()
	if !ok {
		return nil, errors.NewNoActiveEventError("abort")
	}

	// Abort is a stop with different notes, not a separate outcome: the row
	// shape is identical to a normal completion.
	record := closed.Stop(timeNow(), abortNotes(notes))
	if err := r.journal.Append(record); err != nil {
		r.session.Restore(closed)
		return nil, err
	}

	return &Result{Status: fmt.Sprintf("%s aborted", closed.EventType)}, nil
}

func (r *recorderImpl) LogMissed(ctx context.Context, eventType string, start, end time.Time, notes string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("log missed event", ctx)
	}
	if err := r.validator.ValidateEventType(eventType); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateNotes(notes); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateMissedEventTimes(start, end); err != nil {
		return nil, err
	}
	eventType = r.validator.CleanEventType(eventType)

	r.mu.Lock()
	defer r.mu.Unlock()

	record := domain.EventRecord{
		EventType: eventType,
		StartTime: start,
		EndTime:   end,
		Notes:     missedNotes(notes),
	}
	if err := r.journal.Append(record); err != nil {
		return nil, err
	}

	result := &Result{Status: fmt.Sprintf("Missing event '%s' logged", eventType)}
	if active := r.session.Current(); active != nil {
		result.ActiveEvent = &active.EventType
	}
	return result, nil
}

func (r *recorderImpl) Current() *domain.ActiveEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Current()
}

func (r *recorderImpl) Categories() []string {
	return r.categories.Names()
}

// result builds the status message for a toggle transition.
func (r *recorderImpl) result(transition session.Transition) *Result {
	switch {
	case transition.Switched:
		return &Result{
			Status:      fmt.Sprintf("%s logged, %s has started", transition.Closed.EventType, transition.Opened.EventType),
			ActiveEvent: &transition.Opened.EventType,
		}
	case transition.Opened != nil:
		return &Result{
			Status:      fmt.Sprintf("%s has started", transition.Opened.EventType),
			ActiveEvent: &transition.Opened.EventType,
		}
	default:
		return &Result{Status: fmt.Sprintf("%s logged", transition.Closed.EventType)}
	}
}

// abortNotes merges operator notes with the abort marker.
func abortNotes(notes string) string {
	if notes == "" {
		return "ABORTED"
	}
	return "ABORTED: " + notes
}

// missedNotes merges operator notes with the backfill marker.
func missedNotes(notes string) string {
	if notes == "" {
		return "Missing event"
	}
	return "Missing event: " + notes
}
