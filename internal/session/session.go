// Package session holds the in-memory state of one observation session:
// at most one event is active at any time. The state machine has two states,
// Idle and Active, and every transition that closes an event hands the closed
// event back to the caller for journaling.
//
// Session is not safe for concurrent use. The recorder owns the single
// instance and serializes all mutations behind its mutex.
package session

import (
	"time"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/domain"
)

// Transition describes the outcome of a toggle request.
type Transition struct {
	// Closed is the event that this transition closed, nil if none.
	Closed *domain.ActiveEvent
	// Opened is the event that is now active, nil if the session is idle.
	Opened *domain.ActiveEvent
	// Switched is true when a running event was closed to open a different one.
	Switched bool
}

// Session holds the current active event, if any.
type Session struct {
	active *domain.ActiveEvent
}

// New creates an idle session.
func New() *Session {
	return &Session{}
}

// Idle reports whether no event is active.
func (s *Session) Idle() bool {
	return s.active == nil
}

// Current returns a snapshot of the active event, or nil when idle.
func (s *Session) Current() *domain.ActiveEvent {
	if s.active == nil {
		return nil
	}
	snapshot := *s.active
	return &snapshot
}

// Toggle applies the exclusive-choice rules for a button press:
//
//	Idle            --toggle(e)-->  Active(e)
//	Active(e)       --toggle(e)-->  Idle        (closes e)
//	Active(e)       --toggle(e')--> Active(e')  (closes e, opens e')
//
// The caller is responsible for journaling the closed event. If the journal
// append fails, Restore undoes the transition.
func (s *Session) Toggle(eventType string, now time.Time) Transition {
	if s.active == nil {
		opened := domain.NewActiveEvent(eventType, now)
		s.active = &opened
		return Transition{Opened: s.Current()}
	}

	closed := *s.active
	if closed.EventType == eventType {
		// Same button pressed again: toggle semantics, close and go idle.
		s.active = nil
		return Transition{Closed: &closed}
	}

	opened := domain.NewActiveEvent(eventType, now)
	s.active = &opened
	return Transition{Closed: &closed, Opened: s.Current(), Switched: true}
}

// Abort closes the active event and clears the session. The second return
// value is false when the session was already idle.
func (s *Session) Abort() (domain.ActiveEvent, bool) {
	if s.active == nil {
		return domain.ActiveEvent{}, false
	}
	closed := *s.active
	s.active = nil
	return closed, true
}

// Restore reinstates a previously active event. Used to undo a transition
// whose journal append failed, so the operator can retry without losing the
// original start time.
func (s *Session) Restore(active domain.ActiveEvent) {
	restored := active
	s.active = &restored
}
