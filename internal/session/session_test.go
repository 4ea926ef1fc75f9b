package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestToggleFromIdle(t *testing.T) {
	s := New()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local)

	tr := s.Toggle("Meal", now)

	assert.Nil(t, tr.Closed)
	assert.False(t, tr.Switched)
	require.NotNil(t, tr.Opened)
	assert.Equal(t, "Meal", tr.Opened.EventType)
	assert.Equal(t, now, tr.Opened.StartTime)
	assert.False(t, s.Idle())
}

func TestToggleSameEventCloses(t *testing.T) {
	s := New()
	start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local)

	s.Toggle("Meal", start)
	tr := s.Toggle("Meal", start.Add(30*time.Minute))

	require.NotNil(t, tr.Closed)
	assert.Equal(t, "Meal", tr.Closed.EventType)
	assert.Equal(t, start, tr.Closed.StartTime)
	assert.Nil(t, tr.Opened)
	assert.False(t, tr.Switched)
	assert.True(t, s.Idle())
}

func TestToggleDifferentEventSwitches(t *testing.T) {
	s := New()
	start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local)
	switchAt := start.Add(10 * time.Minute)

	s.Toggle("Meal", start)
	tr := s.Toggle("Break", switchAt)

	require.NotNil(t, tr.Closed)
	assert.Equal(t, "Meal", tr.Closed.EventType)
	assert.Equal(t, start, tr.Closed.StartTime)
	require.NotNil(t, tr.Opened)
	assert.Equal(t, "Break", tr.Opened.EventType)
	assert.Equal(t, switchAt, tr.Opened.StartTime)
	assert.True(t, tr.Switched)

	current := s.Current()
	require.NotNil(t, current)
	assert.Equal(t, "Break", current.EventType)
}

func TestAbort(t *testing.T) {
	t.Run("closes the active event", func(t *testing.T) {
		s := New()
		start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local)
		s.Toggle("Walk", start)

		closed, ok := s.Abort()

		require.True(t, ok)
		assert.Equal(t, "Walk", closed.EventType)
		assert.Equal(t, start, closed.StartTime)
		assert.True(t, s.Idle())
	})

	t.Run("reports nothing to abort when idle", func(t *testing.T) {
		s := New()

		_, ok := s.Abort()

		assert.False(t, ok)
		assert.True(t, s.Idle())
	})
}

func TestRestore(t *testing.T) {
	s := New()
	start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local)

	s.Toggle("Meal", start)
	tr := s.Toggle("Meal", start.Add(time.Minute))
	require.True(t, s.Idle())

	s.Restore(*tr.Closed)

	current := s.Current()
	require.NotNil(t, current)
	assert.Equal(t, "Meal", current.EventType)
	assert.Equal(t, start, current.StartTime)
}

func TestCurrentReturnsSnapshot(t *testing.T) {
	s := New()
	s.Toggle("Meal", time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local))

	snapshot := s.Current()
	snapshot.EventType = "Tampered"

	assert.Equal(t, "Meal", s.Current().EventType)
}

// Property: for every sequence of toggle and abort calls, at most one event
// is active at any point, and every closed event's type matches the event
// that was opened for it.
func TestAtMostOneActiveEvent(t *testing.T) {
	categories := []string{"Meal", "Break", "Walk", "Snack", "Other"}

	rapid.Check(t, func(t *rapid.T) {
		s := New()
		now := time.Date(2026, 8, 25, 8, 0, 0, 0, time.Local)
		var openType string // type of the currently open event, "" when idle

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			now = now.Add(time.Duration(rapid.IntRange(0, 90).Draw(t, "advance")) * time.Second)

			if rapid.Bool().Draw(t, "abort") {
				closed, ok := s.Abort()
				if openType == "" {
					if ok {
						t.Fatalf("abort succeeded while idle")
					}
				} else {
					if !ok || closed.EventType != openType {
						t.Fatalf("abort closed %q, want %q", closed.EventType, openType)
					}
					openType = ""
				}
				continue
			}

			eventType := rapid.SampledFrom(categories).Draw(t, "event")
			tr := s.Toggle(eventType, now)

			switch {
			case openType == "":
				if tr.Closed != nil || tr.Opened == nil {
					t.Fatalf("toggle from idle: closed=%v opened=%v", tr.Closed, tr.Opened)
				}
				openType = eventType
			case openType == eventType:
				if tr.Closed == nil || tr.Opened != nil || tr.Closed.EventType != eventType {
					t.Fatalf("toggle off: closed=%v opened=%v", tr.Closed, tr.Opened)
				}
				openType = ""
			default:
				if tr.Closed == nil || tr.Opened == nil || !tr.Switched {
					t.Fatalf("switch: closed=%v opened=%v switched=%v", tr.Closed, tr.Opened, tr.Switched)
				}
				if tr.Closed.EventType != openType || tr.Opened.EventType != eventType {
					t.Fatalf("switch closed %q opened %q, want %q -> %q",
						tr.Closed.EventType, tr.Opened.EventType, openType, eventType)
				}
				openType = eventType
			}

			// The session agrees with the model.
			if openType == "" {
				if !s.Idle() {
					t.Fatalf("model idle but session has %v", s.Current())
				}
			} else {
				current := s.Current()
				if current == nil || current.EventType != openType {
					t.Fatalf("model has %q active but session has %v", openType, current)
				}
			}
		}
	})
}

// Property: a closed event's start time never exceeds the close time, even
// when toggles land within the same second.
func TestClosedEventsOrdered(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New()
		now := time.Date(2026, 8, 25, 8, 0, 0, 0, time.Local)

		steps := rapid.IntRange(2, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			now = now.Add(time.Duration(rapid.IntRange(0, 5).Draw(t, "advance")) * time.Second)
			tr := s.Toggle(rapid.SampledFrom([]string{"A", "B"}).Draw(t, "event"), now)
			if tr.Closed != nil && tr.Closed.StartTime.After(now) {
				t.Fatalf("closed event starts at %v, after close time %v", tr.Closed.StartTime, now)
			}
		}
	})
}
