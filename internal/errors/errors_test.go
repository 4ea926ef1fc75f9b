package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	t.Run("no active event", func(t *testing.T) {
		err := NewNoActiveEventError("abort")

		assert.Equal(t, ErrorTypeNoActiveEvent, err.Type)
		assert.Equal(t, "NO_ACTIVE_EVENT", err.Code)
		assert.Contains(t, err.Message, "abort")

		operation, ok := err.GetContext("operation")
		require.True(t, ok)
		assert.Equal(t, "abort", operation)
	})

	t.Run("write failure", func(t *testing.T) {
		cause := io.ErrShortWrite
		err := NewWriteFailureError("/data/logs/event_log_0825_09_30.csv", cause)

		assert.Equal(t, ErrorTypeWriteFailure, err.Type)
		assert.Contains(t, err.Message, "event_log_0825_09_30.csv")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("invalid input", func(t *testing.T) {
		err := NewInvalidInputError("start_time", "9am", "expected HH:MM:SS")

		assert.Equal(t, ErrorTypeInvalidInput, err.Type)
		assert.Contains(t, err.Message, "start_time")
		assert.Contains(t, err.Message, "expected HH:MM:SS")
	})
}

func TestErrorFormatting(t *testing.T) {
	bare := NewNoActiveEventError("stop")
	assert.Equal(t, "no_active_event: no active event to stop", bare.Error())

	wrapped := NewWriteFailureError("log.csv", io.ErrClosedPipe)
	assert.Contains(t, wrapped.Error(), "caused by")
	assert.Contains(t, wrapped.Error(), io.ErrClosedPipe.Error())
}

func TestIsErrorType(t *testing.T) {
	err := NewNoActiveEventError("abort")

	assert.True(t, IsErrorType(err, ErrorTypeNoActiveEvent))
	assert.False(t, IsErrorType(err, ErrorTypeWriteFailure))
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeNoActiveEvent))

	// Type checks see through wrapping.
	wrapped := fmt.Errorf("handling request: %w", err)
	assert.True(t, IsErrorType(wrapped, ErrorTypeNoActiveEvent))
}

func TestWrapError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(cause, ErrorTypeWriteFailure, "appending event row")

	assert.Equal(t, ErrorTypeWriteFailure, err.Type)
	assert.ErrorIs(t, err, cause)
}

func TestWithContext(t *testing.T) {
	err := NewValidationError("bad input", nil).WithContext("field", "event")

	value, ok := err.GetContext("field")
	require.True(t, ok)
	assert.Equal(t, "event", value)

	_, ok = err.GetContext("missing")
	assert.False(t, ok)
}

func TestGetUserMessage(t *testing.T) {
	t.Run("write failures warn that nothing was recorded", func(t *testing.T) {
		err := NewWriteFailureError("log.csv", io.ErrClosedPipe)
		message := GetUserMessage(err)

		assert.Contains(t, message, "NOT recorded")
		assert.Contains(t, message, "retry")
	})

	t.Run("operator errors pass through", func(t *testing.T) {
		err := NewNoActiveEventError("abort")
		assert.Equal(t, err.Message, GetUserMessage(err))
	})

	t.Run("plain errors pass through", func(t *testing.T) {
		assert.Equal(t, "plain", GetUserMessage(errors.New("plain")))
	})
}

func TestShouldLogError(t *testing.T) {
	assert.False(t, ShouldLogError(NewNoActiveEventError("abort")))
	assert.False(t, ShouldLogError(NewValidationError("bad", nil)))
	assert.True(t, ShouldLogError(NewWriteFailureError("log.csv", io.ErrClosedPipe)))
	assert.True(t, ShouldLogError(errors.New("unknown")))
}
