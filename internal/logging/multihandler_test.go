package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandler_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		handlers []slog.Handler
		expected bool
	}{
		{
			name:     "at least one handler enabled",
			handlers: []slog.Handler{newRecordingHandler(false), newRecordingHandler(true)},
			expected: true,
		},
		{
			name:     "no handlers enabled",
			handlers: []slog.Handler{newRecordingHandler(false), newRecordingHandler(false)},
			expected: false,
		},
		{
			name:     "no handlers",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multi := NewMultiHandler(tt.handlers...)
			assert.Equal(t, tt.expected, multi.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}

func TestMultiHandler_Handle(t *testing.T) {
	enabled := newRecordingHandler(true)
	disabled := newRecordingHandler(false)
	multi := NewMultiHandler(enabled, disabled)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "expanded", 0)
	require.NoError(t, multi.Handle(context.Background(), record))

	assert.Equal(t, 1, enabled.recordCount())
	assert.Equal(t, 0, disabled.recordCount())
}

func TestMultiHandler_HandleJoinsErrors(t *testing.T) {
	first := newRecordingHandler(true)
	first.handleError = errHandler1
	second := newRecordingHandler(true)
	second.handleError = errHandler2
	third := newRecordingHandler(true)

	multi := NewMultiHandler(first, second, third)
	err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "boom", 0))

	assert.ErrorIs(t, err, errHandler1)
	assert.ErrorIs(t, err, errHandler2)
	assert.Equal(t, 1, third.recordCount(), "a failing handler does not stop the others")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	multi := NewMultiHandler(newRecordingHandler(true), newRecordingHandler(true))

	withAttrs, ok := multi.WithAttrs([]slog.Attr{slog.String("run_id", "01H")}).(*MultiHandler)
	require.True(t, ok)
	for _, h := range withAttrs.handlers {
		rh, ok := h.(*recordingHandler)
		require.True(t, ok)
		assert.Equal(t, []slog.Attr{slog.String("run_id", "01H")}, rh.attrs)
	}

	withGroup, ok := multi.WithGroup("digest").(*MultiHandler)
	require.True(t, ok)
	for _, h := range withGroup.handlers {
		rh, ok := h.(*recordingHandler)
		require.True(t, ok)
		assert.Equal(t, []string{"digest"}, rh.groups)
	}
}
