package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInteractiveHandler_RequiredOptions(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDefaultMessageFormatter()

	_, err := NewInteractiveHandler(InteractiveHandlerOptions{Capabilities: interactiveCaps(false), Formatter: formatter})
	assert.ErrorIs(t, err, ErrInteractiveHandlerWriterRequired)

	_, err = NewInteractiveHandler(InteractiveHandlerOptions{Writer: &buf, Formatter: formatter})
	assert.ErrorIs(t, err, ErrInteractiveHandlerCapabilitiesRequired)

	_, err = NewInteractiveHandler(InteractiveHandlerOptions{Writer: &buf, Capabilities: interactiveCaps(false)})
	assert.ErrorIs(t, err, ErrInteractiveHandlerFormatterRequired)
}

func TestInteractiveHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewInteractiveHandler(InteractiveHandlerOptions{
		Level:        slog.LevelInfo,
		Writer:       &buf,
		Capabilities: interactiveCaps(false),
		Formatter:    NewDefaultMessageFormatter(),
	})
	require.NoError(t, err)

	logger := slog.New(handler).With("table", "simple.yml").WithGroup("stats")
	logger.Debug("hidden")
	logger.Warn("very long password", "length", 12)

	assert.Equal(t, "Warning: very long password length=12 stats.table=simple.yml\n", buf.String())
}

func TestInteractiveHandler_SilentWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewInteractiveHandler(InteractiveHandlerOptions{
		Writer:       &buf,
		Capabilities: pipedCaps(),
		Formatter:    NewDefaultMessageFormatter(),
	})
	require.NoError(t, err)

	assert.False(t, handler.Enabled(context.Background(), slog.LevelError))
	require.NoError(t, handler.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "x", 0)))
	assert.Empty(t, buf.String())
}

func TestConditionalTextHandler(t *testing.T) {
	t.Run("required options", func(t *testing.T) {
		_, err := NewConditionalTextHandler(ConditionalTextHandlerOptions{Writer: &bytes.Buffer{}})
		assert.ErrorIs(t, err, ErrConditionalTextHandlerCapabilitiesRequired)

		_, err = NewConditionalTextHandler(ConditionalTextHandlerOptions{Capabilities: pipedCaps()})
		assert.ErrorIs(t, err, ErrConditionalTextHandlerWriterRequired)
	})

	t.Run("writes logfmt when piped", func(t *testing.T) {
		var buf bytes.Buffer
		handler, err := NewConditionalTextHandler(ConditionalTextHandlerOptions{
			Capabilities: pipedCaps(),
			Writer:       &buf,
		})
		require.NoError(t, err)

		slog.New(handler).With("run_id", "01H").Info("done", "written", 6)
		out := buf.String()
		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, "msg=done")
		assert.Contains(t, out, "run_id=01H")
		assert.Contains(t, out, "written=6")
	})

	t.Run("silent when interactive", func(t *testing.T) {
		var buf bytes.Buffer
		handler, err := NewConditionalTextHandler(ConditionalTextHandlerOptions{
			Capabilities: interactiveCaps(true),
			Writer:       &buf,
		})
		require.NoError(t, err)

		assert.False(t, handler.Enabled(context.Background(), slog.LevelError))
		slog.New(handler).Error("x")
		assert.Empty(t, buf.String())
	})
}

func TestDefaultMessageFormatter(t *testing.T) {
	formatter := NewDefaultMessageFormatter()

	record := slog.NewRecord(time.Now(), slog.LevelError, "unknown character", 0)
	record.AddAttrs(slog.String("char", "B"), slog.String("run_id", "01H"))

	plain := formatter.FormatRecord(record, false)
	assert.Equal(t, "Error: unknown character char=B", plain)

	colored := formatter.FormatRecord(record, true)
	assert.True(t, strings.HasPrefix(colored, "\033[31mError:"))
	assert.Contains(t, colored, "unknown character")
	assert.NotContains(t, colored, "run_id")

	levels := map[slog.Level]string{
		slog.LevelDebug: "Debug:",
		slog.LevelInfo:  "Info:",
		slog.LevelWarn:  "Warning:",
	}
	for level, prefix := range levels {
		r := slog.NewRecord(time.Now(), level, "m", 0)
		assert.Equal(t, prefix+" m", formatter.FormatRecord(r, false))
	}
}
