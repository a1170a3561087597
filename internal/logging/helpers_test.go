package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/isseis/go-passgen/internal/terminal"
)

var (
	errHandler1 = errors.New("handler1 error")
	errHandler2 = errors.New("handler2 error")
)

func interactiveCaps(color bool) terminal.Capabilities {
	return terminal.StaticCapabilities{Interactive: true, Color: color, Prompt: true}
}

func pipedCaps() terminal.Capabilities {
	return terminal.StaticCapabilities{}
}

// recordingHandler is a test implementation of slog.Handler.
type recordingHandler struct {
	mu          sync.Mutex
	enabled     bool
	records     []slog.Record
	attrs       []slog.Attr
	groups      []string
	handleError error
}

func newRecordingHandler(enabled bool) *recordingHandler {
	return &recordingHandler{enabled: enabled}
}

func (m *recordingHandler) Enabled(context.Context, slog.Level) bool {
	return m.enabled
}

func (m *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handleError != nil {
		return m.handleError
	}
	m.records = append(m.records, r.Clone())
	return nil
}

func (m *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{
		enabled:     m.enabled,
		attrs:       append(append([]slog.Attr{}, m.attrs...), attrs...),
		groups:      m.groups,
		handleError: m.handleError,
	}
}

func (m *recordingHandler) WithGroup(name string) slog.Handler {
	return &recordingHandler{
		enabled:     m.enabled,
		attrs:       m.attrs,
		groups:      append(append([]string{}, m.groups...), name),
		handleError: m.handleError,
	}
}

func (m *recordingHandler) recordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
