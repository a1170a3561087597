package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/isseis/go-passgen/internal/terminal"
)

// Static errors for InteractiveHandler validation
var (
	ErrInteractiveHandlerWriterRequired       = errors.New("InteractiveHandler: Writer is required")
	ErrInteractiveHandlerCapabilitiesRequired = errors.New("InteractiveHandler: Capabilities is required")
	ErrInteractiveHandlerFormatterRequired    = errors.New("InteractiveHandler: Formatter is required")
)

// InteractiveHandler writes formatted, optionally colored, lines when the
// process runs in an interactive terminal and stays silent otherwise.
type InteractiveHandler struct {
	capabilities terminal.Capabilities
	formatter    MessageFormatter
	writer       io.Writer
	mu           *sync.Mutex
	level        slog.Level
	attrs        []slog.Attr
	groups       []string
}

// InteractiveHandlerOptions configures the InteractiveHandler.
type InteractiveHandlerOptions struct {
	Level        slog.Level
	Writer       io.Writer
	Capabilities terminal.Capabilities
	Formatter    MessageFormatter
}

// NewInteractiveHandler returns an error if any required option is missing.
func NewInteractiveHandler(opts InteractiveHandlerOptions) (*InteractiveHandler, error) {
	if opts.Writer == nil {
		return nil, ErrInteractiveHandlerWriterRequired
	}
	if opts.Capabilities == nil {
		return nil, ErrInteractiveHandlerCapabilitiesRequired
	}
	if opts.Formatter == nil {
		return nil, ErrInteractiveHandlerFormatterRequired
	}

	return &InteractiveHandler{
		capabilities: opts.Capabilities,
		formatter:    opts.Formatter,
		writer:       opts.Writer,
		mu:           &sync.Mutex{},
		level:        opts.Level,
	}, nil
}

// Enabled reports whether the handler handles records at the given level.
func (h *InteractiveHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.capabilities.IsInteractive() && level >= h.level
}

// Handle formats r with the accumulated attributes and writes one line.
func (h *InteractiveHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.capabilities.IsInteractive() {
		return nil
	}

	record := r.Clone()
	attrs := h.attrs
	if len(h.groups) > 0 {
		prefix := strings.Join(h.groups, ".") + "."
		prefixed := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			prefixed[i] = slog.Attr{Key: prefix + attr.Key, Value: attr.Value}
		}
		attrs = prefixed
	}
	record.AddAttrs(attrs...)

	line := h.formatter.FormatRecord(record, h.capabilities.SupportsColor()) + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, line)
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *InteractiveHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(slices.Clip(h.attrs), attrs...)
	return &clone
}

// WithGroup returns a new handler with an additional group.
func (h *InteractiveHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clip(h.groups), name)
	return &clone
}
