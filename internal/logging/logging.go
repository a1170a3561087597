// Package logging builds the slog handler stack for passgen diagnostics.
// Records go to stderr as colored one-liners on a terminal and as logfmt
// text otherwise; the wordlist itself never passes through a logger.
package logging

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/isseis/go-passgen/internal/terminal"
	"github.com/oklog/ulid/v2"
)

// Options configures Setup.
type Options struct {
	// Level is the minimum level emitted. Verbose lowers it to debug.
	Level   slog.Level
	Verbose bool

	// Writer receives diagnostics. Defaults to os.Stderr.
	Writer io.Writer

	// Capabilities decides between the interactive and text handlers.
	// Defaults to detection on the process's terminal.
	Capabilities terminal.Capabilities

	// RunID is attached to every record. Generated when empty.
	RunID string
}

// NewRunID returns a new ULID string identifying one invocation.
func NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Setup builds a logger from opts.
func Setup(opts Options) (*slog.Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	capabilities := opts.Capabilities
	if capabilities == nil {
		capabilities = terminal.NewCapabilities(terminal.Options{})
	}
	runID := opts.RunID
	if runID == "" {
		runID = NewRunID()
	}
	level := opts.Level
	if opts.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	interactiveHandler, err := NewInteractiveHandler(InteractiveHandlerOptions{
		Level:        level,
		Writer:       writer,
		Capabilities: capabilities,
		Formatter:    NewDefaultMessageFormatter(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interactive handler: %w", err)
	}

	textHandler, err := NewConditionalTextHandler(ConditionalTextHandlerOptions{
		Capabilities:       capabilities,
		TextHandlerOptions: &slog.HandlerOptions{Level: level},
		Writer:             writer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conditional text handler: %w", err)
	}

	handler := NewMultiHandler(interactiveHandler, textHandler).
		WithAttrs([]slog.Attr{slog.String("run_id", runID)})
	return slog.New(handler), nil
}

// ErrInvalidLogLevel is returned by ParseLevel for unknown names.
var ErrInvalidLogLevel = errors.New("invalid log level")

// ParseLevel maps debug, info, warn and error to slog levels. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: %q (must be one of: debug, info, warn, error)", ErrInvalidLogLevel, name)
	}
	return level, nil
}
