package logging

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/isseis/go-passgen/internal/color"
)

// MessageFormatter renders records for a human at a terminal.
type MessageFormatter interface {
	FormatRecord(record slog.Record, useColor bool) string
}

// DefaultMessageFormatter prints "<level> <message> key=value ...".
type DefaultMessageFormatter struct {
	// hiddenKeys are omitted from interactive output.
	hiddenKeys []string
}

// NewDefaultMessageFormatter hides run_id, which only matters in logfmt output.
func NewDefaultMessageFormatter() *DefaultMessageFormatter {
	return &DefaultMessageFormatter{hiddenKeys: []string{"run_id"}}
}

// FormatRecord formats record on one line.
func (f *DefaultMessageFormatter) FormatRecord(record slog.Record, useColor bool) string {
	var sb strings.Builder
	sb.WriteString(formatLevel(record.Level, useColor))
	sb.WriteString(" ")
	sb.WriteString(record.Message)

	record.Attrs(func(attr slog.Attr) bool {
		if slices.Contains(f.hiddenKeys, attr.Key) {
			return true
		}
		sb.WriteString(" ")
		sb.WriteString(color.Gray.When(useColor)(attr.Key + "="))
		sb.WriteString(formatValue(attr.Value))
		return true
	})
	return sb.String()
}

func formatLevel(level slog.Level, useColor bool) string {
	switch {
	case level >= slog.LevelError:
		return color.Red.When(useColor)("Error:")
	case level >= slog.LevelWarn:
		return color.Yellow.When(useColor)("Warning:")
	case level >= slog.LevelInfo:
		return color.Green.When(useColor)("Info:")
	default:
		return color.Gray.When(useColor)("Debug:")
	}
}

func formatValue(value slog.Value) string {
	switch value.Kind() {
	case slog.KindTime:
		return value.Time().Format(time.RFC3339)
	case slog.KindGroup:
		attrs := value.Group()
		parts := make([]string, 0, len(attrs))
		for _, attr := range attrs {
			parts = append(parts, attr.Key+"="+formatValue(attr.Value))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return value.String()
	}
}
