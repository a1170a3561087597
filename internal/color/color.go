// Package color wraps text in ANSI escape sequences for terminal output.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	boldCode   = "\033[1m"
	grayCode   = "\033[90m" // Bright black/gray
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	cyanCode   = "\033[36m"
)

// Color wraps text with an escape sequence.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// Plain returns text unchanged. It is the Color used when output is not a
// color terminal.
func Plain(text string) string {
	return text
}

// When returns c if enabled is true and Plain otherwise.
func (c Color) When(enabled bool) Color {
	if !enabled {
		return Plain
	}
	return c
}

// Predefined color functions
var (
	Bold   = NewColor(boldCode)
	Gray   = NewColor(grayCode)
	Green  = NewColor(greenCode)
	Yellow = NewColor(yellowCode)
	Red    = NewColor(redCode)
	Cyan   = NewColor(cyanCode)
)
