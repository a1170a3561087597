package terminal

import "os"

// Options contains all terminal-related configuration options
type Options struct {
	PreferenceOptions PreferenceOptions
	DetectorOptions   DetectorOptions
}

// Capabilities provides a unified interface for terminal capability detection
type Capabilities interface {
	IsInteractive() bool
	SupportsColor() bool
	CanPrompt() bool
}

// DefaultCapabilities combines interactive detection with color preferences
type DefaultCapabilities struct {
	detector    InteractiveDetector
	preferences PreferenceOptions
}

// NewCapabilities creates a new Capabilities instance with the given options
func NewCapabilities(options Options) Capabilities {
	return &DefaultCapabilities{
		detector:    NewInteractiveDetector(options.DetectorOptions),
		preferences: options.PreferenceOptions,
	}
}

// IsInteractive returns true if the current environment should be treated as interactive
func (c *DefaultCapabilities) IsInteractive() bool {
	return c.detector.IsInteractive()
}

// CanPrompt reports whether the user can answer a confirmation prompt
func (c *DefaultCapabilities) CanPrompt() bool {
	return c.detector.CanPrompt()
}

// SupportsColor returns true if color output should be enabled.
// Priority order:
// 1. Command line arguments
// 2. CLICOLOR_FORCE=1
// 3. NO_COLOR
// 4. CLICOLOR (interactive mode only)
// 5. TERM auto-detection
func (c *DefaultCapabilities) SupportsColor() bool {
	if enabled, ok := explicitColorPreference(c.preferences); ok {
		return enabled
	}

	if !c.IsInteractive() || !termSupportsColor() {
		return false
	}

	if cliColor := os.Getenv("CLICOLOR"); cliColor != "" {
		return isTruthy(cliColor)
	}

	return true
}

// StaticCapabilities is a fixed Capabilities value for callers that already
// know the answer, such as tests and non-terminal sinks.
type StaticCapabilities struct {
	Interactive bool
	Color       bool
	Prompt      bool
}

// IsInteractive implements Capabilities.
func (s StaticCapabilities) IsInteractive() bool { return s.Interactive }

// SupportsColor implements Capabilities.
func (s StaticCapabilities) SupportsColor() bool { return s.Color }

// CanPrompt implements Capabilities.
func (s StaticCapabilities) CanPrompt() bool { return s.Prompt }
