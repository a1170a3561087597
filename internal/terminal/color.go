package terminal

import (
	"os"
	"strings"
)

// colorTerminals lists TERM values (or prefixes) that are known to support
// basic terminal colors.
var colorTerminals = []string{
	"xterm",
	"screen",
	"tmux",
	"rxvt",
	"vt100",
	"vt220",
	"ansi",
	"linux",
	"cygwin",
	"putty",
}

// PreferenceOptions contains command-line options for color output
type PreferenceOptions struct {
	ForceColor   bool // Force color output regardless of environment
	DisableColor bool // Disable color output regardless of environment
}

// termSupportsColor checks the TERM environment variable
func termSupportsColor() bool {
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	if term == "" || term == "dumb" {
		return false
	}

	for _, colorTerm := range colorTerminals {
		if term == colorTerm || strings.HasPrefix(term, colorTerm+"-") {
			return true
		}
	}

	// Unknown terminals get no color
	return false
}

// explicitColorPreference resolves command line options and the
// CLICOLOR_FORCE / NO_COLOR conventions. ok is false when the user expressed
// no preference.
func explicitColorPreference(options PreferenceOptions) (enabled, ok bool) {
	// Priority 1: Command line arguments (highest priority)
	if options.ForceColor {
		return true, true
	}
	if options.DisableColor {
		return false, true
	}

	// Priority 2: CLICOLOR_FORCE=1 (overrides all other conditions)
	if isTruthy(os.Getenv("CLICOLOR_FORCE")) {
		return true, true
	}

	// Priority 3: NO_COLOR environment variable (any value, even empty)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false, true
	}

	return false, false
}

// isTruthy checks if a string value should be considered "true"
// Supports: "1", "true", "yes" (case insensitive)
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
