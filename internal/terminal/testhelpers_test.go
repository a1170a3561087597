package terminal

import (
	"os"
	"testing"
)

// setupCleanEnv controls every environment variable the detectors read and
// sets only the specified ones.
func setupCleanEnv(t *testing.T, envVars map[string]string) {
	t.Helper()

	// NO_COLOR is checked with os.LookupEnv, so empty != unset
	if value, specified := envVars["NO_COLOR"]; specified {
		t.Setenv("NO_COLOR", value)
	} else if old, exists := os.LookupEnv("NO_COLOR"); exists {
		t.Setenv("NO_COLOR", old) // registers restore
		_ = os.Unsetenv("NO_COLOR")
	}

	valueCheckedVars := append([]string{"CLICOLOR", "CLICOLOR_FORCE", "TERM"}, ciEnvVars...)
	for _, v := range valueCheckedVars {
		if value, specified := envVars[v]; specified {
			t.Setenv(v, value)
		} else {
			t.Setenv(v, "")
		}
	}
}

// fakeTerminal makes isTerminal report the given answers for the duration of the test.
func fakeTerminal(t *testing.T, stdin, stderr bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(f *os.File) bool {
		switch f {
		case os.Stdin:
			return stdin
		case os.Stderr:
			return stderr
		default:
			return false
		}
	}
	t.Cleanup(func() { isTerminal = orig })
}
