// Package terminal provides helpers for detecting terminal capabilities and
// determining whether the current process should be treated as interactive
// or running in a CI/non-interactive environment.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"TRAVIS",                 // Travis CI
	"CIRCLECI",               // Circle CI
	"JENKINS_URL",            // Jenkins
	"BUILD_NUMBER",           // Jenkins/TeamCity/etc
	"GITLAB_CI",              // GitLab CI
	"APPVEYOR",               // AppVeyor
	"BUILDKITE",              // Buildkite
	"DRONE",                  // Drone CI
	"TF_BUILD",               // Azure DevOps
}

// isTerminal reports whether f is connected to a terminal.
// It is replaced in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// DetectorOptions contains options for controlling interactive detection
type DetectorOptions struct {
	ForceInteractive    bool // Force interactive mode regardless of environment
	ForceNonInteractive bool // Force non-interactive mode regardless of environment
}

// InteractiveDetector reports whether diagnostics and prompts can assume a
// human at a terminal.
type InteractiveDetector interface {
	// IsInteractive reports whether diagnostics go to a human at a terminal
	IsInteractive() bool
	// IsCIEnvironment reports whether a CI/CD system is running the process
	IsCIEnvironment() bool
	// CanPrompt reports whether a confirmation can be read from stdin
	CanPrompt() bool
}

// DefaultInteractiveDetector implements InteractiveDetector
type DefaultInteractiveDetector struct {
	options DetectorOptions
	stdin   *os.File // source of confirmation answers
	stderr  *os.File // destination of diagnostics and prompts
}

// NewInteractiveDetector creates a detector for the process's stdin and stderr.
// Stdout carries the wordlist and is never consulted.
func NewInteractiveDetector(options DetectorOptions) InteractiveDetector {
	return &DefaultInteractiveDetector{options: options, stdin: os.Stdin, stderr: os.Stderr}
}

// IsInteractive returns true if the current environment is interactive.
// Explicit options win over CI detection, which wins over terminal detection.
func (d *DefaultInteractiveDetector) IsInteractive() bool {
	// Priority 1: Command line options (highest priority)
	if d.options.ForceInteractive {
		return true
	}
	if d.options.ForceNonInteractive {
		return false
	}

	// Priority 2: CI environment detection
	if d.IsCIEnvironment() {
		return false
	}

	// Priority 3: Terminal detection
	// Only stderr matters: stdout may be redirected to a wordlist file while
	// the user still watches diagnostics.
	return isTerminal(d.stderr)
}

// CanPrompt reports whether a confirmation can be read from the user.
// Besides an interactive session this needs stdin on a terminal, since a
// piped stdin has no one to answer.
func (d *DefaultInteractiveDetector) CanPrompt() bool {
	return d.IsInteractive() && isTerminal(d.stdin)
}

// IsCIEnvironment checks if the current environment is a CI/CD system
func (d *DefaultInteractiveDetector) IsCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		if value := os.Getenv(envVar); value != "" {
			// Special handling for CI variable - should be truthy
			if envVar == "CI" {
				return isCITruthy(value)
			}
			// For other CI variables, presence indicates CI environment
			return true
		}
	}

	return false
}

// isCITruthy checks if a CI environment variable value should be considered "true"
// CI=false or CI=0 should not be considered a CI environment
func isCITruthy(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower != "false" && lower != "0" && lower != "no"
}
