package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirm writes message followed by a continue hint to out and reads one
// line from in. An empty line, "y" or "yes" confirms; anything else, including
// end of input, declines.
func Confirm(in io.Reader, out io.Writer, message string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s\nPress <enter> to continue or abort with Ctrl-C! ", message); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
