package generator

import (
	"io"
	"os"

	"github.com/isseis/go-passgen/internal/safefileio"
)

// outputFilePerm is the mode of newly created wordlist files.
const outputFilePerm os.FileMode = 0o600

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// OpenOutput returns stdout when path is empty or "-", and otherwise creates
// path without following symlinks. An existing file is only replaced when
// overwrite is set.
func OpenOutput(path string, overwrite bool, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	f, err := safefileio.CreateFile(path, outputFilePerm, overwrite)
	if err != nil {
		return nil, err
	}
	return f, nil
}
