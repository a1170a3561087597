// Package safefileio provides secure file I/O operations with protection against
// common security vulnerabilities like symlink attacks and TOCTOU race conditions.
package safefileio

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// FileSystem is an interface that abstracts file system operations
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
}

// File is an interface that abstracts file operations
type File interface {
	io.ReadWriteCloser
	Stat() (os.FileInfo, error)
}

var defaultFS FileSystem = osFS{}

type osFS struct{}

func (osFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	// #nosec G304 - The path is validated after opening to prevent TOCTOU attacks
	return os.OpenFile(name, flag, perm)
}

// MaxFileSize is the maximum allowed file size for SafeReadFile (128 MB)
const MaxFileSize = 128 * 1024 * 1024

// SafeReadFile reads a file safely after validating the path and checking file properties.
// It enforces a maximum file size of MaxFileSize to prevent memory exhaustion attacks.
// It uses O_NOFOLLOW to prevent symlink attacks and performs all checks atomically.
func SafeReadFile(filePath string) ([]byte, error) {
	return safeReadFileWithFS(filePath, defaultFS)
}

func safeReadFileWithFS(filePath string, fs FileSystem) ([]byte, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}

	file, err := fs.OpenFile(absPath, os.O_RDONLY|syscall.O_NOFOLLOW, 0)
	if err != nil {
		if isNoFollowError(err) {
			return nil, ErrIsSymlink
		}
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("error closing file", slog.String("path", absPath), slog.Any("error", closeErr))
		}
	}()

	// Now verify the directory components to prevent TOCTOU
	if err := verifyPathComponents(absPath); err != nil {
		return nil, err
	}

	return readFileContent(file, filePath)
}

// readFileContent reads and validates the content of an already opened file
func readFileContent(file File, filePath string) ([]byte, error) {
	fileInfo, err := validateFile(file, filePath)
	if err != nil {
		return nil, err
	}

	if fileInfo.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	content, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if int64(len(content)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return content, nil
}

// CreateFile opens filePath for writing without following symlinks.
// Unless overwrite is set, an existing file is reported as ErrFileExists.
// The caller owns the returned file and must close it.
func CreateFile(filePath string, perm os.FileMode, overwrite bool) (*os.File, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}

	flag := os.O_WRONLY | os.O_CREATE | syscall.O_NOFOLLOW
	if overwrite {
		flag |= os.O_TRUNC
	} else {
		flag |= os.O_EXCL
	}

	// #nosec G304 - absPath is verified below and O_NOFOLLOW rejects a final symlink
	file, err := os.OpenFile(absPath, flag, perm)
	if err != nil {
		switch {
		case os.IsExist(err):
			return nil, ErrFileExists
		case isNoFollowError(err):
			return nil, ErrIsSymlink
		default:
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
	}

	if err := verifyPathComponents(absPath); err != nil {
		_ = file.Close()
		return nil, err
	}
	if _, err := validateFile(file, absPath); err != nil {
		_ = file.Close()
		return nil, err
	}

	return file, nil
}

// verifyPathComponents checks if any component of the path is a symlink.
// This is called after opening the file to prevent TOCTOU attacks.
func verifyPathComponents(absPath string) error {
	current := filepath.Dir(absPath)
	for {
		parent := filepath.Dir(current)
		if parent == current {
			break // Reached root directory
		}

		// os.Lstat does not follow the final component
		fi, err := os.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to stat %s: %w", current, err)
		}

		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", ErrIsSymlink, current)
		}

		current = parent
	}

	return nil
}

// validateFile checks if the file is a regular file and returns its FileInfo
// To prevent TOCTOU attacks, we use the file descriptor to get the file info
func validateFile(file File, filePath string) (os.FileInfo, error) {
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: not a regular file: %s", ErrInvalidFilePath, filePath)
	}

	return fileInfo, nil
}
