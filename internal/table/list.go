package table

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed builtin/*.yml
var builtinFS embed.FS

// DefaultTableName is the table used when none is specified.
const DefaultTableName = "simple.yml"

var tableExtensions = []string{".yml", ".yaml", ".toml"}

func isTableFile(name string) bool {
	return slices.Contains(tableExtensions, strings.ToLower(filepath.Ext(name)))
}

// List returns the sorted file names of the tables found directly in dir.
// It returns ErrNoTables when dir holds none.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isTableFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTables, dir)
	}

	slices.Sort(names)
	return names, nil
}

// Builtins returns the names of the tables compiled into the binary.
func Builtins() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names
}

// LoadBuiltin parses one of the built-in tables.
func LoadBuiltin(name string) (*Table, error) {
	content, err := builtinFS.ReadFile(path.Join("builtin", name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	format, err := FormatForPath(name)
	if err != nil {
		return nil, err
	}
	return Parse(name, content, format)
}

// Resolve locates and loads a table. A name containing a path separator is
// loaded as-is; otherwise it is looked up in dir first and then among the
// built-in tables.
func Resolve(dir, name string) (*Table, error) {
	if name == "" {
		name = DefaultTableName
	}

	if strings.ContainsRune(name, os.PathSeparator) || strings.Contains(name, "/") {
		return Load(name)
	}

	if dir != "" {
		candidate := filepath.Join(dir, name)
		if _, err := os.Lstat(candidate); err == nil {
			return Load(candidate)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat table %s: %w", candidate, err)
		}
	}

	return LoadBuiltin(name)
}
