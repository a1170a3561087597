package table

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCharacter indicates that a character has no entry in the table.
	ErrUnknownCharacter = errors.New("unknown character")

	// ErrMalformedTable indicates that table data does not map single characters
	// to non-empty sequences of non-empty strings.
	ErrMalformedTable = errors.New("malformed substitution table")

	// ErrNoTables indicates that no table files were found in a directory.
	ErrNoTables = errors.New("no tables found")

	// ErrTableNotFound indicates that a named table exists neither on disk nor
	// among the built-in tables.
	ErrTableNotFound = errors.New("table not found")

	// ErrUnsupportedFormat indicates a table file extension that cannot be parsed.
	ErrUnsupportedFormat = errors.New("unsupported table format")
)

// UnknownCharacterError reports the character that could not be looked up.
type UnknownCharacterError struct {
	Char rune
}

func (e *UnknownCharacterError) Error() string {
	return fmt.Sprintf("%s %q: no substitution entry", ErrUnknownCharacter, e.Char)
}

// Is reports whether target is ErrUnknownCharacter.
func (e *UnknownCharacterError) Is(target error) bool {
	return target == ErrUnknownCharacter
}

// MalformedEntryError describes the offending key of a malformed table.
type MalformedEntryError struct {
	Key    string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("%s: key %q: %s", ErrMalformedTable, e.Key, e.Reason)
}

// Is reports whether target is ErrMalformedTable.
func (e *MalformedEntryError) Is(target error) bool {
	return target == ErrMalformedTable
}
