// Package table provides the substitution tables that drive mutation
// expansion: an immutable mapping from a single uppercase character to the
// ordered set of strings it may expand to, along with loading, discovery, and
// the tables built into the binary.
package table

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Table maps uppercase characters to their symbol sets.
// A Table is read-only once constructed and safe for concurrent use.
type Table struct {
	name    string
	symbols map[rune][]string
}

// New builds a Table from parsed key/value data. Keys must be single
// characters; they are normalized to uppercase, so "a" and "A" collide.
// Every value must be a non-empty sequence of non-empty strings without line
// breaks, since each candidate is written as a single line.
func New(entries map[string][]string) (*Table, error) {
	return NewNamed("", entries)
}

// NewNamed is like New but records a display name (usually the file name).
func NewNamed(name string, entries map[string][]string) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: table has no entries", ErrMalformedTable)
	}

	symbols := make(map[rune][]string, len(entries))
	for key, set := range entries {
		r, err := parseKey(key)
		if err != nil {
			return nil, err
		}
		if _, dup := symbols[r]; dup {
			return nil, &MalformedEntryError{Key: key, Reason: "duplicate key after uppercase normalization"}
		}
		if len(set) == 0 {
			return nil, &MalformedEntryError{Key: key, Reason: "symbol set is empty"}
		}
		for i, s := range set {
			if s == "" {
				return nil, &MalformedEntryError{Key: key, Reason: fmt.Sprintf("symbol %d is an empty string", i)}
			}
			if strings.ContainsAny(s, "\r\n") {
				return nil, &MalformedEntryError{Key: key, Reason: fmt.Sprintf("symbol %d contains a line break", i)}
			}
		}
		symbols[r] = slices.Clone(set)
	}

	return &Table{name: name, symbols: symbols}, nil
}

func parseKey(key string) (rune, error) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, &MalformedEntryError{Key: key, Reason: "key must be a single character"}
	}
	r, _ := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return 0, &MalformedEntryError{Key: key, Reason: "key is not valid UTF-8"}
	}
	return unicode.ToUpper(r), nil
}

// Lookup returns a copy of the symbol set for r. The caller is expected to
// have uppercased r already; no case folding happens here.
func (t *Table) Lookup(r rune) ([]string, error) {
	set, ok := t.symbols[r]
	if !ok {
		return nil, &UnknownCharacterError{Char: r}
	}
	return slices.Clone(set), nil
}

// Keys returns the mapped characters in ascending order.
func (t *Table) Keys() []rune {
	keys := make([]rune, 0, len(t.symbols))
	for r := range t.symbols {
		keys = append(keys, r)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of mapped characters.
func (t *Table) Len() int {
	return len(t.symbols)
}

// Name returns the display name given at construction, if any.
func (t *Table) Name() string {
	return t.name
}
