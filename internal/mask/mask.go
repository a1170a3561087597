// Package mask inserts a fixed pattern into candidates after expansion.
//
// A mask is written as a template over the candidate:
//
//	mask        = { "_" } body      leading underscores give the offset
//	body        = { keep | placeholder | literal }
//	keep        = "_"               copy the next candidate character
//	placeholder = "[" class "]"     e.g. [0-9], [a-z], [A-Za-z!]
//	class       = { char "-" char | char }
//	literal     = "\" any | any other character
//
// With this grammar "__[0-9]" applied to "Test" gives "Te[0-9]st" and
// "__[a-z]_[0-9]" applied to "abd" gives "ab[a-z]d[0-9]". Apply inserts
// placeholders as literal text, one output per candidate. Enumerate is the
// extension that substitutes each class member instead.
package mask

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrMaskTooLong is returned when a mask reaches past the end of the candidate.
	ErrMaskTooLong = errors.New("mask cannot be longer than length of string + 1")

	// ErrInvalidMask is returned for masks that do not follow the grammar.
	ErrInvalidMask = errors.New("invalid mask")
)

// Kind identifies a mask segment.
type Kind int

const (
	// Keep copies one character of the candidate.
	Keep Kind = iota
	// Literal inserts Text.
	Literal
	// Class inserts Text, or one of Members when enumerating.
	Class
)

// Segment is one element of a mask body.
type Segment struct {
	Kind    Kind
	Text    string
	Members []rune
}

// Spec is a parsed mask: a zero-based character offset into the candidate
// and the segments applied from there.
type Spec struct {
	Offset   int
	Segments []Segment
}

// Insert returns a Spec that inserts text verbatim at offset. A negative
// offset never fits, so Apply and Enumerate reject it with ErrMaskTooLong.
func Insert(offset int, text string) Spec {
	return Spec{Offset: offset, Segments: []Segment{{Kind: Literal, Text: text}}}
}

// Width is the number of candidate gaps the mask spans: one insertion point
// plus one per kept character. A mask fits a candidate of n characters when
// Offset+Width <= n+1.
func (s Spec) Width() int {
	width := 1
	for _, seg := range s.Segments {
		if seg.Kind == Keep {
			width++
		}
	}
	return width
}

// InsertedWidth is the number of characters Apply adds to a candidate.
func (s Spec) InsertedWidth() int {
	n := 0
	for _, seg := range s.Segments {
		if seg.Kind != Keep {
			n += utf8.RuneCountInString(seg.Text)
		}
	}
	return n
}

// IsZero reports whether s is the zero Spec, meaning no mask is configured.
func (s Spec) IsZero() bool {
	return s.Offset == 0 && len(s.Segments) == 0
}

// String renders s back in mask syntax. A negative offset renders as zero.
func (s Spec) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("_", max(s.Offset, 0)))
	for _, seg := range s.Segments {
		switch seg.Kind {
		case Keep:
			b.WriteByte('_')
		case Class:
			b.WriteString(seg.Text)
		default:
			for _, r := range seg.Text {
				if r == '_' || r == '[' || r == '\\' {
					b.WriteByte('\\')
				}
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// Parse parses a mask expression.
func Parse(expr string) (Spec, error) {
	runes := []rune(expr)
	var spec Spec

	i := 0
	for i < len(runes) && runes[i] == '_' {
		spec.Offset++
		i++
	}

	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			spec.Segments = append(spec.Segments, Segment{Kind: Literal, Text: literal.String()})
			literal.Reset()
		}
	}

	for i < len(runes) {
		switch r := runes[i]; r {
		case '_':
			flush()
			spec.Segments = append(spec.Segments, Segment{Kind: Keep})
			i++
		case '[':
			flush()
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end == len(runes) {
				return Spec{}, fmt.Errorf("%w: unterminated class at position %d in %q", ErrInvalidMask, i, expr)
			}
			body := string(runes[i+1 : end])
			members, err := parseClass(body)
			if err != nil {
				return Spec{}, fmt.Errorf("%w: class [%s] in %q: %v", ErrInvalidMask, body, expr, err)
			}
			spec.Segments = append(spec.Segments, Segment{Kind: Class, Text: "[" + body + "]", Members: members})
			i = end + 1
		case '\\':
			if i+1 == len(runes) {
				return Spec{}, fmt.Errorf("%w: trailing escape in %q", ErrInvalidMask, expr)
			}
			literal.WriteRune(runes[i+1])
			i += 2
		default:
			literal.WriteRune(r)
			i++
		}
	}
	flush()

	if len(spec.Segments) == 0 {
		return Spec{}, fmt.Errorf("%w: %q inserts nothing", ErrInvalidMask, expr)
	}
	return spec, nil
}

func parseClass(body string) ([]rune, error) {
	runes := []rune(body)
	if len(runes) == 0 {
		return nil, errors.New("empty class")
	}

	seen := make(map[rune]bool)
	var members []rune
	add := func(r rune) {
		if !seen[r] {
			seen[r] = true
			members = append(members, r)
		}
	}

	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && runes[i+1] == '-' {
			lo, hi := runes[i], runes[i+2]
			if lo > hi {
				return nil, fmt.Errorf("range %c-%c is reversed", lo, hi)
			}
			for r := lo; r <= hi; r++ {
				add(r)
			}
			i += 2
			continue
		}
		add(runes[i])
	}
	return members, nil
}
