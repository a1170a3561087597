// Package expansion computes every mutation of a base string as the
// cartesian product of the symbol sets of its characters.
//
// The number of candidates is the product of the per-character branching
// factors and therefore grows exponentially with the length of the base
// string. Nothing here caps that growth: Sequence.Count reports it up front so
// callers can warn, and the context passed to Walk and Expand is the only way
// to stop an enumeration early.
package expansion

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/isseis/go-passgen/internal/table"
)

// ErrEmptyBase is returned when the base string is empty.
var ErrEmptyBase = errors.New("base string is empty")

// cancelCheckInterval is how many candidates are produced between context checks.
const cancelCheckInterval = 4096

// Sequence holds one symbol set per position of the base string, in input order.
type Sequence [][]string

// BuildSequence uppercases base and looks up every character in t.
// Tables are authored with uppercase keys, so "at" and "AT" are equivalent.
// It fails on the first unmapped character without producing anything.
func BuildSequence(base string, t *table.Table) (Sequence, error) {
	if base == "" {
		return nil, ErrEmptyBase
	}

	upper := strings.ToUpper(base)
	seq := make(Sequence, 0, len(upper))
	for _, r := range upper {
		set, err := t.Lookup(r)
		if err != nil {
			return nil, fmt.Errorf("position %d of %q: %w", len(seq), base, err)
		}
		seq = append(seq, set)
	}
	return seq, nil
}

// Count returns the number of combinations Walk produces, duplicates included.
func (s Sequence) Count() *big.Int {
	total := big.NewInt(1)
	if len(s) == 0 {
		return total.SetInt64(0)
	}
	for _, set := range s {
		total.Mul(total, big.NewInt(int64(len(set))))
	}
	return total
}

// Walk calls fn once per combination, each being the concatenation of one
// element from every position. The first position varies fastest. Walk works
// on its own copy of the sequence and returns early with fn's error or with
// ctx.Err() once ctx is done.
func (s Sequence) Walk(ctx context.Context, fn func(candidate string) error) error {
	if len(s) == 0 {
		return nil
	}

	sets := make([][]string, len(s))
	for i, set := range s {
		if len(set) == 0 {
			return nil
		}
		sets[i] = slices.Clone(set)
	}

	indices := make([]int, len(sets))
	var b strings.Builder
	for n := 0; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		b.Reset()
		for pos, idx := range indices {
			b.WriteString(sets[pos][idx])
		}
		if err := fn(b.String()); err != nil {
			return err
		}

		// Odometer increment with carry.
		pos := 0
		for ; pos < len(indices); pos++ {
			indices[pos]++
			if indices[pos] < len(sets[pos]) {
				break
			}
			indices[pos] = 0
		}
		if pos == len(indices) {
			return nil
		}
	}
}
