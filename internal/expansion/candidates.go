package expansion

import (
	"context"
	"maps"
	"slices"

	"github.com/isseis/go-passgen/internal/table"
)

// maxPrealloc bounds the initial map capacity so a huge expected count does
// not allocate before the first candidate is produced.
const maxPrealloc = 1 << 16

// CandidateSet is a set of unique candidates. Iteration order is unspecified;
// use Sorted when a stable order is needed.
type CandidateSet struct {
	items map[string]struct{}
}

// NewCandidateSet returns an empty set sized for about hint candidates.
func NewCandidateSet(hint int) *CandidateSet {
	if hint < 0 || hint > maxPrealloc {
		hint = maxPrealloc
	}
	return &CandidateSet{items: make(map[string]struct{}, hint)}
}

// Add inserts c and reports whether it was not already present.
func (s *CandidateSet) Add(c string) bool {
	if _, ok := s.items[c]; ok {
		return false
	}
	s.items[c] = struct{}{}
	return true
}

// Contains reports whether c is in the set.
func (s *CandidateSet) Contains(c string) bool {
	_, ok := s.items[c]
	return ok
}

// Len returns the number of unique candidates.
func (s *CandidateSet) Len() int {
	return len(s.items)
}

// Slice returns the candidates in unspecified order.
func (s *CandidateSet) Slice() []string {
	return slices.Collect(maps.Keys(s.items))
}

// Sorted returns the candidates in lexicographic byte order.
func (s *CandidateSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s.items))
}

// Equal reports whether both sets hold exactly the same candidates.
func (s *CandidateSet) Equal(other *CandidateSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for c := range s.items {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// Expand returns every unique mutation of base under t.
// An unmapped character fails the whole call; so does cancellation of ctx.
// No partial set is ever returned.
func Expand(ctx context.Context, base string, t *table.Table) (*CandidateSet, error) {
	seq, err := BuildSequence(base, t)
	if err != nil {
		return nil, err
	}
	return ExpandSequence(ctx, seq)
}

// ExpandSequence deduplicates the combinations of an already built sequence.
func ExpandSequence(ctx context.Context, seq Sequence) (*CandidateSet, error) {
	hint := maxPrealloc
	if count := seq.Count(); count.IsInt64() && count.Int64() < maxPrealloc {
		hint = int(count.Int64())
	}

	set := NewCandidateSet(hint)
	err := seq.Walk(ctx, func(c string) error {
		set.Add(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}
