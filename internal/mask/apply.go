package mask

import (
	"context"
	"fmt"
	"strings"

	"github.com/isseis/go-passgen/internal/expansion"
)

// checkFits reports ErrMaskTooLong when spec reaches past a candidate of n characters.
func checkFits(candidate string, n int, spec Spec) error {
	if spec.Offset < 0 {
		return fmt.Errorf("%w: negative mask offset %d", ErrMaskTooLong, spec.Offset)
	}
	if spec.Offset+spec.Width() > n+1 {
		return fmt.Errorf("%w: mask %q needs %d characters, %q has %d",
			ErrMaskTooLong, spec.String(), spec.Offset+spec.Width()-1, candidate, n)
	}
	return nil
}

// Apply inserts spec into candidate, writing class placeholders verbatim.
// The result has InsertedWidth more characters than candidate.
func Apply(candidate string, spec Spec) (string, error) {
	runes := []rune(candidate)
	if err := checkFits(candidate, len(runes), spec); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(candidate) + len(spec.String()))
	b.WriteString(string(runes[:spec.Offset]))
	pos := spec.Offset
	for _, seg := range spec.Segments {
		if seg.Kind == Keep {
			b.WriteRune(runes[pos])
			pos++
			continue
		}
		b.WriteString(seg.Text)
	}
	b.WriteString(string(runes[pos:]))
	return b.String(), nil
}

// ApplyAll applies spec to every candidate, preserving order and count.
// Results are not deduplicated, so out[i] always derives from candidates[i].
func ApplyAll(ctx context.Context, candidates []string, spec Spec) ([]string, error) {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		masked, err := Apply(c, spec)
		if err != nil {
			return nil, err
		}
		out[i] = masked
	}
	return out, nil
}

// Enumerate calls fn for every string obtained by substituting one member of
// each class placeholder into candidate. Literal segments are inserted as in
// Apply. Like expansion, the output size is the product of the class sizes.
func Enumerate(ctx context.Context, candidate string, spec Spec, fn func(string) error) error {
	runes := []rune(candidate)
	if err := checkFits(candidate, len(runes), spec); err != nil {
		return err
	}

	seq := expansion.Sequence{{string(runes[:spec.Offset])}}
	pos := spec.Offset
	for _, seg := range spec.Segments {
		switch seg.Kind {
		case Keep:
			seq = append(seq, []string{string(runes[pos])})
			pos++
		case Class:
			members := make([]string, len(seg.Members))
			for i, r := range seg.Members {
				members[i] = string(r)
			}
			seq = append(seq, members)
		default:
			seq = append(seq, []string{seg.Text})
		}
	}
	seq = append(seq, []string{string(runes[pos:])})

	return seq.Walk(ctx, fn)
}
