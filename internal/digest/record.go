package digest

import (
	"encoding/hex"
	"fmt"
	"io"
)

// Record pairs a candidate with its digest. Hashed is false when digesting
// is disabled, in which case Digest is empty.
type Record struct {
	Digest    string
	Candidate string
	Hashed    bool
}

// String renders the record as a wordlist line without the trailing newline:
// "<hex> <candidate>" or "<candidate>".
func (r Record) String() string {
	if !r.Hashed {
		return r.Candidate
	}
	return r.Digest + " " + r.Candidate
}

// AppendLine appends the record and a single newline to buf.
func (r Record) AppendLine(buf []byte) []byte {
	if r.Hashed {
		buf = append(buf, r.Digest...)
		buf = append(buf, ' ')
	}
	buf = append(buf, r.Candidate...)
	return append(buf, '\n')
}

// WriteTo writes the record as one line to w.
func (r Record) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.AppendLine(nil))
	return int64(n), err
}

// Digest hashes the UTF-8 bytes of candidate and returns the lowercase hex digest.
func Digest(candidate string, alg Algorithm) (Record, error) {
	info, ok := algorithms[alg]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	h := info.newHash()
	_, _ = h.Write([]byte(candidate)) // hash.Hash.Write never returns an error
	return Record{Digest: hex.EncodeToString(h.Sum(nil)), Candidate: candidate, Hashed: true}, nil
}

// Digester applies the configured digest to each candidate.
type Digester struct {
	algorithm Algorithm
	enabled   bool
}

// NewDigester validates alg when enabled. A disabled Digester ignores alg.
func NewDigester(alg Algorithm, enabled bool) (Digester, error) {
	if enabled && !alg.Valid() {
		return Digester{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	return Digester{algorithm: alg, enabled: enabled}, nil
}

// Enabled reports whether candidates are hashed.
func (d Digester) Enabled() bool {
	return d.enabled
}

// Algorithm returns the configured algorithm.
func (d Digester) Algorithm() Algorithm {
	return d.algorithm
}

// Digest returns the record for candidate. It has no state shared between
// calls and may be used from several goroutines.
func (d Digester) Digest(candidate string) (Record, error) {
	if !d.enabled {
		return Record{Candidate: candidate}, nil
	}
	return Digest(candidate, d.algorithm)
}
