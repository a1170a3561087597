// Package digest fingerprints candidates with a cryptographic hash.
package digest

import (
	"crypto/md5"  // #nosec G501 - wordlist fingerprints, not a security boundary
	"crypto/sha1" // #nosec G505 - sha1 is the historical default of passgen wordlists
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// ErrUnsupportedAlgorithm indicates an algorithm outside the supported set.
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

// Algorithm is the closed set of supported digests.
type Algorithm int

// Supported algorithms. The zero value is not a valid algorithm.
const (
	SHA1 Algorithm = iota + 1
	SHA224
	SHA256
	SHA384
	SHA512
	MD5
)

// DefaultAlgorithm is used when none is configured.
const DefaultAlgorithm = SHA1

type algorithmInfo struct {
	name    string
	newHash func() hash.Hash
}

var algorithms = map[Algorithm]algorithmInfo{
	SHA1:   {name: "sha1", newHash: sha1.New},
	SHA224: {name: "sha224", newHash: sha256.New224},
	SHA256: {name: "sha256", newHash: sha256.New},
	SHA384: {name: "sha384", newHash: sha512.New384},
	SHA512: {name: "sha512", newHash: sha512.New},
	MD5:    {name: "md5", newHash: md5.New},
}

// Algorithms returns every supported algorithm in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{SHA1, SHA224, SHA256, SHA384, SHA512, MD5}
}

// Names returns the names of every supported algorithm.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for _, a := range Algorithms() {
		names = append(names, a.String())
	}
	return names
}

// ParseAlgorithm maps a name such as "sha1", "SHA-224" or "sha256" to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", ""))
	for _, a := range Algorithms() {
		if algorithms[a].name == normalized {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedAlgorithm, name, strings.Join(Names(), ", "))
}

// Valid reports whether a is a member of the supported set.
func (a Algorithm) Valid() bool {
	_, ok := algorithms[a]
	return ok
}

func (a Algorithm) String() string {
	if info, ok := algorithms[a]; ok {
		return info.name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// HexLen returns the length of the hexadecimal digest, or 0 for invalid algorithms.
func (a Algorithm) HexLen() int {
	info, ok := algorithms[a]
	if !ok {
		return 0
	}
	return hex.EncodedLen(info.newHash().Size())
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so configuration files
// can name algorithms directly.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
