package expansion

import (
	"context"
	"testing"

	"github.com/isseis/go-passgen/internal/table"
)

// BenchmarkExpand measures expansion and deduplication of an 8-character
// base through the built-in leet table.
func BenchmarkExpand(b *testing.B) {
	tbl, err := table.LoadBuiltin("leet.yml")
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Expand(context.Background(), "password", tbl); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWalk measures enumeration alone, without building a set.
func BenchmarkWalk(b *testing.B) {
	tbl, err := table.LoadBuiltin("leet.yml")
	if err != nil {
		b.Fatal(err)
	}
	seq, err := BuildSequence("password", tbl)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := seq.Walk(context.Background(), func(string) error { return nil }); err != nil {
			b.Fatal(err)
		}
	}
}
