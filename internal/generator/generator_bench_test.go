package generator

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/isseis/go-passgen/internal/digest"
	"github.com/isseis/go-passgen/internal/table"
)

func BenchmarkRun(b *testing.B) {
	tbl, err := table.LoadBuiltin("leet.yml")
	if err != nil {
		b.Fatal(err)
	}
	d, err := digest.NewDigester(digest.SHA1, true)
	if err != nil {
		b.Fatal(err)
	}

	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Run(context.Background(), Request{Base: "password", Table: tbl, Digester: d, Workers: workers}, io.Discard); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
