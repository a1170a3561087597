// Package generator runs the passgen pipeline: expand the base through a
// substitution table, optionally apply a mask, optionally digest, and write
// one line per candidate in lexicographic order.
package generator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/isseis/go-passgen/internal/digest"
	"github.com/isseis/go-passgen/internal/expansion"
	"github.com/isseis/go-passgen/internal/mask"
	"github.com/isseis/go-passgen/internal/table"
	"golang.org/x/sync/errgroup"
)

// ErrNoCandidates is returned when the pipeline produces nothing to write.
var ErrNoCandidates = errors.New("no candidates generated")

// chunkSize is the number of records one worker digests per task.
const chunkSize = 1024

// MaxWorkers caps the digest pool. Larger requests are clamped.
const MaxWorkers = 256

// Request describes one generation run.
type Request struct {
	Base  string
	Table *table.Table
	// Sequence, when set, is the already built expansion of Base through
	// Table and is used instead of rebuilding it.
	Sequence expansion.Sequence

	// Mask is applied to every candidate unless it is the zero Spec.
	Mask mask.Spec
	// ExpandMaskClasses substitutes each class member instead of inserting
	// the class placeholder verbatim.
	ExpandMaskClasses bool

	Digester digest.Digester

	// Workers bounds the digest pool. Zero or less selects runtime.NumCPU,
	// and values above MaxWorkers are clamped.
	Workers int

	Logger *slog.Logger
}

// Stats summarizes a completed run.
type Stats struct {
	// Expected is the product of branching factors before deduplication.
	Expected *big.Int
	// Unique is the size of the deduplicated candidate set.
	Unique int
	// Written is the number of lines written, which differs from Unique
	// only when mask classes are expanded.
	Written int
}

// Run executes req and writes the wordlist to w.
func Run(ctx context.Context, req Request, w io.Writer) (Stats, error) {
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if req.Table == nil {
		return Stats{}, fmt.Errorf("%w: no table", table.ErrMalformedTable)
	}

	seq := req.Sequence
	if seq == nil {
		var err error
		if seq, err = expansion.BuildSequence(req.Base, req.Table); err != nil {
			return Stats{}, err
		}
	}
	stats := Stats{Expected: seq.Count()}
	logger.Debug("Expanding candidates",
		"table", req.Table.Name(),
		"positions", len(seq),
		"expected", humanize.BigComma(stats.Expected))

	set, err := expansion.ExpandSequence(ctx, seq)
	if err != nil {
		return stats, err
	}
	stats.Unique = set.Len()
	if stats.Unique == 0 {
		return stats, ErrNoCandidates
	}

	candidates, err := applyMask(ctx, set.Sorted(), req)
	if err != nil {
		return stats, err
	}

	written, err := writeRecords(ctx, candidates, req.Digester, workerCount(req.Workers), w)
	stats.Written = written
	if err != nil {
		return stats, err
	}

	logger.Debug("Wordlist written",
		"unique", humanize.Comma(int64(stats.Unique)),
		"written", humanize.Comma(int64(stats.Written)),
		"hashed", req.Digester.Enabled())
	return stats, nil
}

func workerCount(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return min(n, MaxWorkers)
}

func applyMask(ctx context.Context, candidates []string, req Request) ([]string, error) {
	if req.Mask.IsZero() {
		return candidates, nil
	}
	if !req.ExpandMaskClasses {
		return mask.ApplyAll(ctx, candidates, req.Mask)
	}

	var out []string
	for _, c := range candidates {
		err := mask.Enumerate(ctx, c, req.Mask, func(masked string) error {
			out = append(out, masked)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// writeRecords digests candidates in parallel windows and writes each window
// in input order, so output is independent of the worker count.
func writeRecords(ctx context.Context, candidates []string, d digest.Digester, workers int, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	window := workers * chunkSize
	records := make([]digest.Record, min(window, len(candidates)))
	written := 0

	var line []byte
	for start := 0; start < len(candidates); start += window {
		end := min(start+window, len(candidates))
		batch := records[:end-start]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for lo := start; lo < end; lo += chunkSize {
			hi := min(lo+chunkSize, end)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				for i := lo; i < hi; i++ {
					rec, err := d.Digest(candidates[i])
					if err != nil {
						return err
					}
					batch[i-start] = rec
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return written, err
		}

		for _, rec := range batch {
			line = rec.AppendLine(line[:0])
			if _, err := bw.Write(line); err != nil {
				return written, fmt.Errorf("failed to write wordlist: %w", err)
			}
			written++
		}
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("failed to write wordlist: %w", err)
	}
	return written, nil
}
