package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/isseis/go-passgen/internal/digest"
	"github.com/isseis/go-passgen/internal/expansion"
	"github.com/isseis/go-passgen/internal/mask"
	"github.com/isseis/go-passgen/internal/safefileio"
	"github.com/isseis/go-passgen/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func atTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.NewNamed("at.yml", map[string][]string{"A": {"a", "4", "@"}, "T": {"t", "7"}})
	require.NoError(t, err)
	return tbl
}

func plainDigester(t *testing.T) digest.Digester {
	t.Helper()
	d, err := digest.NewDigester(digest.SHA1, false)
	require.NoError(t, err)
	return d
}

func TestRun_Plain(t *testing.T) {
	var out bytes.Buffer
	stats, err := Run(context.Background(), Request{
		Base:     "at",
		Table:    atTable(t),
		Digester: plainDigester(t),
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "47\n4t\n@7\n@t\na7\nat\n", out.String())
	assert.Equal(t, int64(6), stats.Expected.Int64())
	assert.Equal(t, 6, stats.Unique)
	assert.Equal(t, 6, stats.Written)
}

func TestRun_Hashed(t *testing.T) {
	d, err := digest.NewDigester(digest.SHA1, true)
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = Run(context.Background(), Request{Base: "AT", Table: atTable(t), Digester: d}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	for _, line := range lines {
		hex, candidate, ok := strings.Cut(line, " ")
		require.True(t, ok, line)
		rec, err := digest.Digest(candidate, digest.SHA1)
		require.NoError(t, err)
		assert.Equal(t, rec.Digest, hex)
	}
	assert.True(t, strings.HasSuffix(lines[5], " at"))
}

func TestRun_DeterministicAcrossWorkers(t *testing.T) {
	tbl, err := table.LoadBuiltin("leet.yml")
	require.NoError(t, err)
	d, err := digest.NewDigester(digest.SHA224, true)
	require.NoError(t, err)

	var outputs []string
	for _, workers := range []int{1, 3, 16} {
		var out bytes.Buffer
		stats, err := Run(context.Background(), Request{Base: "password", Table: tbl, Digester: d, Workers: workers}, &out)
		require.NoError(t, err)
		assert.Greater(t, stats.Written, chunkSize, "exercises more than one chunk")
		outputs = append(outputs, out.String())
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[0], outputs[2])
}

func TestRun_ClampsWorkers(t *testing.T) {
	assert.Equal(t, MaxWorkers, workerCount(math.MaxInt))
	assert.Equal(t, 3, workerCount(3))
	assert.Equal(t, min(runtime.NumCPU(), MaxWorkers), workerCount(0))

	tbl, err := table.New(map[string][]string{"A": {"a", "4"}})
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := Run(context.Background(), Request{Base: "a", Table: tbl, Digester: plainDigester(t), Workers: math.MaxInt / 512}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, "4\na\n", out.String())
}

func TestRun_UsesPrebuiltSequence(t *testing.T) {
	tbl, err := table.New(map[string][]string{"A": {"a", "4"}})
	require.NoError(t, err)
	seq, err := expansion.BuildSequence("a", tbl)
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := Run(context.Background(), Request{
		Base:     "zz",
		Table:    tbl,
		Sequence: seq,
		Digester: plainDigester(t),
	}, &out)
	require.NoError(t, err, "the base is not looked up again when a sequence is given")
	assert.Equal(t, "4\na\n", out.String())
	assert.Equal(t, int64(2), stats.Expected.Int64())
}

func TestRun_Dedup(t *testing.T) {
	tbl, err := table.New(map[string][]string{"X": {"a", "aa"}, "Y": {"ab", "b"}})
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := Run(context.Background(), Request{Base: "xy", Table: tbl, Digester: plainDigester(t)}, &out)
	require.NoError(t, err)

	assert.Equal(t, "aaab\naab\nab\n", out.String())
	assert.Equal(t, int64(4), stats.Expected.Int64())
	assert.Equal(t, 3, stats.Unique)
}

func TestRun_Mask(t *testing.T) {
	spec, err := mask.Parse("_[0-1]")
	require.NoError(t, err)

	t.Run("placeholder inserted verbatim", func(t *testing.T) {
		var out bytes.Buffer
		stats, err := Run(context.Background(), Request{Base: "at", Table: atTable(t), Mask: spec, Digester: plainDigester(t)}, &out)
		require.NoError(t, err)
		assert.Equal(t, 6, stats.Written)
		assert.True(t, strings.HasPrefix(out.String(), "4[0-1]7\n"))
	})

	t.Run("classes expanded", func(t *testing.T) {
		var out bytes.Buffer
		stats, err := Run(context.Background(), Request{
			Base: "at", Table: atTable(t), Mask: spec, ExpandMaskClasses: true, Digester: plainDigester(t),
		}, &out)
		require.NoError(t, err)
		assert.Equal(t, 6, stats.Unique)
		assert.Equal(t, 12, stats.Written)
		assert.True(t, strings.HasPrefix(out.String(), "407\n417\n"))
	})

	t.Run("too long", func(t *testing.T) {
		long, err := mask.Parse("____!")
		require.NoError(t, err)
		var out bytes.Buffer
		_, err = Run(context.Background(), Request{Base: "at", Table: atTable(t), Mask: long, Digester: plainDigester(t)}, &out)
		assert.ErrorIs(t, err, mask.ErrMaskTooLong)
		assert.Empty(t, out.String())
	})
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "unknown character", req: Request{Base: "ab"}, wantErr: table.ErrUnknownCharacter},
		{name: "empty base", req: Request{Base: ""}, wantErr: expansion.ErrEmptyBase},
		{name: "no table", req: Request{Base: "at", Table: nil}, wantErr: table.ErrMalformedTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name != "no table" {
				tt.req.Table = atTable(t)
			}
			var out bytes.Buffer
			_, err := Run(context.Background(), tt.req, &out)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, out.String(), "no partial output")
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := Run(ctx, Request{Base: "at", Table: atTable(t), Digester: plainDigester(t)}, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestRun_WriteError(t *testing.T) {
	w := &mockWriter{}
	w.On("Write", mock.Anything).Return(0, errDiskFull)

	_, err := Run(context.Background(), Request{Base: "at", Table: atTable(t), Digester: plainDigester(t)}, w)
	assert.ErrorIs(t, err, errDiskFull)
	w.AssertExpectations(t)
}

func TestOpenOutput(t *testing.T) {
	var stdout bytes.Buffer
	w, err := OpenOutput("-", false, &stdout)
	require.NoError(t, err)
	_, err = fmt.Fprint(w, "at\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "at\n", stdout.String())

	path := filepath.Join(t.TempDir(), "wordlist.txt")
	w, err = OpenOutput(path, false, &stdout)
	require.NoError(t, err)
	_, err = fmt.Fprint(w, "47\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = OpenOutput(path, false, &stdout)
	assert.ErrorIs(t, err, safefileio.ErrFileExists)

	w, err = OpenOutput(path, true, &stdout)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content, "overwrite truncates")
}
