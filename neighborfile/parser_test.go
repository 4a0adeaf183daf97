package neighborfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/hupe1980/neargo/blobstore"
	"github.com/hupe1980/neargo/internal/fs"
	"github.com/hupe1980/neargo/labelindex"
	"github.com/hupe1980/neargo/model"
)

func testIndex(t *testing.T) *labelindex.Index {
	t.Helper()
	idx, err := labelindex.Build(labelindex.SliceSource{
		{ID: 1, Labels: []string{"x"}},
		{ID: 2, Labels: []string{"a"}},
		{ID: 3, Labels: []string{"b"}},
		{ID: 4, Labels: []string{"q"}, ExternalID: "Q-004"},
	})
	require.NoError(t, err)
	return idx
}

func TestParse_BasicLine(t *testing.T) {
	s, stats, err := ParseReader(context.Background(), strings.NewReader("x a b\n"), testIndex(t))
	require.NoError(t, err)

	ns, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2, 3}, ns)

	assert.Equal(t, 1, stats.Lines)
	assert.Equal(t, 1, stats.Subjects)
	assert.Equal(t, 2, stats.Neighbors)
	assert.Zero(t, stats.Warnings)
}

func TestParse_SubjectNotOwnNeighbor(t *testing.T) {
	s, _, err := ParseReader(context.Background(), strings.NewReader("x x a\n"), testIndex(t))
	require.NoError(t, err)

	// The leading token names the subject; it becomes a neighbor only when
	// repeated explicitly, as on this line.
	ns, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{1, 2}, ns)

	s, _, err = ParseReader(context.Background(), strings.NewReader("x a\n"), testIndex(t))
	require.NoError(t, err)

	ns, ok = s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2}, ns)
}

func TestParse_UnknownNeighborDropped(t *testing.T) {
	var warnings []Warning
	s, stats, err := ParseReader(context.Background(), strings.NewReader("x a z\n"), testIndex(t),
		func(o *Options) { o.OnWarning = func(w Warning) { warnings = append(warnings, w) } },
	)
	require.NoError(t, err)

	ns, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2}, ns) // z silently dropped

	assert.Equal(t, 1, stats.Warnings)
	require.Len(t, warnings, 1)
	assert.Equal(t, Warning{Line: 1, Token: 2, Label: "z"}, warnings[0])
}

func TestParse_UnknownSubjectSkipsLine(t *testing.T) {
	var warnings []Warning
	s, stats, err := ParseReader(context.Background(), strings.NewReader("nope a b\n"), testIndex(t),
		func(o *Options) { o.OnWarning = func(w Warning) { warnings = append(warnings, w) } },
	)
	require.NoError(t, err)

	assert.Zero(t, s.Len()) // no entry for any id derived from that line
	assert.Equal(t, 1, stats.Warnings)
	require.Len(t, warnings, 1)
	assert.Equal(t, Warning{Line: 1, Token: 0, Label: "nope"}, warnings[0])
}

func TestParse_SubjectOnlyLineIsPresentButEmpty(t *testing.T) {
	s, _, err := ParseReader(context.Background(), strings.NewReader("x\n"), testIndex(t))
	require.NoError(t, err)

	ns, ok := s.Get(1)
	assert.True(t, ok)
	assert.Empty(t, ns)

	// Absent stays absent.
	_, ok = s.Get(2)
	assert.False(t, ok)
}

func TestParse_AccumulationAcrossLines(t *testing.T) {
	s, _, err := ParseReader(context.Background(), strings.NewReader("x a\nx b\n"), testIndex(t))
	require.NoError(t, err)

	ns, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2, 3}, ns)
}

func TestParse_BlankLinesAndCRLFAndNoTrailingNewline(t *testing.T) {
	s, stats, err := ParseReader(context.Background(), strings.NewReader("\r\nx a\r\n\nq b"), testIndex(t))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Lines)

	ns, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2}, ns)

	// Unterminated final line still parses.
	ns, ok = s.Get(4)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{3}, ns)
}

func TestParse_ExactSingleSpaceSplit(t *testing.T) {
	// Two consecutive spaces produce an empty token, which fails to resolve
	// like any unknown label.
	var warnings []Warning
	s, _, err := ParseReader(context.Background(), strings.NewReader("x a  b\n"), testIndex(t),
		func(o *Options) { o.OnWarning = func(w Warning) { warnings = append(warnings, w) } },
	)
	require.NoError(t, err)

	ns, _ := s.Get(1)
	assert.Equal(t, model.NeighborSet{2, 3}, ns)
	require.Len(t, warnings, 1)
	assert.Equal(t, "", warnings[0].Label)
	assert.Equal(t, 2, warnings[0].Token)
}

func TestParse_DuplicatesAndOrderPreserved(t *testing.T) {
	s, _, err := ParseReader(context.Background(), strings.NewReader("x b a b\n"), testIndex(t))
	require.NoError(t, err)

	ns, _ := s.Get(1)
	assert.Equal(t, model.NeighborSet{3, 2, 3}, ns)
}

func TestParse_ExternalIDResolves(t *testing.T) {
	s, _, err := ParseReader(context.Background(), strings.NewReader("Q-004 x\n"), testIndex(t))
	require.NoError(t, err)

	ns, ok := s.Get(4)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{1}, ns)
}

func TestParse_EmptyFile(t *testing.T) {
	s, stats, err := ParseReader(context.Background(), strings.NewReader(""), testIndex(t))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Zero(t, stats.Lines)
	_, ok := s.Get(1)
	assert.False(t, ok)
}

func TestParse_GzipEquivalence(t *testing.T) {
	content := "x a b\nq a\n"

	plain, _, err := ParseReader(context.Background(), strings.NewReader(content), testIndex(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	compressed, _, err := ParseReader(context.Background(), &buf, testIndex(t))
	require.NoError(t, err)

	require.Equal(t, plain.Len(), compressed.Len())
	for _, id := range []model.ObjectID{1, 4} {
		want, _ := plain.Get(id)
		got, ok := compressed.Get(id)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestParse_CorruptGzipIsFatal(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("x a b\nq a b\nx b\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	// Keep the gzip magic intact but truncate the stream mid-body.
	corrupt := buf.Bytes()[:buf.Len()/2]

	s, _, err := ParseReader(context.Background(), bytes.NewReader(corrupt), testIndex(t))
	assert.Error(t, err)
	assert.Nil(t, s) // no partial store
}

func TestParse_MidReadFaultIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hood.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x a b\n", 100)), 0o644))

	ffs := fs.NewFaultyFS(nil)
	ffs.SetReadLimit(64)

	s, _, err := Parse(context.Background(), path, testIndex(t), func(o *Options) {
		o.FS = ffs
	})
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestParse_MissingFileIsFatal(t *testing.T) {
	s, _, err := Parse(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), testIndex(t))
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestParseBlob(t *testing.T) {
	ms := blobstore.NewMemoryStore()
	ms.Put("hood.txt", []byte("x a b\n"))

	s, _, err := ParseBlob(context.Background(), ms, "hood.txt", testIndex(t))
	require.NoError(t, err)

	ns, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2, 3}, ns)

	_, _, err = ParseBlob(context.Background(), ms, "missing.txt", testIndex(t))
	assert.Error(t, err)
}

func TestParse_ParallelMatchesSequential(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("x a b\n")
	sb.WriteString("q a\n")
	sb.WriteString("x b\n") // accumulates onto the first x line
	sb.WriteString("\n")
	sb.WriteString("unknown a\n")
	sb.WriteString("a x z\n")
	content := sb.String()

	seq, seqStats, err := ParseReader(context.Background(), strings.NewReader(content), testIndex(t))
	require.NoError(t, err)

	par, parStats, err := ParseReader(context.Background(), strings.NewReader(content), testIndex(t),
		func(o *Options) {
			o.Parallelism = 4
			o.BatchSize = 2
		},
	)
	require.NoError(t, err)

	assert.Equal(t, seqStats, parStats)
	require.Equal(t, seq.Len(), par.Len())
	for _, id := range []model.ObjectID{1, 2, 4} {
		want, wantOK := seq.Get(id)
		got, gotOK := par.Get(id)
		assert.Equal(t, wantOK, gotOK, id)
		assert.Equal(t, want, got, id)
	}
}

func TestParse_WarningRateLimit(t *testing.T) {
	// 50 unknown subjects, but only one log permit.
	content := strings.Repeat("unknown a\n", 50)

	warnings := 0
	_, stats, err := ParseReader(context.Background(), strings.NewReader(content), testIndex(t),
		func(o *Options) {
			o.WarnRate = rate.Limit(1e-9) // effectively one log per load
			o.WarnBurst = 1
			o.OnWarning = func(Warning) { warnings++ }
		},
	)
	require.NoError(t, err)

	// Every warning is counted and delivered to the callback...
	assert.Equal(t, 50, stats.Warnings)
	assert.Equal(t, 50, warnings)
	// ...but almost all log lines were suppressed.
	assert.Equal(t, 49, stats.SuppressedLogs)
}
