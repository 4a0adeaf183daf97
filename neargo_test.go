package neargo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/neargo/blobstore"
	"github.com/hupe1980/neargo/labelindex"
	"github.com/hupe1980/neargo/model"
	"github.com/hupe1980/neargo/neighborfile"
	"github.com/hupe1980/neargo/store"
)

func testSource() labelindex.SliceSource {
	return labelindex.SliceSource{
		{ID: 1, Labels: []string{"x"}},
		{ID: 2, Labels: []string{"a"}},
		{ID: 3, Labels: []string{"b"}},
	}
}

func writeNeighborFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hood.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeNeighborFile(t, "x a b\n")

	hood, err := Load(context.Background(), testSource(), path, WithLogger(NoopLogger()))
	require.NoError(t, err)

	ns, ok := hood.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2, 3}, ns)

	assert.Equal(t, 1, hood.Len())
	assert.True(t, hood.Subjects().Contains(1))
	assert.Equal(t, 1, hood.Stats().Subjects)
}

func TestLoad_Resolve(t *testing.T) {
	path := writeNeighborFile(t, "x a\n")

	hood, err := Load(context.Background(), testSource(), path, WithLogger(NoopLogger()))
	require.NoError(t, err)

	ns, ok := hood.Resolve("x")
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2}, ns)

	_, ok = hood.Resolve("a") // known label, but never a subject
	assert.False(t, ok)

	_, ok = hood.Resolve("unknown")
	assert.False(t, ok)
}

func TestLoad_GzipFile(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("x a b\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "hood.txt.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	hood, err := Load(context.Background(), testSource(), path, WithLogger(NoopLogger()))
	require.NoError(t, err)

	ns, ok := hood.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2, 3}, ns)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), testSource(), filepath.Join(t.TempDir(), "absent.txt"),
		WithLogger(NoopLogger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

type brokenSource struct{ err error }

func (s brokenSource) Len() int                               { return 0 }
func (s brokenSource) ForEach(func(model.Object) error) error { return s.err }

func TestLoad_SourceFailure(t *testing.T) {
	cause := errors.New("relation unavailable")
	path := writeNeighborFile(t, "x a\n")

	_, err := Load(context.Background(), brokenSource{err: cause}, path, WithLogger(NoopLogger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, cause)
}

func TestLoadBlob(t *testing.T) {
	ms := blobstore.NewMemoryStore()
	ms.Put("hood.txt", []byte("x a\nb x\n"))

	hood, err := LoadBlob(context.Background(), testSource(), ms, "hood.txt", WithLogger(NoopLogger()))
	require.NoError(t, err)
	assert.Equal(t, 2, hood.Len())
}

func TestLoadReader_WarningsAndMetrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	var warnings []neighborfile.Warning

	hood, err := LoadReader(context.Background(), testSource(),
		strings.NewReader("x a z\nnope a\n"),
		WithLogger(NoopLogger()),
		WithMetricsCollector(mc),
		WithWarningFunc(func(w neighborfile.Warning) { warnings = append(warnings, w) }),
	)
	require.NoError(t, err)

	// z dropped, nope line skipped; load still succeeds.
	ns, ok := hood.Get(1)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2}, ns)
	assert.Len(t, warnings, 2)
	assert.Equal(t, 2, hood.Stats().Warnings)

	assert.Equal(t, int64(1), mc.LoadCount.Load())
	assert.Equal(t, int64(2), mc.LoadWarnings.Load())
	assert.Equal(t, int64(1), mc.IndexBuilds.Load())
	assert.Equal(t, int64(0), mc.LoadErrors.Load())
}

func TestLoad_CollisionWarningAndMetrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	src := labelindex.SliceSource{
		{ID: 1, Labels: []string{"shared"}},
		{ID: 2, Labels: []string{"shared"}},
	}
	path := writeNeighborFile(t, "shared shared\n")

	hood, err := Load(context.Background(), src, path,
		WithLogger(NoopLogger()),
		WithMetricsCollector(mc),
	)
	require.NoError(t, err)

	// Last write wins: "shared" resolves to object 2.
	ns, ok := hood.Get(2)
	assert.True(t, ok)
	assert.Equal(t, model.NeighborSet{2}, ns)
	_, ok = hood.Get(1)
	assert.False(t, ok)

	assert.Equal(t, int64(1), mc.IndexCollisions.Load())
}

func TestLoad_ParallelOption(t *testing.T) {
	path := writeNeighborFile(t, strings.Repeat("x a b\n", 500))

	hood, err := Load(context.Background(), testSource(), path,
		WithLogger(NoopLogger()),
		WithParallelism(4),
		WithBatchSize(64),
	)
	require.NoError(t, err)

	ns, ok := hood.Get(1)
	assert.True(t, ok)
	assert.Len(t, ns, 1000)
}

func TestNeighborhood_StoreSnapshotRoundTrip(t *testing.T) {
	path := writeNeighborFile(t, "x a b\nb\n")

	hood, err := Load(context.Background(), testSource(), path, WithLogger(NoopLogger()))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, hood.Store().Save(&buf))

	loaded, err := store.LoadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, hood.Len(), loaded.Len())

	ns, ok := loaded.Get(3)
	assert.True(t, ok)
	assert.Empty(t, ns) // subject-only line stays present-but-empty
}
