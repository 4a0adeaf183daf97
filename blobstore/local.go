package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/neargo/internal/mmap"
)

// LocalStore implements BlobStore using the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Open opens a blob for reading. Local blobs are memory-mapped; the kernel
// is advised of sequential access, which matches how neighbor files are read.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	path := filepath.Join(s.root, name)
	m, err := mmap.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &localBlob{m: m}, nil
}

type localBlob struct {
	m *mmap.File
}

func (b *localBlob) Reader(_ context.Context) (io.ReadCloser, error) {
	return &localBlobReader{b: b, r: bytes.NewReader(b.m.Bytes())}, nil
}

func (b *localBlob) Size() int64 { return int64(len(b.m.Bytes())) }

// localBlobReader keeps the mapping alive while the reader is in use and
// releases it on Close.
type localBlobReader struct {
	b *localBlob
	r *bytes.Reader
}

func (r *localBlobReader) Read(p []byte) (int, error) { return r.r.Read(p) }

func (r *localBlobReader) Close() error { return r.b.m.Close() }
