// Package blobstore abstracts where neighbor files live.
//
// A neighbor file is a single immutable blob that is read sequentially,
// exactly once, per load. The abstraction is therefore read-oriented: a
// [BlobStore] opens a named [Blob], and a Blob hands out a streaming reader.
//
// Implementations:
//
//   - [MemoryStore]: in-memory, for tests
//   - [LocalStore]: local filesystem, mmap-backed
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible storage
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing immutable data blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// Reader returns a sequential reader over the blob's bytes.
	// The caller owns the reader and must close it.
	Reader(ctx context.Context) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
}
