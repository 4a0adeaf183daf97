// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with read/seek capabilities
//   - [FileSystem]: Abstracts filesystem operations (open, remove, rename, etc.)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.Open(path)
//
// Tests can inject [FaultyFS] to simulate read failures mid-stream:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetReadLimit(1024) // Fail reads after 1KB delivered
//	// inject ffs into component under test
//
// Neighbor-file loading is read-only; the fault rules therefore target the
// read path (open, read-after-N-bytes, close) rather than writes.
package fs
