// Package neighborfile parses line-oriented neighbor files into an immutable
// neighbor store.
//
// # File format
//
//	<subject-label> <neighbor-label-1> ... <neighbor-label-n>
//
// Tokens are separated by exactly one space; consecutive spaces produce empty
// tokens, which fail to resolve like any other unknown label. The first token
// names the subject, the remaining tokens its neighbors in file order. Blank
// lines are no-ops. A subject may reappear on later lines; its neighbors
// accumulate. Both \n and \r\n line endings are accepted, and the final line
// need not be newline-terminated.
//
// # Compression
//
// Files may be gzip-, zstd- or lz4-compressed. The format is detected once
// from the leading magic bytes when the stream is opened; everything past
// that point operates on plain text and never needs to know.
//
// # Error model
//
// Unresolvable labels are advisory: an unknown subject skips its line, an
// unknown neighbor token is dropped, and each occurrence produces a warning
// that never alters control flow. I/O failures (open, read, decompression
// corruption) are fatal: the load aborts, no partial store is returned, and
// the underlying resources are released on every exit path.
package neighborfile
