package neighborfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressed-stream signatures, checked in order at stream-open time.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// sniffReader inspects the first bytes of r and, if they carry a recognized
// compressed-stream signature, wraps r in the matching decompressor. The
// decision is made exactly once; callers read plain text either way.
//
// Files shorter than the longest magic are passed through raw: a neighbor
// file that small cannot be a compressed archive worth decoding anyway, and
// raw passthrough lets the line parser handle it naturally.
func sniffReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	magic, err := br.Peek(4)
	if err != nil && len(magic) < 2 {
		// Empty or single-byte stream; raw. Real read errors surface on the
		// first Scan against the same buffered reader.
		return br, nil
	}

	switch {
	case hasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("initializing gzip reader: %w", err)
		}
		return zr, nil
	case hasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("initializing zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case hasPrefix(magic, lz4Magic):
		return lz4.NewReader(br), nil
	default:
		return br, nil
	}
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if b[i] != p {
			return false
		}
	}
	return true
}
