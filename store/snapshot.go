package store

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/neargo/codec"
	"github.com/hupe1980/neargo/model"
)

// Snapshot format:
//
//	[Magic: 4 bytes "NGST"] [Version: 1 byte]
//	[CodecNameLen: 1 byte] [CodecName]
//	[Compression: 1 byte] (0 = none, 1 = zstd)
//	[Payload]
//
// The payload is the codec-encoded subject map, zstd-compressed unless
// compression is disabled.

var snapshotMagic = [4]byte{'N', 'G', 'S', 'T'}

const snapshotVersion = 1

const (
	compressionNone byte = 0
	compressionZstd byte = 1
)

// SaveOptions configure snapshot writing.
type SaveOptions struct {
	// Codec encodes the payload. nil means codec.Default.
	Codec codec.Codec
	// DisableCompression writes the payload raw instead of zstd-compressed.
	DisableCompression bool
}

// Save writes a self-describing snapshot of the store to w.
func (s *Store) Save(w io.Writer, optFns ...func(o *SaveOptions)) error {
	opts := SaveOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}
	if len(c.Name()) > 255 {
		return fmt.Errorf("snapshot: codec name too long: %q", c.Name())
	}

	bw := bufio.NewWriter(w)

	if _, err := bw.Write(snapshotMagic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(snapshotVersion); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(len(c.Name()))); err != nil {
		return err
	}
	if _, err := bw.WriteString(c.Name()); err != nil {
		return err
	}

	compression := compressionZstd
	if opts.DisableCompression {
		compression = compressionNone
	}
	if err := bw.WriteByte(compression); err != nil {
		return err
	}

	payload, err := c.Marshal(s.m)
	if err != nil {
		return fmt.Errorf("snapshot: encoding payload: %w", err)
	}

	if compression == compressionZstd {
		enc, err := zstd.NewWriter(bw)
		if err != nil {
			return fmt.Errorf("snapshot: creating compressor: %w", err)
		}
		if _, err := enc.Write(payload); err != nil {
			_ = enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else {
		if _, err := bw.Write(payload); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// LoadSnapshot reads a snapshot previously written with Save and returns the
// reconstructed immutable store.
func LoadSnapshot(r io.Reader) (*Store, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("snapshot: reading header: %w", err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("snapshot: bad magic %q", magic[:])
	}

	version, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("snapshot: unsupported version %d", version)
	}

	nameLen, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(br, nameBytes); err != nil {
		return nil, err
	}
	c, ok := codec.ByName(string(nameBytes))
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown codec %q", nameBytes)
	}

	compression, err := br.ReadByte()
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch compression {
	case compressionZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("snapshot: creating decompressor: %w", err)
		}
		payload, err = io.ReadAll(dec)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("snapshot: decompressing payload: %w", err)
		}
	case compressionNone:
		payload, err = io.ReadAll(br)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("snapshot: unknown compression %d", compression)
	}

	m := make(map[model.ObjectID]model.NeighborSet)
	if err := c.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("snapshot: decoding payload: %w", err)
	}

	b := &Builder{m: m}
	// Re-normalize nil entries produced by decoders.
	for id, ns := range m {
		if ns == nil {
			m[id] = model.NeighborSet{}
		}
	}
	return b.Freeze(), nil
}
