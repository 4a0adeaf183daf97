package labelindex

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/hupe1980/neargo/model"
)

// Save persists the index to w.
// Format: [Objects: 8 bytes] [Count: 8 bytes] [Entry...]
// Entry: [LabelLen: 4 bytes] [LabelBytes] [ObjectID: 8 bytes]
func (idx *Index) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, uint64(idx.objects)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(idx.m))); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for lbl, id := range idx.m {
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(lbl))); err != nil {
			return err
		}
		if _, err := bw.WriteString(lbl); err != nil {
			return err
		}
		binary.LittleEndian.PutUint64(buf, uint64(id))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load reads an index previously written with Save.
func Load(r io.Reader) (*Index, error) {
	br := bufio.NewReader(r)

	var objects, count uint64
	if err := binary.Read(br, binary.LittleEndian, &objects); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	idx := &Index{
		m:       make(map[model.Label]model.ObjectID, count),
		objects: int(objects),
	}

	buf := make([]byte, 8)
	for i := uint64(0); i < count; i++ {
		var lblLen uint32
		if err := binary.Read(br, binary.LittleEndian, &lblLen); err != nil {
			return nil, err
		}
		lblBytes := make([]byte, lblLen)
		if _, err := io.ReadFull(br, lblBytes); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, err
		}
		idx.m[string(lblBytes)] = model.ObjectID(binary.LittleEndian.Uint64(buf))
	}

	return idx, nil
}
