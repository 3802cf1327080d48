package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Binary encoding of the Index.
//
// Layout, little-endian throughout:
//
//	IDToOffset:   [Count: 8] then per entry [Key][Offset: 8]
//	multi maps:   [Count: 8] then per entry [Key][N: 4][Value...]
//	single maps:  [Count: 8] then per entry [Key][Value]
//	strings:      [Len: 4][Bytes]
//
// The maps are written in a fixed order. This is an implementation-private
// format wrapped by the persistence layer; it carries no header of its own.

// Save writes the index to w.
func (ix *Index) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, uint64(len(ix.IDToOffset))); err != nil {
		return err
	}
	for id, off := range ix.IDToOffset {
		if err := writeString(bw, id); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint64(off)); err != nil {
			return err
		}
	}

	for _, m := range []map[string][]string{ix.NameToIDs, ix.SynonymToIDs, ix.FormulaToIDs, ix.CASToIDs} {
		if err := writeMultiMap(bw, m); err != nil {
			return err
		}
	}
	for _, m := range []map[string]string{ix.InChIKeyToID, ix.InChIToID} {
		if err := writeStringMap(bw, m); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load populates the index from r, replacing any prior contents.
func (ix *Index) Load(r io.Reader) error {
	br := bufio.NewReader(r)

	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("index: read id map count: %w", err)
	}
	ix.IDToOffset = make(map[string]int64, count)
	for i := uint64(0); i < count; i++ {
		id, err := readString(br)
		if err != nil {
			return err
		}
		var off uint64
		if err := binary.Read(br, binary.LittleEndian, &off); err != nil {
			return err
		}
		ix.IDToOffset[id] = int64(off)
	}

	multi := []*map[string][]string{&ix.NameToIDs, &ix.SynonymToIDs, &ix.FormulaToIDs, &ix.CASToIDs}
	for _, m := range multi {
		loaded, err := readMultiMap(br)
		if err != nil {
			return err
		}
		*m = loaded
	}

	single := []*map[string]string{&ix.InChIKeyToID, &ix.InChIToID}
	for _, m := range single {
		loaded, err := readStringMap(br)
		if err != nil {
			return err
		}
		*m = loaded
	}

	return nil
}

func writeMultiMap(w io.Writer, m map[string][]string) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(m))); err != nil {
		return err
	}
	for key, ids := range m {
		if err := writeString(w, key); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(ids))); err != nil {
			return err
		}
		for _, id := range ids {
			if err := writeString(w, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func readMultiMap(r io.Reader) (map[string][]string, error) {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("index: read map count: %w", err)
	}
	m := make(map[string][]string, count)
	for i := uint64(0); i < count; i++ {
		key, err := readString(r)
		if err != nil {
			return nil, err
		}
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		ids := make([]string, n)
		for j := uint32(0); j < n; j++ {
			if ids[j], err = readString(r); err != nil {
				return nil, err
			}
		}
		m[key] = ids
	}
	return m, nil
}

func writeStringMap(w io.Writer, m map[string]string) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(m))); err != nil {
		return err
	}
	for key, val := range m {
		if err := writeString(w, key); err != nil {
			return err
		}
		if err := writeString(w, val); err != nil {
			return err
		}
	}
	return nil
}

func readStringMap(r io.Reader) (map[string]string, error) {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("index: read map count: %w", err)
	}
	m := make(map[string]string, count)
	for i := uint64(0); i < count; i++ {
		key, err := readString(r)
		if err != nil {
			return nil, err
		}
		val, err := readString(r)
		if err != nil {
			return nil, err
		}
		m[key] = val
	}
	return m, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("index: read string length: %w", err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("index: read string: %w", err)
	}
	return string(buf), nil
}
