package sdf

import (
	"errors"
	"io"
)

// ErrInvalidOffset is returned for offsets outside the source file.
var ErrInvalidOffset = errors.New("sdf: offset outside source bounds")

// RecordReader retrieves a single record by its start offset.
type RecordReader interface {
	ReadAt(offset int64) (*Record, error)
}

// Reader provides random access to individual records of a source file.
//
// Each ReadAt call parses exactly one record from the given offset using an
// independent view of the source, so concurrent calls are safe as long as the
// underlying io.ReaderAt supports concurrent reads (os.File and memory
// mappings both do).
type Reader struct {
	src  io.ReaderAt
	size int64
}

// NewReader creates a Reader over src, which holds size bytes.
func NewReader(src io.ReaderAt, size int64) *Reader {
	return &Reader{src: src, size: size}
}

// ReadAt parses the record beginning at offset.
//
// The offset must be a record start offset previously produced by a Scanner
// over the same source bytes; re-reading at such an offset reproduces the
// record that was scanned there.
func (r *Reader) ReadAt(offset int64) (*Record, error) {
	if offset < 0 || offset >= r.size {
		return nil, ErrInvalidOffset
	}
	sec := io.NewSectionReader(r.src, offset, r.size-offset)
	sc := NewScannerAt(sec, offset)
	rec, err := sc.Next()
	if err == io.EOF {
		return nil, ErrInvalidOffset
	}
	return rec, err
}
