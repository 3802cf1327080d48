// Package source guarantees a readable flat-file database before indexing.
//
// The store never downloads or decompresses anything itself; a Provider is
// the seam where remote fetching would plug in. The built-in LocalProvider
// only verifies that the file already exists locally.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/hupe1980/sdfstore/internal/mmap"
)

// ErrUnavailable is returned when no provider could produce the source file.
var ErrUnavailable = errors.New("source: file unavailable")

// Blob is a read-only random-access handle to the source file.
//
// Implementations must support concurrent ReadAt calls; the record reader
// issues them from multiple goroutines.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the source in bytes.
	Size() int64
}

// Provider guarantees that a valid, complete source file exists at path and
// opens it for reading. Implementations that fetch remote files must finish
// (or fail) before returning; the caller treats the blob as complete.
type Provider interface {
	Ensure(ctx context.Context, path string) (Blob, error)
}

// LocalProvider opens an existing local file. It never fetches anything: a
// missing file is reported as ErrUnavailable.
//
// Files are memory-mapped for random access; if mapping fails (e.g. an
// unsupported file system) it falls back to plain pread on the file handle.
type LocalProvider struct{}

// Ensure opens the source file at path.
func (LocalProvider) Ensure(_ context.Context, path string) (Blob, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
		}
		return nil, fmt.Errorf("source: stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnavailable, path)
	}

	if m, err := mmap.Open(path); err == nil {
		return m, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	return &fileBlob{f: f, size: fi.Size()}, nil
}

type fileBlob struct {
	f    *os.File
	size int64
}

func (b *fileBlob) ReadAt(p []byte, off int64) (int, error) { return b.f.ReadAt(p, off) }
func (b *fileBlob) Close() error                            { return b.f.Close() }
func (b *fileBlob) Size() int64                             { return b.size }
