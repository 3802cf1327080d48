package persistence

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MagicNumber identifies index cache files (ASCII: "SDX1").
	MagicNumber = 0x53445831
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000

	// maxManifestLen bounds the manifest section during load so a corrupt
	// length field cannot trigger a huge allocation.
	maxManifestLen = 1 << 20
)

var (
	ErrInvalidMagic   = errors.New("persistence: invalid magic number")
	ErrInvalidVersion = errors.New("persistence: unsupported version")
	ErrUnknownCodec   = errors.New("persistence: unknown codec")
	ErrTruncated      = errors.New("persistence: truncated cache file")
)

// Manifest describes the build a cache file was produced from. It is the
// structural sanity check on load: a cache whose manifest disagrees with the
// current source file is discarded and rebuilt.
type Manifest struct {
	// SourceSize is the byte size of the source file at build time.
	SourceSize int64 `json:"source_size"`
	// RecordCount is the number of indexed identifiers.
	RecordCount int `json:"record_count"`
	// MalformedCount is the number of records skipped during the build.
	MalformedCount int `json:"malformed_count"`
	// SchemaID names the identifier field the index was keyed on.
	SchemaID string `json:"schema_id"`
	// CreatedAt is the build completion time.
	CreatedAt time.Time `json:"created_at"`
}

// CorruptCacheError reports an unusable cache file. It is always recoverable:
// the store falls back to a full rebuild and overwrites the cache.
type CorruptCacheError struct {
	Path  string
	cause error
}

func (e *CorruptCacheError) Error() string {
	return fmt.Sprintf("persistence: corrupt cache %s: %v", e.Path, e.cause)
}

func (e *CorruptCacheError) Unwrap() error { return e.cause }
