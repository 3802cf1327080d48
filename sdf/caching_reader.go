package sdf

import (
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/sdfstore/internal/cache"
)

// CachingReader wraps a RecordReader with an LRU of hot records.
//
// Caching is explicit composition: callers that want transparent caching wrap
// their reader, everything else keeps talking to the plain Reader. Concurrent
// reads of the same offset are collapsed into a single underlying read.
//
// Cached records are shared between callers and must be treated as read-only.
type CachingReader struct {
	inner RecordReader
	lru   *cache.LRU[int64, *Record]
	group singleflight.Group
}

// NewCachingReader creates a CachingReader holding at most capacity records.
func NewCachingReader(inner RecordReader, capacity int) *CachingReader {
	return &CachingReader{
		inner: inner,
		lru:   cache.NewLRU[int64, *Record](capacity),
	}
}

// ReadAt returns the record at offset, from cache when possible.
func (r *CachingReader) ReadAt(offset int64) (*Record, error) {
	if rec, ok := r.lru.Get(offset); ok {
		return rec, nil
	}

	v, err, _ := r.group.Do(strconv.FormatInt(offset, 10), func() (any, error) {
		rec, err := r.inner.ReadAt(offset)
		if err != nil {
			return nil, err
		}
		r.lru.Set(offset, rec)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Purge drops all cached records.
func (r *CachingReader) Purge() {
	r.lru.Purge()
}

// CacheStats returns cumulative cache hit and miss counts.
func (r *CachingReader) CacheStats() (hits, misses int64) {
	return r.lru.Stats()
}
