// Package sdfstore provides an offline indexed record store for SDF chemical
// databases.
//
// The store ingests a record-oriented flat file (hundreds of thousands of
// records, each an opaque structure block plus tagged properties), builds
// several lookup indices over it in one pass, persists those indices next to
// the source file, and answers point and partial-match queries by seeking
// directly into the source file instead of holding the dataset in memory.
//
// # Quick Start
//
//	ctx := context.Background()
//	store, err := sdfstore.Open(ctx, "chebi.sdf",
//	    sdfstore.WithRecordCache(1024),
//	    sdfstore.WithLogger(sdfstore.NewTextLogger(slog.LevelInfo)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	water, err := store.GetByID("CHEBI:15377")
//	if errors.Is(err, sdfstore.ErrNotFound) {
//	    // absence is a normal outcome
//	}
//
//	hits, err := store.SearchByName("water", false) // substring match
//
// The first Open scans the whole source file; subsequent opens reload the
// persisted index cache and are fast. A corrupt or stale cache is silently
// rebuilt. Once Open returns, the store is immutable: every query is a pure
// read and safe for concurrent use.
package sdfstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/sdfstore/index"
	"github.com/hupe1980/sdfstore/persistence"
	"github.com/hupe1980/sdfstore/sdf"
	"github.com/hupe1980/sdfstore/source"
)

// Stats holds the cardinality of each lookup map. See index.Stats.
type Stats = index.Stats

// Store is an indexed view over one SDF source file.
//
// A Store is created Ready: Open either returns a queryable store or an
// error, never a half-initialized object. All query methods are safe for
// concurrent use; Rebuild swaps the index atomically.
type Store struct {
	path      string
	cachePath string
	opts      Options

	blob    source.Blob
	reader  sdf.RecordReader
	hotRecs *sdf.CachingReader // nil unless WithRecordCache

	mu       sync.RWMutex
	ix       *index.Index
	manifest persistence.Manifest

	closed atomic.Bool
}

// Open initializes a store over the source file at path.
//
// Unless WithRebuild is given, a persisted index cache adjacent to the source
// file is tried first; a missing, corrupt, or stale cache falls back to a
// full build pass that overwrites the cache. Open fails only when the source
// file is unavailable (ErrSourceUnavailable) or the build pass itself fails.
func Open(ctx context.Context, path string, options ...Option) (*Store, error) {
	opts := defaultOptions()
	for _, o := range options {
		o(&opts)
	}
	if opts.CachePath == "" {
		opts.CachePath = path + ".sdx"
	}

	blob, err := opts.Provider.Ensure(ctx, path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:      path,
		cachePath: opts.CachePath,
		opts:      opts,
		blob:      blob,
	}

	reader := sdf.NewReader(blob, blob.Size())
	s.reader = reader
	if opts.RecordCacheSize > 0 {
		s.hotRecs = sdf.NewCachingReader(reader, opts.RecordCacheSize)
		s.reader = s.hotRecs
	}

	if !opts.Rebuild && s.loadCache() {
		return s, nil
	}

	if err := s.rebuild(ctx); err != nil {
		_ = blob.Close()
		return nil, err
	}
	return s, nil
}

// loadCache tries to reuse the persisted index. It reports success; every
// failure mode is recovered by a rebuild and never surfaced to the caller.
func (s *Store) loadCache() bool {
	ix, m, err := persistence.Load(s.cachePath, persistence.Options{
		Codec: s.opts.Codec,
		FS:    s.opts.FS,
	})
	if err != nil {
		s.opts.Logger.LogCacheLoad(s.cachePath, 0, err)
		return false
	}
	if m.SourceSize != s.blob.Size() || m.SchemaID != s.opts.Schema.IDField {
		s.opts.Logger.LogCacheLoad(s.cachePath, 0,
			fmt.Errorf("cache is stale (source size %d vs %d, schema %q vs %q)",
				m.SourceSize, s.blob.Size(), m.SchemaID, s.opts.Schema.IDField))
		return false
	}

	s.mu.Lock()
	s.ix, s.manifest = ix, *m
	s.mu.Unlock()

	s.opts.Logger.LogCacheLoad(s.cachePath, m.RecordCount, nil)
	return true
}

// rebuild runs one full build pass and overwrites the cache.
// A failed cache write is logged but does not fail the build; the cache is a
// derived artifact and will be written again next time.
func (s *Store) rebuild(ctx context.Context) error {
	start := time.Now()

	sec := io.NewSectionReader(s.blob, 0, s.blob.Size())
	ix, info, err := index.Build(ctx, sec, s.blob.Size(), s.opts.Schema, s.opts.Progress)
	if err != nil {
		s.opts.Metrics.RecordBuild(0, 0, time.Since(start), err)
		s.opts.Logger.LogBuild(0, 0, 0, 0, time.Since(start), err)
		return err
	}
	s.opts.Metrics.RecordBuild(info.Records, info.Malformed, time.Since(start), nil)
	s.opts.Logger.LogBuild(info.Records, info.Indexed, info.Malformed, info.Bytes, time.Since(start), nil)

	m := persistence.Manifest{
		SourceSize:     s.blob.Size(),
		RecordCount:    len(ix.IDToOffset),
		MalformedCount: info.Malformed,
		SchemaID:       s.opts.Schema.IDField,
		CreatedAt:      time.Now().UTC(),
	}
	saveErr := persistence.Save(s.cachePath, ix, m, persistence.Options{
		Codec:       s.opts.Codec,
		Compression: s.opts.Compression,
		FS:          s.opts.FS,
	})
	s.opts.Logger.LogCacheSave(s.cachePath, saveErr)

	s.mu.Lock()
	s.ix, s.manifest = ix, m
	s.mu.Unlock()

	if s.hotRecs != nil {
		s.hotRecs.Purge()
	}
	return nil
}

// Rebuild discards the current index, runs a full build pass over the source
// file, and overwrites the cache. Queries observe either the old index or the
// new one, never a partial state. If the build fails the old index stays in
// place and the error is returned.
func (s *Store) Rebuild(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.rebuild(ctx)
}

// Close releases the source file handle. Queries on a closed store return
// ErrClosed.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.blob.Close()
}

// index returns the current immutable index snapshot.
func (s *Store) index() *index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ix
}

// GetByID returns the record with the given identifier.
//
// The identifier is normalized to canonical form first (the schema prefix is
// prepended when absent), so "15377" and "CHEBI:15377" address the same
// record under the default schema. Absence is reported as ErrNotFound.
func (s *Store) GetByID(id string) (*sdf.Record, error) {
	start := time.Now()
	rec, err := s.getByID(id)
	s.opts.Metrics.RecordLookup(time.Since(start), err)
	return rec, err
}

func (s *Store) getByID(id string) (*sdf.Record, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	canonical := s.opts.Schema.NormalizeID(id)
	off, ok := s.index().IDToOffset[canonical]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, canonical)
	}
	return s.reader.ReadAt(off)
}

// GetMany returns one entry per input identifier, preserving input order.
// Identifiers absent from the index yield a nil entry, not an error.
func (s *Store) GetMany(ids []string) ([]*sdf.Record, error) {
	out := make([]*sdf.Record, len(ids))
	for i, id := range ids {
		rec, err := s.GetByID(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[i] = rec
	}
	return out, nil
}

// SearchByName returns records whose name matches the query.
//
// Exact mode is a single map lookup on the lowercased name. Non-exact mode
// scans every distinct indexed name for case-insensitive substring
// containment and unions the matches: O(distinct names), not O(1).
func (s *Store) SearchByName(name string, exact bool) ([]*sdf.Record, error) {
	return s.searchMulti("name", func(ix *index.Index) map[string][]string { return ix.NameToIDs },
		strings.ToLower(name), exact)
}

// SearchBySynonym returns records with a matching synonym. Same shape and
// cost model as SearchByName.
func (s *Store) SearchBySynonym(synonym string, exact bool) ([]*sdf.Record, error) {
	return s.searchMulti("synonym", func(ix *index.Index) map[string][]string { return ix.SynonymToIDs },
		strings.ToLower(synonym), exact)
}

// SearchByCAS returns records with a matching CAS registry number.
func (s *Store) SearchByCAS(cas string, exact bool) ([]*sdf.Record, error) {
	return s.searchMulti("cas", func(ix *index.Index) map[string][]string { return ix.CASToIDs },
		cas, exact)
}

// SearchByFormula returns records with a matching molecular formula.
func (s *Store) SearchByFormula(formula string, exact bool) ([]*sdf.Record, error) {
	return s.searchMulti("formula", func(ix *index.Index) map[string][]string { return ix.FormulaToIDs },
		formula, exact)
}

func (s *Store) searchMulti(kind string, pick func(*index.Index) map[string][]string, query string, exact bool) ([]*sdf.Record, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()

	m := pick(s.index())
	var ids []string
	if exact {
		ids = m[query]
	} else {
		lower := strings.ToLower(query)
		seen := make(map[string]struct{})
		for key, keyIDs := range m {
			if !strings.Contains(strings.ToLower(key), lower) {
				continue
			}
			for _, id := range keyIDs {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		// Map iteration order is random; keep results stable.
		sort.Strings(ids)
	}

	records, err := s.resolve(ids)
	if err != nil {
		return nil, err
	}
	s.opts.Metrics.RecordSearch(kind, len(records), time.Since(start))
	return records, nil
}

// resolve reads the records behind already-indexed identifiers.
func (s *Store) resolve(ids []string) ([]*sdf.Record, error) {
	records := make([]*sdf.Record, 0, len(ids))
	ix := s.index()
	for _, id := range ids {
		off, ok := ix.IDToOffset[id]
		if !ok {
			// An index map referenced an id the offset map lacks; skip it.
			continue
		}
		rec, err := s.reader.ReadAt(off)
		if err != nil {
			return nil, fmt.Errorf("sdfstore: read record %s: %w", id, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// SearchByInChIKey returns the record with the given InChIKey, or ErrNotFound.
func (s *Store) SearchByInChIKey(key string) (*sdf.Record, error) {
	return s.searchSingle(func(ix *index.Index) map[string]string { return ix.InChIKeyToID }, key)
}

// SearchByInChI returns the record with the given InChI, or ErrNotFound.
func (s *Store) SearchByInChI(inchi string) (*sdf.Record, error) {
	return s.searchSingle(func(ix *index.Index) map[string]string { return ix.InChIToID }, inchi)
}

func (s *Store) searchSingle(pick func(*index.Index) map[string]string, key string) (*sdf.Record, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	id, ok := pick(s.index())[key]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNotFound, key)
		s.opts.Metrics.RecordLookup(time.Since(start), err)
		return nil, err
	}
	rec, err := s.getByID(id)
	s.opts.Metrics.RecordLookup(time.Since(start), err)
	return rec, err
}

// FilterByMinRating returns the identifiers of all records whose rating field
// is at least minRating, in sorted order.
//
// Rating is deliberately not indexed: this is the one O(n) full-table
// operation in the engine, reading every indexed record from the source file.
// The context is checked periodically so a long scan can be abandoned.
func (s *Store) FilterByMinRating(ctx context.Context, minRating int) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	ix := s.index()
	var out []string
	checked := 0
	for id, off := range ix.IDToOffset {
		if checked%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		checked++

		rec, err := s.reader.ReadAt(off)
		if err != nil {
			return nil, fmt.Errorf("sdfstore: read record %s: %w", id, err)
		}
		if rating, ok := rec.IntField(s.opts.Schema.RatingField); ok && rating >= minRating {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Export projects the requested fields of each identified record into rows
// handed to sink. A nil ids slice exports every indexed record (sorted by
// identifier); a nil fields slice uses the schema's default export fields.
// Identifiers absent from the index are skipped. Absent fields are nil.
func (s *Store) Export(ctx context.Context, sink RowSink, ids []string, fields []string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	start := time.Now()

	if fields == nil {
		fields = s.opts.Schema.ExportFields
	}
	if ids == nil {
		ix := s.index()
		ids = make([]string, 0, len(ix.IDToOffset))
		for id := range ix.IDToOffset {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}

	rows := 0
	for i, id := range ids {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				s.opts.Metrics.RecordExport(rows, time.Since(start), err)
				return err
			}
		}

		rec, err := s.getByID(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			s.opts.Metrics.RecordExport(rows, time.Since(start), err)
			return err
		}

		row := make(Row, len(fields))
		for _, field := range fields {
			if v, ok := rec.Field(field); ok {
				row[field] = v
			} else {
				row[field] = nil
			}
		}
		if err := sink.Append(row); err != nil {
			s.opts.Metrics.RecordExport(rows, time.Since(start), err)
			return err
		}
		rows++
	}

	s.opts.Metrics.RecordExport(rows, time.Since(start), nil)
	return nil
}

// ExportTable is Export into an in-memory Table.
func (s *Store) ExportTable(ctx context.Context, ids []string, fields []string) (*Table, error) {
	if fields == nil {
		fields = s.opts.Schema.ExportFields
	}
	table := NewTable(fields)
	if err := s.Export(ctx, table, ids, fields); err != nil {
		return nil, err
	}
	return table, nil
}

// Stats returns the cardinality of each index map.
func (s *Store) Stats() Stats {
	return s.index().Stats()
}

// Manifest describes the build the current index came from.
func (s *Store) Manifest() persistence.Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest
}

// Path returns the source file path.
func (s *Store) Path() string { return s.path }

// CachePath returns the persisted index location.
func (s *Store) CachePath() string { return s.cachePath }
