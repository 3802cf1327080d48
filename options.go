package sdfstore

import (
	"github.com/hupe1980/sdfstore/codec"
	"github.com/hupe1980/sdfstore/index"
	"github.com/hupe1980/sdfstore/internal/fs"
	"github.com/hupe1980/sdfstore/persistence"
	"github.com/hupe1980/sdfstore/source"
)

// Schema is the field mapping the builder indexes by. See index.Schema.
type Schema = index.Schema

// ProgressSink receives byte-progress notifications during a build.
type ProgressSink = index.ProgressSink

// ProgressFunc adapts a plain function to a ProgressSink.
type ProgressFunc func(bytesProcessed, bytesTotal int64)

// Report implements ProgressSink.
func (f ProgressFunc) Report(bytesProcessed, bytesTotal int64) {
	f(bytesProcessed, bytesTotal)
}

// Options configures a Store. Use the With* functions.
type Options struct {
	// Rebuild forces a full build pass even if a usable cache exists.
	Rebuild bool

	// CachePath overrides the persisted index location.
	// Defaults to the source path with a ".sdx" extension appended.
	CachePath string

	// Schema names the indexed fields. Defaults to the ChEBI mapping.
	Schema Schema

	// RecordCacheSize enables an LRU of hot records when > 0.
	RecordCacheSize int

	// Codec encodes the cache manifest. Defaults to codec.Default.
	Codec codec.Codec

	// Compression is applied to the cache payload. Defaults to ZSTD.
	Compression persistence.CompressionType

	// Provider guarantees the source file exists. Defaults to LocalProvider.
	Provider source.Provider

	// Progress receives build progress. Defaults to a no-op sink.
	Progress ProgressSink

	// Logger receives structured logs. Defaults to NoopLogger.
	Logger *Logger

	// Metrics receives operational metrics. Defaults to a no-op collector.
	Metrics MetricsCollector

	// FS abstracts cache file access, for tests. Defaults to the local FS.
	FS fs.FileSystem
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Schema:      index.DefaultSchema(),
		Compression: persistence.CompressionZSTD,
		Provider:    source.LocalProvider{},
		Progress:    index.NopProgress{},
		Logger:      NoopLogger(),
		Metrics:     NoopMetricsCollector{},
		FS:          fs.Default,
	}
}

// WithRebuild forces a full build pass, ignoring any existing cache.
// The cache is overwritten with the fresh result.
func WithRebuild() Option {
	return func(o *Options) { o.Rebuild = true }
}

// WithCachePath sets the persisted index location.
func WithCachePath(path string) Option {
	return func(o *Options) { o.CachePath = path }
}

// WithSchema sets the field mapping to index by.
func WithSchema(s Schema) Option {
	return func(o *Options) { o.Schema = s }
}

// WithRecordCache keeps up to capacity hot records in memory.
func WithRecordCache(capacity int) Option {
	return func(o *Options) { o.RecordCacheSize = capacity }
}

// WithCodec sets the manifest codec for newly written cache files.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) { o.Codec = c }
}

// WithCompression sets the cache payload compression.
func WithCompression(c persistence.CompressionType) Option {
	return func(o *Options) { o.Compression = c }
}

// WithProvider sets the source provider.
func WithProvider(p source.Provider) Option {
	return func(o *Options) { o.Provider = p }
}

// WithProgress sets the build progress sink.
func WithProgress(sink ProgressSink) Option {
	return func(o *Options) { o.Progress = sink }
}

// WithLogger sets the logger.
func WithLogger(l *Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m MetricsCollector) Option {
	return func(o *Options) {
		if m != nil {
			o.Metrics = m
		}
	}
}

// WithFileSystem sets the file system used for the cache artifact.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *Options) {
		if fsys != nil {
			o.FS = fsys
		}
	}
}
