package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sdfstore/codec"
	"github.com/hupe1980/sdfstore/index"
	"github.com/hupe1980/sdfstore/internal/fs"
)

func sampleIndex() *index.Index {
	ix := index.New()
	ix.IDToOffset["CHEBI:15377"] = 0
	ix.IDToOffset["CHEBI:41981"] = 421
	ix.NameToIDs["water"] = []string{"CHEBI:15377"}
	ix.NameToIDs["heavy water"] = []string{"CHEBI:41981"}
	ix.FormulaToIDs["H2O"] = []string{"CHEBI:15377"}
	ix.InChIKeyToID["XLYOFNOQVPJJNP-UHFFFAOYSA-N"] = "CHEBI:15377"
	return ix
}

func sampleManifest() Manifest {
	return Manifest{
		SourceSize:     1234,
		RecordCount:    2,
		MalformedCount: 1,
		SchemaID:       "ChEBI ID",
		CreatedAt:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	compressions := map[string]CompressionType{
		"none": CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	}

	for name, compression := range compressions {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "index.sdx")
			ix, m := sampleIndex(), sampleManifest()

			require.NoError(t, Save(path, ix, m, Options{Compression: compression}))

			loaded, lm, err := Load(path, Options{})
			require.NoError(t, err)
			assert.Equal(t, ix, loaded)
			assert.Equal(t, m, *lm)
		})
	}
}

func TestLoadSelfDescribingCodec(t *testing.T) {
	// The codec is recorded in the header, so load options need not match
	// save options.
	path := filepath.Join(t.TempDir(), "index.sdx")
	ix, m := sampleIndex(), sampleManifest()

	require.NoError(t, Save(path, ix, m, Options{Codec: codec.JSON{}}))

	loaded, lm, err := Load(path, Options{Codec: codec.GoJSON{}})
	require.NoError(t, err)
	assert.Equal(t, ix, loaded)
	assert.Equal(t, m.SchemaID, lm.SchemaID)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.sdx"), Options{})

	var corrupt *CorruptCacheError
	require.ErrorAs(t, err, &corrupt)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sdx")
	require.NoError(t, os.WriteFile(path, []byte("this is not a cache file"), 0o600))

	_, _, err := Load(path, Options{})

	var corrupt *CorruptCacheError
	require.ErrorAs(t, err, &corrupt)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestLoadTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sdx")
	require.NoError(t, Save(path, sampleIndex(), sampleManifest(), Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o600))

	_, _, err = Load(path, Options{})

	var corrupt *CorruptCacheError
	require.ErrorAs(t, err, &corrupt)
}

func TestLoadChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sdx")
	require.NoError(t, Save(path, sampleIndex(), sampleManifest(), Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-8] ^= 0xff // flip a payload byte, keep the length intact
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, _, err = Load(path, Options{})

	var corrupt *CorruptCacheError
	require.ErrorAs(t, err, &corrupt)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestLoadRecordCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sdx")
	m := sampleManifest()
	m.RecordCount = 99

	require.NoError(t, Save(path, sampleIndex(), m, Options{}))

	_, _, err := Load(path, Options{})

	var corrupt *CorruptCacheError
	require.ErrorAs(t, err, &corrupt)
	assert.Contains(t, err.Error(), "record count mismatch")
}

func TestSaveWriteFailureLeavesNoTrace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.sdx")

	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule(".tmp-", fs.Fault{FailOnWrite: true})

	err := Save(path, sampleIndex(), sampleManifest(), Options{FS: faulty})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrInjected))

	// Neither the target nor a leftover temp file may exist.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveSyncFailureLeavesNoTrace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.sdx")

	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule(".tmp-", fs.Fault{FailOnSync: true})

	err := Save(path, sampleIndex(), sampleManifest(), Options{FS: faulty})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveOverwritesExistingCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sdx")
	require.NoError(t, Save(path, sampleIndex(), sampleManifest(), Options{}))

	ix := index.New()
	ix.IDToOffset["CHEBI:16236"] = 7
	m := sampleManifest()
	m.RecordCount = 1

	require.NoError(t, Save(path, ix, m, Options{}))

	loaded, lm, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, ix, loaded)
	assert.Equal(t, 1, lm.RecordCount)
}
