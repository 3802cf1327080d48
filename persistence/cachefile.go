package persistence

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/sdfstore/codec"
	"github.com/hupe1980/sdfstore/index"
	"github.com/hupe1980/sdfstore/internal/fs"
)

// Options configures cache file reads and writes.
type Options struct {
	// Codec encodes the manifest. Defaults to codec.Default.
	Codec codec.Codec

	// Compression is applied to the index payload on save. The zero value
	// stores the payload uncompressed. On load the file header decides.
	Compression CompressionType

	// FS abstracts the file system. Defaults to the local one.
	FS fs.FileSystem
}

func (o *Options) defaults() {
	if o.Codec == nil {
		o.Codec = codec.Default
	}
	if o.FS == nil {
		o.FS = fs.Default
	}
}

// Save writes the index and its manifest to path atomically: the file is
// written to a temporary name, synced, then renamed over the target. A crash
// mid-write never corrupts a previously valid cache.
func Save(path string, ix *index.Index, m Manifest, opts Options) error {
	opts.defaults()

	manifestBytes, err := opts.Codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("persistence: encode manifest: %w", err)
	}

	var payload bytes.Buffer
	if err := ix.Save(&payload); err != nil {
		return fmt.Errorf("persistence: encode index: %w", err)
	}
	block, err := compressBlock(payload.Bytes(), opts.Compression)
	if err != nil {
		return fmt.Errorf("persistence: compress index: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := opts.FS.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persistence: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = opts.FS.Remove(tmpName)
	}

	bw := bufio.NewWriter(tmp)
	cw := NewChecksumWriter(bw)

	codecName := opts.Codec.Name()
	if err := writeHeader(cw, opts.Compression, codecName); err != nil {
		cleanup()
		return err
	}
	if err := binary.Write(cw, binary.LittleEndian, uint32(len(manifestBytes))); err != nil {
		cleanup()
		return err
	}
	if _, err := cw.Write(manifestBytes); err != nil {
		cleanup()
		return err
	}
	if err := binary.Write(cw, binary.LittleEndian, uint64(len(block))); err != nil {
		cleanup()
		return err
	}
	if _, err := cw.Write(block); err != nil {
		cleanup()
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, cw.Sum()); err != nil {
		cleanup()
		return err
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("persistence: sync cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = opts.FS.Remove(tmpName)
		return fmt.Errorf("persistence: close cache: %w", err)
	}
	if err := opts.FS.Rename(tmpName, path); err != nil {
		_ = opts.FS.Remove(tmpName)
		return fmt.Errorf("persistence: replace cache: %w", err)
	}
	return nil
}

// Load reads a cache file and reconstructs the index and its manifest.
//
// Every failure mode (missing file, bad magic or version, unknown codec,
// checksum mismatch, truncation) is reported as a *CorruptCacheError; callers
// recover by rebuilding from the source file.
func Load(path string, opts Options) (*index.Index, *Manifest, error) {
	opts.defaults()

	f, err := opts.FS.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: err}
	}
	defer f.Close()

	cr := NewChecksumReader(bufio.NewReader(f))

	compression, codecName, err := readHeader(cr)
	if err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: err}
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)}
	}

	var manifestLen uint32
	if err := binary.Read(cr, binary.LittleEndian, &manifestLen); err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("%w: manifest length: %v", ErrTruncated, err)}
	}
	if manifestLen > maxManifestLen {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("manifest length %d out of range", manifestLen)}
	}
	manifestBytes := make([]byte, manifestLen)
	if _, err := io.ReadFull(cr, manifestBytes); err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("%w: manifest: %v", ErrTruncated, err)}
	}
	var m Manifest
	if err := c.Unmarshal(manifestBytes, &m); err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("decode manifest: %w", err)}
	}

	var payloadLen uint64
	if err := binary.Read(cr, binary.LittleEndian, &payloadLen); err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("%w: payload length: %v", ErrTruncated, err)}
	}
	block := make([]byte, payloadLen)
	if _, err := io.ReadFull(cr, block); err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("%w: payload: %v", ErrTruncated, err)}
	}

	sum := cr.Sum()
	var stored uint32
	if err := binary.Read(cr, binary.LittleEndian, &stored); err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("%w: checksum: %v", ErrTruncated, err)}
	}
	if stored != sum {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("checksum mismatch: expected 0x%08x, got 0x%08x", stored, sum)}
	}

	payload, err := decompressBlock(block, compression)
	if err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: err}
	}

	ix := index.New()
	if err := ix.Load(bytes.NewReader(payload)); err != nil {
		return nil, nil, &CorruptCacheError{Path: path, cause: err}
	}
	if len(ix.IDToOffset) != m.RecordCount {
		return nil, nil, &CorruptCacheError{Path: path, cause: fmt.Errorf("record count mismatch: manifest %d, index %d", m.RecordCount, len(ix.IDToOffset))}
	}

	return ix, &m, nil
}

func writeHeader(w io.Writer, compression CompressionType, codecName string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(MagicNumber)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(Version)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(compression)); err != nil {
		return err
	}
	if len(codecName) > 255 {
		return fmt.Errorf("persistence: codec name too long: %q", codecName)
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(codecName))); err != nil {
		return err
	}
	_, err := io.WriteString(w, codecName)
	return err
}

func readHeader(r io.Reader) (CompressionType, string, error) {
	var magic, version uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return 0, "", fmt.Errorf("%w: magic: %v", ErrTruncated, err)
	}
	if magic != MagicNumber {
		return 0, "", ErrInvalidMagic
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return 0, "", fmt.Errorf("%w: version: %v", ErrTruncated, err)
	}
	if version != Version {
		return 0, "", fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, version)
	}
	var compression, nameLen uint8
	if err := binary.Read(r, binary.LittleEndian, &compression); err != nil {
		return 0, "", fmt.Errorf("%w: compression: %v", ErrTruncated, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return 0, "", fmt.Errorf("%w: codec name length: %v", ErrTruncated, err)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return 0, "", fmt.Errorf("%w: codec name: %v", ErrTruncated, err)
	}
	return CompressionType(compression), string(name), nil
}
