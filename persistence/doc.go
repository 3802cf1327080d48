// Package persistence reads and writes the derived index cache artifact.
//
// The cache file sits next to the source file so repeated process startups
// avoid re-scanning a multi-hundred-megabyte flat file. It is never
// authoritative: any load failure is answered by rebuilding from the source.
//
// File layout, little-endian:
//
//	[Magic u32][Version u32][Compression u8][CodecNameLen u8][CodecName]
//	[ManifestLen u32][Manifest][PayloadLen u64][Payload][CRC32 u32]
//
// The manifest is codec-encoded (the codec name in the header selects the
// decoder); the payload is the compressed binary index encoding. The CRC32
// covers every byte before it. This format is implementation-private and may
// change between versions without migration support.
package persistence
