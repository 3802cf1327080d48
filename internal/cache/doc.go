// Package cache provides a small generic LRU cache.
//
// It backs the record-level hot cache: recently read records are kept in
// memory keyed by their file offset so repeated point lookups avoid touching
// the source file.
package cache
