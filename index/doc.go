// Package index builds and holds the lookup maps of the record store.
//
// The Index is a derived, read-only snapshot produced by one linear pass over
// the source file. It maps the primary identifier to the record's byte offset
// and maintains secondary maps for names, synonyms, formulas, CAS registry
// numbers, InChI and InChIKey. Once built it is never mutated; a fresh Index
// is only ever obtained through another full build.
package index
