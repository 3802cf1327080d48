package index

import (
	"strings"

	"github.com/hupe1980/sdfstore/sdf"
)

// Index is the collection of lookup maps built from one pass over the source
// file. After the build completes it is read-only and safe to share across
// goroutines without locking.
type Index struct {
	// IDToOffset maps the primary identifier to the byte offset where the
	// record begins. One-to-one: re-reading at the offset reproduces the
	// record carrying that identifier.
	IDToOffset map[string]int64

	// Many-to-many maps. Name and synonym keys are lowercased; formula and
	// CAS keys are verbatim. Duplicate identifiers under one key are kept as
	// the source delivered them, not deduplicated.
	NameToIDs    map[string][]string
	SynonymToIDs map[string][]string
	FormulaToIDs map[string][]string
	CASToIDs     map[string][]string

	// Assumed one-to-one; the last writer wins if the source violates that.
	InChIKeyToID map[string]string
	InChIToID    map[string]string
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		IDToOffset:   make(map[string]int64),
		NameToIDs:    make(map[string][]string),
		SynonymToIDs: make(map[string][]string),
		FormulaToIDs: make(map[string][]string),
		CASToIDs:     make(map[string][]string),
		InChIKeyToID: make(map[string]string),
		InChIToID:    make(map[string]string),
	}
}

// Add folds one parsed record into the index per the schema's keying rules.
// It reports whether the record carried the identifier field and was indexed.
func (ix *Index) Add(rec *sdf.Record, schema Schema) bool {
	id, ok := rec.Field(schema.IDField)
	if !ok || id == "" {
		return false
	}
	ix.IDToOffset[id] = rec.Offset

	if name, ok := rec.Field(schema.NameField); ok && name != "" {
		key := strings.ToLower(name)
		ix.NameToIDs[key] = append(ix.NameToIDs[key], id)
	}
	if key, ok := rec.Field(schema.InChIKeyField); ok && key != "" {
		ix.InChIKeyToID[key] = id
	}
	if inchi, ok := rec.Field(schema.InChIField); ok && inchi != "" {
		ix.InChIToID[inchi] = id
	}
	if formula, ok := rec.Field(schema.FormulaField); ok && formula != "" {
		ix.FormulaToIDs[formula] = append(ix.FormulaToIDs[formula], id)
	}
	for _, cas := range rec.ListField(schema.CASField, schema.ListDelimiter) {
		ix.CASToIDs[cas] = append(ix.CASToIDs[cas], id)
	}
	for _, syn := range rec.ListField(schema.SynonymField, schema.ListDelimiter) {
		key := strings.ToLower(syn)
		ix.SynonymToIDs[key] = append(ix.SynonymToIDs[key], id)
	}
	return true
}

// Stats holds the cardinality of each lookup map.
type Stats struct {
	TotalRecords    int `json:"total_records"`
	WithInChIKey    int `json:"with_inchikey"`
	WithInChI       int `json:"with_inchi"`
	WithCAS         int `json:"with_cas"`
	UniqueFormulas  int `json:"unique_formulas"`
	IndexedNames    int `json:"indexed_names"`
	IndexedSynonyms int `json:"indexed_synonyms"`
}

// Stats returns the cardinality of each map.
func (ix *Index) Stats() Stats {
	return Stats{
		TotalRecords:    len(ix.IDToOffset),
		WithInChIKey:    len(ix.InChIKeyToID),
		WithInChI:       len(ix.InChIToID),
		WithCAS:         len(ix.CASToIDs),
		UniqueFormulas:  len(ix.FormulaToIDs),
		IndexedNames:    len(ix.NameToIDs),
		IndexedSynonyms: len(ix.SynonymToIDs),
	}
}
