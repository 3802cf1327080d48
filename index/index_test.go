package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/sdfstore/sdf"
)

func record(offset int64, fields map[string]string) *sdf.Record {
	return &sdf.Record{Offset: offset, Fields: fields}
}

func TestIndexAddKeyingRules(t *testing.T) {
	schema := DefaultSchema()
	ix := New()

	added := ix.Add(record(0, map[string]string{
		"ChEBI ID":             "CHEBI:15377",
		"ChEBI NAME":           "Water",
		"FORMULA":              "H2O",
		"INCHI":                "InChI=1S/H2O/h1H2",
		"INCHIKEY":             "XLYOFNOQVPJJNP-UHFFFAOYSA-N",
		"CAS Registry Numbers": "7732-18-5; 558-43-0",
		"SYNONYM":              "Aqua; Dihydrogen Oxide",
	}), schema)
	assert.True(t, added)

	assert.Equal(t, int64(0), ix.IDToOffset["CHEBI:15377"])
	// Names and synonyms are lowercased; formula and CAS are verbatim.
	assert.Equal(t, []string{"CHEBI:15377"}, ix.NameToIDs["water"])
	assert.Empty(t, ix.NameToIDs["Water"])
	assert.Equal(t, []string{"CHEBI:15377"}, ix.SynonymToIDs["aqua"])
	assert.Equal(t, []string{"CHEBI:15377"}, ix.SynonymToIDs["dihydrogen oxide"])
	assert.Equal(t, []string{"CHEBI:15377"}, ix.FormulaToIDs["H2O"])
	assert.Equal(t, []string{"CHEBI:15377"}, ix.CASToIDs["7732-18-5"])
	assert.Equal(t, []string{"CHEBI:15377"}, ix.CASToIDs["558-43-0"])
	assert.Equal(t, "CHEBI:15377", ix.InChIKeyToID["XLYOFNOQVPJJNP-UHFFFAOYSA-N"])
	assert.Equal(t, "CHEBI:15377", ix.InChIToID["InChI=1S/H2O/h1H2"])
}

func TestIndexAddWithoutID(t *testing.T) {
	ix := New()
	added := ix.Add(record(0, map[string]string{"ChEBI NAME": "orphan"}), DefaultSchema())
	assert.False(t, added)
	assert.Empty(t, ix.IDToOffset)
	assert.Empty(t, ix.NameToIDs)
}

func TestIndexDuplicateKeysAppend(t *testing.T) {
	schema := DefaultSchema()
	ix := New()

	ix.Add(record(0, map[string]string{"ChEBI ID": "CHEBI:1", "FORMULA": "C6H6"}), schema)
	ix.Add(record(100, map[string]string{"ChEBI ID": "CHEBI:2", "FORMULA": "C6H6"}), schema)

	// Multi-valued maps accumulate, not deduplicate.
	assert.Equal(t, []string{"CHEBI:1", "CHEBI:2"}, ix.FormulaToIDs["C6H6"])
}

func TestIndexInChIKeyLastWriterWins(t *testing.T) {
	schema := DefaultSchema()
	ix := New()

	ix.Add(record(0, map[string]string{"ChEBI ID": "CHEBI:1", "INCHIKEY": "KEY"}), schema)
	ix.Add(record(100, map[string]string{"ChEBI ID": "CHEBI:2", "INCHIKEY": "KEY"}), schema)

	assert.Equal(t, "CHEBI:2", ix.InChIKeyToID["KEY"])
}

func TestIndexStats(t *testing.T) {
	schema := DefaultSchema()
	ix := New()

	ix.Add(record(0, map[string]string{
		"ChEBI ID": "CHEBI:1", "ChEBI NAME": "one", "FORMULA": "A", "INCHIKEY": "K1",
	}), schema)
	ix.Add(record(50, map[string]string{
		"ChEBI ID": "CHEBI:2", "ChEBI NAME": "two", "FORMULA": "A",
		"CAS Registry Numbers": "1-2-3",
	}), schema)

	stats := ix.Stats()
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.WithInChIKey)
	assert.Equal(t, 0, stats.WithInChI)
	assert.Equal(t, 1, stats.WithCAS)
	assert.Equal(t, 1, stats.UniqueFormulas)
	assert.Equal(t, 2, stats.IndexedNames)
	assert.Equal(t, 0, stats.IndexedSynonyms)
}

func TestSchemaNormalizeID(t *testing.T) {
	schema := DefaultSchema()
	assert.Equal(t, "CHEBI:15377", schema.NormalizeID("15377"))
	assert.Equal(t, "CHEBI:15377", schema.NormalizeID("CHEBI:15377"))

	bare := Schema{}
	assert.Equal(t, "15377", bare.NormalizeID("15377"))
}
