package index

import "strings"

// Schema names the property fields the builder folds into the index, replacing
// the hard-coded field literals of dataset-specific parsers with explicit
// configuration.
type Schema struct {
	// IDField is the designated identifier field. Records without it are
	// parsed but contribute no index entries.
	IDField string

	// IDPrefix is the canonical identifier prefix (e.g. "CHEBI:").
	// NormalizeID prepends it to bare identifiers.
	IDPrefix string

	// NameField is the display-name field, indexed lowercased.
	NameField string

	// FormulaField is the molecular-formula field, indexed verbatim.
	FormulaField string

	// InChIField and InChIKeyField are indexed verbatim, one-to-one.
	InChIField    string
	InChIKeyField string

	// CASField holds zero or more CAS registry numbers separated by
	// ListDelimiter, indexed verbatim.
	CASField string

	// SynonymField holds zero or more alternate names separated by
	// ListDelimiter, indexed lowercased.
	SynonymField string

	// RatingField is the quality-score field. It is deliberately not indexed;
	// rating filters scan every record.
	RatingField string

	// ListDelimiter separates elements of CASField and SynonymField.
	ListDelimiter string

	// ExportFields is the default projection for tabular export.
	ExportFields []string
}

// DefaultSchema returns the ChEBI SDF field mapping.
func DefaultSchema() Schema {
	return Schema{
		IDField:       "ChEBI ID",
		IDPrefix:      "CHEBI:",
		NameField:     "ChEBI NAME",
		FormulaField:  "FORMULA",
		InChIField:    "INCHI",
		InChIKeyField: "INCHIKEY",
		CASField:      "CAS Registry Numbers",
		SynonymField:  "SYNONYM",
		RatingField:   "STAR",
		ListDelimiter: ";",
		ExportFields: []string{
			"ChEBI ID", "ChEBI NAME", "STAR", "FORMULA", "MASS",
			"SMILES", "INCHI", "INCHIKEY", "CAS Registry Numbers",
		},
	}
}

// NormalizeID converts id to canonical form by prepending IDPrefix when absent.
func (s Schema) NormalizeID(id string) string {
	if s.IDPrefix == "" || strings.HasPrefix(id, s.IDPrefix) {
		return id
	}
	return s.IDPrefix + id
}
