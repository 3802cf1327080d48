// Package testutil provides SDF fixture helpers for tests.
//
// This package is intended for use in tests and benchmarks only. It writes
// small, well-formed (or deliberately broken) SDF files so parser, index and
// store tests can work against real source bytes.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Compound describes one fixture record.
type Compound struct {
	ID       string
	Name     string
	Formula  string
	Mass     string
	InChI    string
	InChIKey string
	CAS      []string // joined with "; "
	Synonyms []string // joined with "; "
	Rating   string
}

// Molfile returns a minimal opaque structure block for the compound.
func (c Compound) Molfile() string {
	return fmt.Sprintf("%s\n  Testkit\n\n  0  0  0  0  0  0  0  0  0  0999 V2000\nM  END\n", c.Name)
}

// SDF renders the compound as one SDF record, ChEBI field layout.
func (c Compound) SDF() string {
	var b strings.Builder
	b.WriteString(c.Molfile())

	writeField := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "> <%s>\n%s\n\n", name, value)
	}
	writeField("ChEBI ID", c.ID)
	writeField("ChEBI NAME", c.Name)
	writeField("FORMULA", c.Formula)
	writeField("MASS", c.Mass)
	writeField("INCHI", c.InChI)
	writeField("INCHIKEY", c.InChIKey)
	writeField("CAS Registry Numbers", strings.Join(c.CAS, "; "))
	writeField("SYNONYM", strings.Join(c.Synonyms, "; "))
	writeField("STAR", c.Rating)

	b.WriteString("$$$$\n")
	return b.String()
}

// Water and HeavyWater are the canonical two-record scenario: an exact name
// search for "water" must return only Water, a substring search both.
var (
	Water = Compound{
		ID:       "CHEBI:15377",
		Name:     "water",
		Formula:  "H2O",
		Mass:     "18.01530",
		InChI:    "InChI=1S/H2O/h1H2",
		InChIKey: "XLYOFNOQVPJJNP-UHFFFAOYSA-N",
		CAS:      []string{"7732-18-5"},
		Synonyms: []string{"aqua", "dihydrogen oxide"},
		Rating:   "3",
	}

	HeavyWater = Compound{
		ID:       "CHEBI:41981",
		Name:     "heavy water",
		Formula:  "D2O",
		Mass:     "20.02760",
		InChI:    "InChI=1S/H2O/h1H2/i1D2",
		InChIKey: "XLYOFNOQVPJJNP-ZSJDYOACSA-N",
		CAS:      []string{"7789-20-0"},
		Synonyms: []string{"deuterium oxide"},
		Rating:   "2",
	}
)

// Render concatenates compounds into SDF file contents.
func Render(compounds ...Compound) string {
	var b strings.Builder
	for _, c := range compounds {
		b.WriteString(c.SDF())
	}
	return b.String()
}

// WriteSDF writes compounds to a new SDF file under tb.TempDir and returns
// its path.
func WriteSDF(tb testing.TB, compounds ...Compound) string {
	tb.Helper()
	return WriteFile(tb, Render(compounds...))
}

// WriteFile writes raw contents to a new file under tb.TempDir and returns
// its path.
func WriteFile(tb testing.TB, contents string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "fixture.sdf")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		tb.Fatalf("write fixture: %v", err)
	}
	return path
}

// GenerateCompounds produces n synthetic compounds with distinct identifiers,
// names and formulas, for benchmarks and larger fixtures.
func GenerateCompounds(n int) []Compound {
	out := make([]Compound, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Compound{
			ID:       fmt.Sprintf("CHEBI:%d", 100000+i),
			Name:     fmt.Sprintf("compound-%d", i),
			Formula:  fmt.Sprintf("C%dH%d", i%40+1, i%80+2),
			Mass:     fmt.Sprintf("%d.%04d", i%500+16, i%10000),
			InChI:    fmt.Sprintf("InChI=1S/C%dH%d", i%40+1, i%80+2),
			InChIKey: fmt.Sprintf("FAKEKEY%07d-UHFFFAOYSA-N", i),
			CAS:      []string{fmt.Sprintf("%d-%02d-%d", 1000+i, i%100, i%10)},
			Synonyms: []string{fmt.Sprintf("syn-%d-a", i), fmt.Sprintf("syn-%d-b", i)},
			Rating:   fmt.Sprintf("%d", i%5+1),
		})
	}
	return out
}
