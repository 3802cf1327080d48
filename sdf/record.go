package sdf

import (
	"strconv"
	"strings"
)

const (
	// RecordTerminator marks the end of a record.
	RecordTerminator = "$$$$"

	// StructureTerminator marks the end of the opaque molfile block.
	StructureTerminator = "M  END"

	// tagPrefix starts a property tag line, e.g. "> <ChEBI ID>".
	tagPrefix = "> <"
)

// Record is one parsed SDF record.
//
// Fields holds the tagged properties keyed by field name. If the source record
// repeats a field name, the last occurrence wins. Structure is the molfile
// block verbatim, including the terminating "M  END" line; it is never
// interpreted further.
type Record struct {
	// Offset is the byte position in the source file where this record begins.
	Offset int64

	// Fields maps property tag names to their single-line values.
	Fields map[string]string

	// Structure is the opaque molfile block, verbatim.
	Structure string
}

// Field returns the value of the named property and whether it was present.
func (r *Record) Field(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// IntField parses the named property as an integer.
// It returns false if the field is absent or not a valid integer.
func (r *Record) IntField(name string) (int, bool) {
	v, ok := r.Fields[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ListField splits the named property on delim, trimming whitespace and
// dropping empty elements. It returns nil if the field is absent.
func (r *Record) ListField(name, delim string) []string {
	v, ok := r.Fields[name]
	if !ok {
		return nil
	}
	parts := strings.Split(v, delim)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
