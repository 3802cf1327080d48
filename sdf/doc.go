// Package sdf implements a line-oriented parser for SDF (Structure-Data File)
// chemical databases with exact byte-offset tracking.
//
// An SDF file is a concatenation of records. Each record starts with an opaque
// molfile block terminated by the "M  END" sentinel line, followed by zero or
// more property blocks of the form "> <FIELD>" plus exactly one value line,
// and ends with the "$$$$" terminator line.
//
// Offsets are computed on the encoded byte length of each line, never on rune
// count, so a recorded start offset can be handed to a Reader for random
// access re-parsing of a single record without scanning the file.
package sdf
