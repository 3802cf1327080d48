package sdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// MalformedRecordError reports a record that could not be parsed to
// completion. The scanner has already resynchronized at the next record
// terminator it could find, so scanning may continue past the error.
type MalformedRecordError struct {
	// Offset is the byte position where the bad record began.
	Offset int64
	// Reason describes what went wrong.
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("sdf: malformed record at offset %d: %s", e.Offset, e.Reason)
}

// Scanner reads SDF records sequentially from a byte stream.
//
// The scanner owns its read position: Offset reports the number of bytes
// consumed so far relative to the scanner's base offset, computed on encoded
// byte length so record start offsets are exact for later random access.
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	br     *bufio.Reader
	offset int64
}

// NewScanner creates a Scanner reading from r, with offsets starting at 0.
func NewScanner(r io.Reader) *Scanner {
	return NewScannerAt(r, 0)
}

// NewScannerAt creates a Scanner whose reported offsets start at base.
// Use this when r does not begin at the start of the source file.
func NewScannerAt(r io.Reader, base int64) *Scanner {
	return &Scanner{
		br:     bufio.NewReaderSize(r, 64*1024),
		offset: base,
	}
}

// Offset returns the byte offset of the next unread line.
func (s *Scanner) Offset() int64 {
	return s.offset
}

// Next parses and returns the next record.
//
// It returns io.EOF at a clean end of stream. If a record cannot be parsed to
// completion (missing terminator, truncated property block), Next returns a
// *MalformedRecordError and leaves the scanner positioned after the next
// terminator it could recognize, so one bad record never aborts a full scan.
func (s *Scanner) Next() (*Record, error) {
	// Skip blank separator lines between records.
	var (
		start int64
		line  []byte
		err   error
	)
	for {
		start = s.offset
		line, err = s.readLine()
		if err == io.EOF && line == nil {
			return nil, io.EOF
		}
		if err != nil && line == nil {
			return nil, err
		}
		if len(trimEOL(line)) > 0 {
			break
		}
		if err == io.EOF {
			return nil, io.EOF
		}
	}

	rec := &Record{
		Offset: start,
		Fields: make(map[string]string),
	}

	// Structure block: verbatim up to and including "M  END".
	var structure strings.Builder
	for {
		content := string(trimEOL(line))
		if content == RecordTerminator {
			// Terminator before the structure ended. The terminator itself is
			// the resynchronization point, so nothing more to skip.
			return nil, &MalformedRecordError{Offset: start, Reason: "record terminator inside structure block"}
		}
		structure.Write(line)
		if content == StructureTerminator {
			break
		}
		if err == io.EOF {
			return nil, &MalformedRecordError{Offset: start, Reason: "end of stream inside structure block"}
		}
		line, err = s.readLine()
		if err != nil && line == nil {
			if err == io.EOF {
				return nil, &MalformedRecordError{Offset: start, Reason: "end of stream inside structure block"}
			}
			return nil, err
		}
	}
	rec.Structure = sanitize(structure.String())

	// Property blocks up to the record terminator.
	for {
		if err == io.EOF {
			return nil, &MalformedRecordError{Offset: start, Reason: "end of stream before record terminator"}
		}
		line, err = s.readLine()
		if err != nil && line == nil {
			if err == io.EOF {
				return nil, &MalformedRecordError{Offset: start, Reason: "end of stream before record terminator"}
			}
			return nil, err
		}
		content := strings.TrimSpace(sanitize(string(trimEOL(line))))

		switch {
		case content == RecordTerminator:
			return rec, nil

		case strings.HasPrefix(content, tagPrefix):
			name := tagName(content)
			if name == "" {
				// Unparseable tag line, treat as noise.
				continue
			}
			if err == io.EOF {
				return nil, &MalformedRecordError{Offset: start, Reason: "property tag without value line"}
			}
			value, verr := s.readLine()
			if verr != nil && value == nil {
				if verr == io.EOF {
					return nil, &MalformedRecordError{Offset: start, Reason: "property tag without value line"}
				}
				return nil, verr
			}
			err = verr
			vcontent := strings.TrimSpace(sanitize(string(trimEOL(value))))
			if vcontent == RecordTerminator {
				// The value line is itself the terminator: the property block
				// is truncated and the terminator is the resync point.
				return nil, &MalformedRecordError{Offset: start, Reason: "property tag without value line"}
			}
			// Duplicate field names: last occurrence wins.
			rec.Fields[name] = vcontent

		default:
			// Blank lines and junk between property blocks are ignored.
		}
	}
}

// readLine returns the next raw line including its line ending and advances
// the offset by the encoded byte length of the line. At end of stream it
// returns the final unterminated line (if any) together with io.EOF.
func (s *Scanner) readLine() ([]byte, error) {
	line, err := s.br.ReadBytes('\n')
	if len(line) == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	s.offset += int64(len(line))
	return line, err
}

// tagName extracts FIELD from a "> <FIELD>" tag line.
// It returns "" if the closing bracket is missing.
func tagName(content string) string {
	inner := content[len(tagPrefix):]
	end := strings.LastIndexByte(inner, '>')
	if end < 0 {
		return ""
	}
	return inner[:end]
}

// trimEOL strips a trailing LF or CRLF.
func trimEOL(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}

// sanitize replaces invalid UTF-8 sequences so undecodable bytes in noisy
// source files never abort a scan.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "�")
}
