package sdfstore

// Row is one exported record projection. Absent fields are present in the map
// with a nil value, so every row carries the full field set.
type Row map[string]any

// RowSink consumes exported rows. Implementations decide what tabular means:
// an in-memory Table, a CSV writer, a dataframe bridge.
type RowSink interface {
	Append(row Row) error
}

// Table is an in-memory RowSink with a fixed column order.
type Table struct {
	Fields []string
	Rows   []Row
}

// NewTable creates a Table with the given column order.
func NewTable(fields []string) *Table {
	return &Table{Fields: fields}
}

// Append implements RowSink.
func (t *Table) Append(row Row) error {
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns all values of the named field in row order.
func (t *Table) Column(field string) []any {
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[field]
	}
	return out
}
