// Package dataset provides the in-memory tabular model shared by the batch
// pipeline and the live scoring path, together with the delimiter-separated
// readers that load it.
package dataset

import (
	"fmt"
	"strconv"
)

// Missing is the sentinel written for absent or non-finite values. It
// round-trips through CSV as an empty cell, matching the upstream sources.
const Missing = ""

// Table is an ordered-column, row-oriented view of one tabular source. Cells
// are kept as raw strings; numeric interpretation happens on demand so that
// identifier and label columns survive untouched.
type Table struct {
	Columns []string
	Rows    [][]string
}

func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the raw value at (row, column name). Unknown columns read as
// the missing sentinel.
func (t *Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return Missing
	}
	return t.Rows[row][idx]
}

// Float parses the cell as a float64. The second return is false for the
// missing sentinel or an unparsable value.
func (t *Table) Float(row int, name string) (float64, bool) {
	raw := t.Cell(row, name)
	if raw == Missing {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Project returns a new table restricted to the requested columns, in the
// requested order. Columns absent from the receiver are skipped silently;
// callers that need the full contract check presence beforehand.
func (t *Table) Project(columns []string) *Table {
	indices := make([]int, 0, len(columns))
	kept := make([]string, 0, len(columns))
	for _, name := range columns {
		if idx := t.ColumnIndex(name); idx >= 0 {
			indices = append(indices, idx)
			kept = append(kept, name)
		}
	}

	out := New(kept)
	out.Rows = make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		projected := make([]string, len(indices))
		for i, idx := range indices {
			projected[i] = row[idx]
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// Filter returns a new table containing only rows for which keep returns
// true. Column order is preserved.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := New(t.Columns)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Row returns one row as a column-name map. Intended for small fan-out
// operations, not bulk processing.
func (t *Table) Row(i int) map[string]string {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	out := make(map[string]string, len(t.Columns))
	for c, name := range t.Columns {
		out[name] = t.Rows[i][c]
	}
	return out
}
