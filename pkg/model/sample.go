// pkg/model/sample.go
package model

import "strings"

// TableSample is an in-memory tabular slice of a table, the unit the
// quality checks operate on. Types holds driver type names aligned with
// Columns and may be empty when the source did not report them. A nil
// cell is a SQL NULL.
type TableSample struct {
	Table   string
	Columns []string
	Types   []string
	Rows    [][]interface{}
}

// RowCount returns the number of sampled rows
func (s *TableSample) RowCount() int {
	return len(s.Rows)
}

// ColumnIndex returns the position of a column by name (case-insensitive).
// Returns -1 if the column is not present.
func (s *TableSample) ColumnIndex(name string) int {
	for i, col := range s.Columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

// IsNull reports whether the cell at (row, col) is NULL. Out-of-range
// positions count as NULL.
func (s *TableSample) IsNull(row, col int) bool {
	if row < 0 || row >= len(s.Rows) {
		return true
	}
	if col < 0 || col >= len(s.Rows[row]) {
		return true
	}
	return s.Rows[row][col] == nil
}

// NullCount returns the number of NULL cells in a column
func (s *TableSample) NullCount(col int) int {
	count := 0
	for row := range s.Rows {
		if s.IsNull(row, col) {
			count++
		}
	}
	return count
}
