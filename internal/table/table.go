// Package table holds the raw, string-typed tables the readers produce and
// the analysis pipeline consumes.
package table

import "strings"

// Table is a header row plus data rows. Cells are kept exactly as read; an
// empty string means the cell was missing.
type Table struct {
	Name    string     `json:"name,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New builds a table from a header and rows, padding short rows with empty
// cells and truncating long ones so every row has len(columns) cells.
func New(name string, columns []string, rows [][]string) *Table {
	t := &Table{Name: name, Columns: append([]string(nil), columns...)}
	t.Rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(columns)))
	}
	return t
}

// FromRecords treats the first record as the header. Records after it whose
// cells are all blank are dropped.
func FromRecords(name string, records [][]string) *Table {
	if len(records) == 0 {
		return &Table{Name: name}
	}
	body := make([][]string, 0, len(records)-1)
	for _, r := range records[1:] {
		if blank(r) {
			continue
		}
		body = append(body, r)
	}
	return New(name, records[0], body)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the value at row i, column j, or "" when out of range.
func (t *Table) Cell(i, j int) string {
	if t == nil || i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][j]
}

// Index returns the position of the column with the exact given name, or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func fit(r []string, n int) []string {
	out := make([]string, n)
	copy(out, r)
	return out
}

func blank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
