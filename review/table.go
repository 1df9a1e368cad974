package review

import (
	"strconv"
	"strings"
)

// Table is an immutable in-memory dataset with normalized column names.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// Record is the typed view of one review row.
type Record struct {
	Date      string
	Product   string
	Insurer   string
	Review    string
	Rating    float64
	HasRating bool
}

// NewTable normalizes the header and pads every row to the header width.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: make([]string, len(columns)),
		Rows:    make([][]string, 0, len(rows)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		name := NormalizeColumnName(c)
		t.Columns[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	for _, row := range rows {
		padded := make([]string, len(columns))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the normalized column exists.
func (t *Table) HasColumn(name string) bool {
	if t == nil || name == "" {
		return false
	}
	_, ok := t.index[NormalizeColumnName(name)]
	return ok
}

// Cell returns the trimmed value at row/column, or "" when the column is absent.
func (t *Table) Cell(row int, name string) string {
	return cleanCell(t.RawCell(row, name))
}

// RawCell returns the value at row/column exactly as loaded.
func (t *Table) RawCell(row int, name string) string {
	if t == nil || row < 0 || row >= len(t.Rows) {
		return ""
	}
	col, ok := t.index[NormalizeColumnName(name)]
	if !ok {
		return ""
	}
	return t.Rows[row][col]
}

// Project returns the given columns for every row; absent columns yield blanks.
func (t *Table) Project(names ...string) [][]string {
	out := make([][]string, t.Len())
	for i := range out {
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = t.Cell(i, name)
		}
		out[i] = row
	}
	return out
}

// Head returns a table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if t == nil {
		return nil
	}
	if n < 0 || n >= len(t.Rows) {
		return t
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.subset(idx)
}

func (t *Table) subset(rows []int) *Table {
	out := &Table{
		Columns: t.Columns,
		Rows:    make([][]string, len(rows)),
		index:   t.index,
	}
	for i, r := range rows {
		out.Rows[i] = t.Rows[r]
	}
	return out
}

// Record maps row i onto the logical review fields. Review keeps the cell
// untouched since it is fed to the embedder as is.
func (t *Table) Record(i int, cols Columns) Record {
	rec := Record{
		Date:    t.Cell(i, cols.Date),
		Product: t.Cell(i, cols.Product),
		Insurer: t.Cell(i, cols.Insurer),
		Review:  t.RawCell(i, cols.Review),
	}
	rec.Rating, rec.HasRating = parseRating(t.Cell(i, cols.Rating))
	return rec
}

func parseRating(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatRating renders a rating without trailing zeros.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
