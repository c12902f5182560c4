package survey

import (
	"fmt"
	"strconv"
)

// Responses is the response table: rows keyed by respondent ID, columns keyed
// by raw column name. Cells are stored column-major. A Responses value is
// read-only once built; Filter and WithColumn return new tables.
type Responses struct {
	ids      []string
	rowIndex map[string]int
	columns  []string
	colIndex map[string]int
	cells    [][]Value
}

// NewResponses builds a table from row-major values. Every row must have
// len(columns) cells and respondent IDs must be unique. If ids is nil the
// rows are numbered from 1.
func NewResponses(columns []string, ids []string, rows [][]Value) (*Responses, error) {
	if ids == nil {
		ids = make([]string, len(rows))
		for i := range rows {
			ids[i] = strconv.Itoa(i + 1)
		}
	}
	if len(ids) != len(rows) {
		return nil, fmt.Errorf("respondent ids: got %d for %d rows", len(ids), len(rows))
	}
	r := &Responses{
		ids:      ids,
		rowIndex: make(map[string]int, len(ids)),
		columns:  columns,
		colIndex: make(map[string]int, len(columns)),
		cells:    make([][]Value, len(columns)),
	}
	for j, c := range columns {
		if _, dup := r.colIndex[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		r.colIndex[c] = j
		r.cells[j] = make([]Value, len(rows))
	}
	for i, id := range ids {
		if _, dup := r.rowIndex[id]; dup {
			return nil, fmt.Errorf("duplicate respondent id %q", id)
		}
		r.rowIndex[id] = i
		row := rows[i]
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d: got %d cells, want %d", i+1, len(row), len(columns))
		}
		for j, v := range row {
			r.cells[j][i] = v
		}
	}
	return r, nil
}

// Len returns the number of respondents.
func (r *Responses) Len() int { return len(r.ids) }

// IDs returns the respondent IDs in row order.
func (r *Responses) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Columns returns the column names in order.
func (r *Responses) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// HasColumn reports whether name is a column.
func (r *Responses) HasColumn(name string) bool {
	_, ok := r.colIndex[name]
	return ok
}

// Column returns a copy of one column's values in row order.
func (r *Responses) Column(name string) ([]Value, bool) {
	j, ok := r.colIndex[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(r.cells[j]))
	copy(out, r.cells[j])
	return out, true
}

// At returns the cell at row i of column name; unknown columns are Missing.
func (r *Responses) At(i int, name string) Value {
	j, ok := r.colIndex[name]
	if !ok || i < 0 || i >= len(r.ids) {
		return Missing()
	}
	return r.cells[j][i]
}

// Respondent returns one respondent's answers keyed by column.
func (r *Responses) Respondent(id string) (map[string]Value, bool) {
	i, ok := r.rowIndex[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]Value, len(r.columns))
	for j, c := range r.columns {
		out[c] = r.cells[j][i]
	}
	return out, true
}

// Filter returns a new table holding the rows for which keep returns true.
func (r *Responses) Filter(keep func(i int) bool) *Responses {
	var rows []int
	for i := range r.ids {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	out := &Responses{
		ids:      make([]string, len(rows)),
		rowIndex: make(map[string]int, len(rows)),
		columns:  r.columns,
		colIndex: r.colIndex,
		cells:    make([][]Value, len(r.columns)),
	}
	for k, i := range rows {
		out.ids[k] = r.ids[i]
		out.rowIndex[r.ids[i]] = k
	}
	for j := range r.columns {
		col := make([]Value, len(rows))
		for k, i := range rows {
			col[k] = r.cells[j][i]
		}
		out.cells[j] = col
	}
	return out
}

// FilterStatus keeps rows whose status column equals valid (compared as text).
func (r *Responses) FilterStatus(column, valid string) (*Responses, error) {
	j, ok := r.colIndex[column]
	if !ok {
		return nil, fmt.Errorf("status column %q: %w", column, ErrNotFound)
	}
	return r.Filter(func(i int) bool {
		v := r.cells[j][i]
		return !v.IsMissing() && v.String() == valid
	}), nil
}

// WithColumn returns a new table with an extra (or replaced) column.
func (r *Responses) WithColumn(name string, values []Value) (*Responses, error) {
	if len(values) != len(r.ids) {
		return nil, fmt.Errorf("column %q: got %d values for %d rows", name, len(values), len(r.ids))
	}
	vals := make([]Value, len(values))
	copy(vals, values)
	out := &Responses{
		ids:      r.ids,
		rowIndex: r.rowIndex,
		colIndex: make(map[string]int, len(r.columns)+1),
	}
	out.columns = append(out.columns, r.columns...)
	out.cells = append(out.cells, r.cells...)
	for k, v := range r.colIndex {
		out.colIndex[k] = v
	}
	if j, ok := r.colIndex[name]; ok {
		out.cells[j] = vals
		return out, nil
	}
	out.colIndex[name] = len(out.columns)
	out.columns = append(out.columns, name)
	out.cells = append(out.cells, vals)
	return out, nil
}
