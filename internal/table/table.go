// Package table holds the labelled two-dimensional result tables produced by
// the metric calculators and the crosstab engine.
package table

import (
	"fmt"
	"math"
	"strings"
)

// Reserved labels.
const (
	BaseLabel  = "Base"
	TotalLabel = "Total"
)

// Row is one labelled line of a Table.
type Row struct {
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// Table is a labelled matrix. Index names the row-label column. Every row has
// exactly len(Columns) cells. Tables are built by one producer and treated as
// read-only afterwards; the transforming methods return copies.
type Table struct {
	Index   string   `json:"index,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New returns an empty table with the given column headers.
func New(index string, columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Index: index, Columns: cols}
}

// AddRow appends a row, padding with blanks or truncating to the column count.
func (t *Table) AddRow(label string, cells ...Cell) {
	row := make([]Cell, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, Row{Label: label, Cells: row})
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// RowLabels lists the row labels in order.
func (t *Table) RowLabels() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Label
	}
	return out
}

// Row finds the first row with the given label.
func (t *Table) Row(label string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return Row{}, false
}

// ColumnIndex returns the position of a column header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell looks up one cell by row label and column header.
func (t *Table) Cell(row, col string) (Cell, bool) {
	j := t.ColumnIndex(col)
	if j < 0 {
		return Cell{}, false
	}
	r, ok := t.Row(row)
	if !ok {
		return Cell{}, false
	}
	return r.Cells[j], true
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.Index, t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]Cell, len(r.Cells))
		copy(cells, r.Cells)
		out.Rows[i] = Row{Label: r.Label, Cells: cells}
	}
	return out
}

// Transpose swaps rows and columns.
func (t *Table) Transpose() *Table {
	out := New(t.Index, t.RowLabels()...)
	for j, c := range t.Columns {
		cells := make([]Cell, len(t.Rows))
		for i, r := range t.Rows {
			cells[i] = r.Cells[j]
		}
		out.AddRow(c, cells...)
	}
	return out
}

// Join places tables side by side. Row labels are unioned in order of first
// appearance; cells a part does not have are filled with fill.
func Join(fill Cell, parts ...*Table) *Table {
	var (
		labels []string
		seen   = make(map[string]bool)
		cols   []string
		index  string
	)
	for _, p := range parts {
		if p == nil {
			continue
		}
		if index == "" {
			index = p.Index
		}
		cols = append(cols, p.Columns...)
		for _, r := range p.Rows {
			if !seen[r.Label] {
				seen[r.Label] = true
				labels = append(labels, r.Label)
			}
		}
	}
	out := New(index, cols...)
	for _, label := range labels {
		cells := make([]Cell, 0, len(cols))
		for _, p := range parts {
			if p == nil {
				continue
			}
			r, ok := p.Row(label)
			if !ok {
				for range p.Columns {
					cells = append(cells, fill)
				}
				continue
			}
			cells = append(cells, r.Cells...)
		}
		out.AddRow(label, cells...)
	}
	return out
}

// InsertColumn returns a copy with a column inserted at pos (clamped). cells
// are matched to rows by position; missing ones are blank.
func (t *Table) InsertColumn(pos int, name string, cells []Cell) *Table {
	pos = max(0, min(pos, len(t.Columns)))
	out := New(t.Index)
	out.Columns = append(out.Columns, t.Columns[:pos]...)
	out.Columns = append(out.Columns, name)
	out.Columns = append(out.Columns, t.Columns[pos:]...)
	for i, r := range t.Rows {
		c := Blank()
		if i < len(cells) {
			c = cells[i]
		}
		row := make([]Cell, 0, len(r.Cells)+1)
		row = append(row, r.Cells[:pos]...)
		row = append(row, c)
		row = append(row, r.Cells[pos:]...)
		out.Rows = append(out.Rows, Row{Label: r.Label, Cells: row})
	}
	return out
}

// Relabel returns a copy with row and column labels substituted through the
// given maps. Labels in keep, plus Base and Total, are never touched.
func (t *Table) Relabel(rows, cols map[string]string, keep ...string) *Table {
	protected := map[string]bool{BaseLabel: true, TotalLabel: true}
	for _, k := range keep {
		protected[k] = true
	}
	sub := func(m map[string]string, s string) string {
		if protected[s] {
			return s
		}
		if v, ok := m[s]; ok {
			return v
		}
		return s
	}
	out := t.Clone()
	for i := range out.Rows {
		out.Rows[i].Label = sub(rows, out.Rows[i].Label)
	}
	for j := range out.Columns {
		out.Columns[j] = sub(cols, out.Columns[j])
	}
	return out
}

// PercentOfBase converts the count cells of every non-Base row into
// percentages of the column's Base count. Columns whose Base cell is not
// numeric are left unchanged. Tables without a Base row are copied as-is.
func (t *Table) PercentOfBase() *Table {
	out := t.Clone()
	base, ok := t.Row(BaseLabel)
	if !ok {
		return out
	}
	for i, r := range out.Rows {
		if r.Label == BaseLabel {
			continue
		}
		for j, c := range r.Cells {
			b, ok := base.Cells[j].Float()
			if !ok || c.Kind != KindCount {
				continue
			}
			out.Rows[i].Cells[j] = Percent(pct(c.Num, b))
		}
	}
	return out
}

// ColumnPercent is PercentOfBase plus an appended Total column: Base holds
// the sum of the numeric bases, each body row its count summed across those
// columns over that sum. Rows without counts get a blank Total.
func (t *Table) ColumnPercent() *Table {
	base, ok := t.Row(BaseLabel)
	if !ok {
		return t.Clone()
	}
	baseSum := 0.0
	for _, c := range base.Cells {
		if f, ok := c.Float(); ok {
			baseSum += f
		}
	}
	totals := make([]Cell, len(t.Rows))
	for i, r := range t.Rows {
		if r.Label == BaseLabel {
			totals[i] = Count(int(math.Round(baseSum)))
			continue
		}
		sum, counted := 0.0, false
		for j, c := range r.Cells {
			if _, ok := base.Cells[j].Float(); !ok || c.Kind != KindCount {
				continue
			}
			sum += c.Num
			counted = true
		}
		if counted {
			totals[i] = Percent(pct(sum, baseSum))
		}
	}
	return t.PercentOfBase().InsertColumn(len(t.Columns), TotalLabel, totals)
}

// Records flattens the table into string rows with a header line.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string{t.Index}, t.Columns...))
	for _, r := range t.Rows {
		rec := make([]string, 0, len(r.Cells)+1)
		rec = append(rec, r.Label)
		for _, c := range r.Cells {
			rec = append(rec, c.String())
		}
		out = append(out, rec)
	}
	return out
}

// Markdown renders the table as a GitHub-flavoured Markdown table.
func (t *Table) Markdown() string {
	var b strings.Builder
	recs := t.Records()
	for i, rec := range recs {
		b.WriteString("|")
		for _, v := range rec {
			fmt.Fprintf(&b, " %s |", safeVal(v))
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|")
			for range rec {
				b.WriteString("---|")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

// Pct returns part/whole*100 rounded to two decimals, or 0 when whole is 0.
func Pct(part, whole float64) float64 { return pct(part, whole) }

func pct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(part / whole * 100)
}

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) float64 { return round2(f) }

func round2(f float64) float64 { return math.Round(f*100) / 100 }
