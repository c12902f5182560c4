package metrics

import (
	"github.com/Olivia010207/NPS/internal/table"
)

// MultiDetailTable tabulates a multi-select question's option columns. Base
// counts respondents with at least one selection; each option shows its
// selection count and share of Base.
func MultiDetailTable(cols []Column) *table.Table {
	t := table.New("Option", "Count", "Percent")
	base := 0
	if len(cols) > 0 {
		rows := 0
		for _, c := range cols {
			rows = max(rows, len(c.Values))
		}
		for i := 0; i < rows; i++ {
			for _, c := range cols {
				if i < len(c.Values) && !c.Values[i].IsMissing() {
					base++
					break
				}
			}
		}
	}
	t.AddRow(table.BaseLabel, table.Count(base), table.Blank())
	for _, c := range cols {
		n := 0
		for _, v := range c.Values {
			if !v.IsMissing() {
				n++
			}
		}
		t.AddRow(c.Label, table.Count(n), table.Percent(table.Pct(float64(n), float64(base))))
	}
	return t
}
