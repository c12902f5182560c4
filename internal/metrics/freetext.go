package metrics

import (
	"iter"
	"strconv"
	"strings"

	"github.com/Olivia010207/NPS/internal/table"
)

// FreeTexts yields every non-missing, non-blank answer, column by column and
// in row order within a column. The sequence can be ranged over repeatedly.
func FreeTexts(cols []Column) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, c := range cols {
			for _, v := range c.Values {
				if v.IsMissing() {
					continue
				}
				s := v.String()
				if strings.TrimSpace(s) == "" {
					continue
				}
				if !yield(s) {
					return
				}
			}
		}
	}
}

// FreeTextTable lists the collected answers in a single column.
func FreeTextTable(header string, cols []Column) *table.Table {
	t := table.New("#", header)
	i := 0
	for s := range FreeTexts(cols) {
		i++
		t.AddRow(strconv.Itoa(i), table.Text(s))
	}
	return t
}
