package metrics

import (
	"strconv"

	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// NSSResult summarises one 1-5 satisfaction column.
type NSSResult struct {
	Label        string
	Base         int
	Distribution [5]float64 // index 0 is score 1
	TopTwoBox    float64
	Mean         float64
	NSS          float64
}

// ComputeNSS tallies integer scores in 1..5; anything else is ignored.
func ComputeNSS(label string, values []survey.Value) NSSResult {
	r := NSSResult{Label: label}
	var counts [5]int
	sum := 0
	for _, v := range values {
		s, ok := scoreInRange(v, 1, 5)
		if !ok {
			continue
		}
		counts[s-1]++
		sum += s
		r.Base++
	}
	if r.Base == 0 {
		return r
	}
	base := float64(r.Base)
	for i, n := range counts {
		r.Distribution[i] = table.Pct(float64(n), base)
	}
	top, bottom := counts[3]+counts[4], counts[0]+counts[1]+counts[2]
	r.TopTwoBox = table.Pct(float64(top), base)
	r.Mean = float64(sum) / base
	r.NSS = table.Round2(float64(top-bottom) / base * 100)
	return r
}

// NSSColumns is the header of an NSS table.
var NSSColumns = []string{table.BaseLabel, "1", "2", "3", "4", "5", "Top-2-Box", "Mean", "NSS"}

// NSSTable renders one row per input column.
func NSSTable(cols []Column) *table.Table {
	t := table.New("Question", NSSColumns...)
	for _, c := range cols {
		r := ComputeNSS(c.Label, c.Values)
		cells := []table.Cell{table.Count(r.Base)}
		for _, p := range r.Distribution {
			cells = append(cells, table.Percent(p))
		}
		cells = append(cells, table.Percent(r.TopTwoBox), table.Decimal(r.Mean), table.Percent(r.NSS))
		t.AddRow(r.Label, cells...)
	}
	return t
}

// scoreLabels returns "1".."n".
func scoreLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}
