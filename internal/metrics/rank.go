package metrics

import (
	"github.com/Olivia010207/NPS/internal/table"
)

// DefaultMaxRank is the rank depth used when none is configured.
const DefaultMaxRank = 5

// RankResult is the tally of one ranked option.
type RankResult struct {
	Label       string
	RankCounts  []int // index 0 is rank 1
	Selected    int
	SelectedPct float64
	Importance  float64
}

// ComputeRank tallies one option column. Respondents is the column length;
// a rank r in 1..maxRank is weighted maxRank-r+1 and the index is scaled so
// that an option ranked first by everyone scores 100.
func ComputeRank(c Column, maxRank int) RankResult {
	if maxRank <= 0 {
		maxRank = DefaultMaxRank
	}
	r := RankResult{Label: c.Label, RankCounts: make([]int, maxRank)}
	weighted := 0
	for _, v := range c.Values {
		if _, ok := v.Float(); !ok {
			continue
		}
		r.Selected++
		if rank, ok := scoreInRange(v, 1, maxRank); ok {
			r.RankCounts[rank-1]++
			weighted += maxRank - rank + 1
		}
	}
	n := float64(len(c.Values))
	if n == 0 {
		return r
	}
	r.SelectedPct = table.Pct(float64(r.Selected), n)
	r.Importance = table.Round2(float64(weighted) / (n * float64(maxRank)) * 100)
	return r
}

// RankTable renders one row per option: Selected, Rank 1..R, Selected %,
// Importance.
func RankTable(cols []Column, maxRank int) *table.Table {
	if maxRank <= 0 {
		maxRank = DefaultMaxRank
	}
	headers := []string{"Selected"}
	for _, l := range scoreLabels(maxRank) {
		headers = append(headers, "Rank "+l)
	}
	headers = append(headers, "Selected %", "Importance")
	t := table.New("Option", headers...)
	for _, c := range cols {
		r := ComputeRank(c, maxRank)
		cells := []table.Cell{table.Count(r.Selected)}
		for _, n := range r.RankCounts {
			cells = append(cells, table.Count(n))
		}
		cells = append(cells, table.Percent(r.SelectedPct), table.Decimal(r.Importance))
		t.AddRow(r.Label, cells...)
	}
	return t
}
