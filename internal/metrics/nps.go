package metrics

import (
	"strconv"

	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// NPS segment row labels.
const (
	PromotersLabel  = "Promoters"
	PassivesLabel   = "Passives"
	DetractorsLabel = "Detractors"
	NPSLabel        = "NPS"
)

// NPSResult is the score distribution of a 0-10 likelihood-to-recommend
// question. Percentages are on a 0..100 scale rounded to two decimals.
type NPSResult struct {
	Base         int
	Counts       [11]int
	Distribution [11]float64
	Promoters    float64
	Passives     float64
	Detractors   float64
	NPS          float64
}

// IsPromoter reports a 9 or 10 score.
func IsPromoter(score int) bool { return score >= 9 && score <= 10 }

// IsDetractor reports a 0 to 6 score.
func IsDetractor(score int) bool { return score >= 0 && score <= 6 }

// NPSScore returns the valid 0-10 integer score held by v.
func NPSScore(v survey.Value) (int, bool) { return scoreInRange(v, 0, 10) }

// ComputeNPS tallies values; anything that is not an integer in 0..10 is
// ignored. With no valid values every figure is zero.
func ComputeNPS(values []survey.Value) NPSResult {
	var r NPSResult
	for _, v := range values {
		if s, ok := NPSScore(v); ok {
			r.Counts[s]++
			r.Base++
		}
	}
	if r.Base == 0 {
		return r
	}
	var pro, pas, det int
	for s, n := range r.Counts {
		r.Distribution[s] = table.Pct(float64(n), float64(r.Base))
		switch {
		case IsPromoter(s):
			pro += n
		case IsDetractor(s):
			det += n
		default:
			pas += n
		}
	}
	base := float64(r.Base)
	r.Promoters = table.Pct(float64(pro), base)
	r.Passives = table.Pct(float64(pas), base)
	r.Detractors = table.Pct(float64(det), base)
	r.NPS = table.Round2(float64(pro-det) / base * 100)
	return r
}

// Table renders the result as a single column headed name: Base, 0..10,
// Promoters, Passives, Detractors, NPS.
func (r NPSResult) Table(name string) *table.Table {
	t := table.New("", name)
	t.AddRow(table.BaseLabel, table.Count(r.Base))
	for s, p := range r.Distribution {
		t.AddRow(strconv.Itoa(s), table.Percent(p))
	}
	t.AddRow(PromotersLabel, table.Percent(r.Promoters))
	t.AddRow(PassivesLabel, table.Percent(r.Passives))
	t.AddRow(DetractorsLabel, table.Percent(r.Detractors))
	t.AddRow(NPSLabel, table.Percent(r.NPS))
	return t
}

// NPSTable computes and renders the NPS table for one score column.
func NPSTable(values []survey.Value) *table.Table {
	return ComputeNPS(values).Table("Overall")
}
