package metrics

import (
	"slices"

	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// Quadrant classifies a driver by how it scores among promoters and detractors.
type Quadrant string

const (
	Delighter Quadrant = "delighter"  // low detractor mean, high promoter mean
	MustHave  Quadrant = "must-have"  // high on both
	Irritant  Quadrant = "irritant"   // high detractor mean, low promoter mean
	LowImpact Quadrant = "low-impact" // low on both
)

// FactorResult is one driver's mean score within each NPS segment.
type FactorResult struct {
	Factor        string
	PromoterMean  float64
	DetractorMean float64
	Promoters     int
	Detractors    int
	Quadrant      Quadrant
}

// Total is the sample size across both segments.
func (f FactorResult) Total() int { return f.Promoters + f.Detractors }

// FactorAnalysis splits respondents by their NPS score and averages every
// factor column within the promoter and detractor segments. Factors are then
// placed into quadrants by a median split on both means.
func FactorAnalysis(scores []survey.Value, factors []Column) []FactorResult {
	out := make([]FactorResult, len(factors))
	for k, f := range factors {
		r := FactorResult{Factor: f.Label}
		var proSum, detSum float64
		for i, v := range scores {
			s, ok := NPSScore(v)
			if !ok || i >= len(f.Values) {
				continue
			}
			x, ok := f.Values[i].Float()
			if !ok {
				continue
			}
			switch {
			case IsPromoter(s):
				proSum += x
				r.Promoters++
			case IsDetractor(s):
				detSum += x
				r.Detractors++
			}
		}
		if r.Promoters > 0 {
			r.PromoterMean = proSum / float64(r.Promoters)
		}
		if r.Detractors > 0 {
			r.DetractorMean = detSum / float64(r.Detractors)
		}
		out[k] = r
	}
	if len(out) == 0 {
		return out
	}
	xs := make([]float64, len(out))
	ys := make([]float64, len(out))
	for i, r := range out {
		xs[i], ys[i] = r.DetractorMean, r.PromoterMean
	}
	xSplit, ySplit := median(xs), median(ys)
	for i := range out {
		out[i].Quadrant = quadrant(out[i].DetractorMean, out[i].PromoterMean, xSplit, ySplit)
	}
	return out
}

func quadrant(x, y, xSplit, ySplit float64) Quadrant {
	switch {
	case x < xSplit && y >= ySplit:
		return Delighter
	case x >= xSplit && y >= ySplit:
		return MustHave
	case x >= xSplit && y < ySplit:
		return Irritant
	default:
		return LowImpact
	}
}

func median(vals []float64) float64 {
	s := slices.Clone(vals)
	slices.Sort(s)
	n := len(s)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// FactorTable renders the driver analysis, one row per factor.
func FactorTable(results []FactorResult) *table.Table {
	t := table.New("Factor", "Promoter mean", "Detractor mean", "Total", "Promoters", "Detractors", "Quadrant")
	for _, r := range results {
		t.AddRow(r.Factor,
			table.Decimal(r.PromoterMean),
			table.Decimal(r.DetractorMean),
			table.Count(r.Total()),
			table.Count(r.Promoters),
			table.Count(r.Detractors),
			table.Text(string(r.Quadrant)),
		)
	}
	return t
}
