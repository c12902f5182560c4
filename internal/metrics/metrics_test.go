package metrics

import (
	"slices"
	"strconv"
	"testing"

	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nums(xs ...float64) []survey.Value {
	out := make([]survey.Value, len(xs))
	for i, x := range xs {
		out[i] = survey.Number(x)
	}
	return out
}

func cells(ss ...string) []survey.Value {
	out := make([]survey.Value, len(ss))
	for i, s := range ss {
		out[i] = survey.Cell(s)
	}
	return out
}

func cellString(t *testing.T, tb *table.Table, row, col string) string {
	t.Helper()
	c, ok := tb.Cell(row, col)
	require.True(t, ok, "cell %s/%s", row, col)
	return c.String()
}

func TestNPSTableWorkedExample(t *testing.T) {
	tb := NPSTable(nums(10, 10, 9, 8, 7, 6, 5, 8))
	assert.Equal(t, "8", cellString(t, tb, table.BaseLabel, "Overall"))
	assert.Equal(t, "25.00%", cellString(t, tb, "10", "Overall"))
	assert.Equal(t, "37.50%", cellString(t, tb, PromotersLabel, "Overall"))
	assert.Equal(t, "25.00%", cellString(t, tb, DetractorsLabel, "Overall"))
	assert.Equal(t, "12.50%", cellString(t, tb, NPSLabel, "Overall"))

	want := []string{table.BaseLabel}
	for s := 0; s <= 10; s++ {
		want = append(want, strconv.Itoa(s))
	}
	want = append(want, PromotersLabel, PassivesLabel, DetractorsLabel, NPSLabel)
	assert.Equal(t, want, tb.RowLabels())
}

func TestComputeNPS(t *testing.T) {
	r := ComputeNPS(nums(10, 10, 9, 8, 7, 6, 5, 9))
	assert.Equal(t, 8, r.Base)
	assert.Equal(t, 50.0, r.Promoters)
	assert.Equal(t, 25.0, r.Passives)
	assert.Equal(t, 25.0, r.Detractors)
	assert.Equal(t, 25.0, r.NPS)
}

func TestComputeNPSIgnoresInvalid(t *testing.T) {
	vals := append(nums(10, 0, 11, -1, 7.5), cells("9", "", "n/a", "10")...)
	vals = append(vals, survey.Missing())
	r := ComputeNPS(vals)
	assert.Equal(t, 4, r.Base)
	assert.Equal(t, [11]int{0: 1, 9: 1, 10: 2}, r.Counts)
	assert.Equal(t, 75.0, r.Promoters)
	assert.Equal(t, 50.0, r.NPS)
}

func TestComputeNPSEmpty(t *testing.T) {
	r := ComputeNPS(cells("", "x"))
	assert.Equal(t, NPSResult{}, r)
	tb := r.Table("g")
	assert.Equal(t, "0", cellString(t, tb, table.BaseLabel, "g"))
	assert.Equal(t, "0.00%", cellString(t, tb, NPSLabel, "g"))
}

func TestNPSSegmentsSumTo100(t *testing.T) {
	series := [][]float64{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{9, 9, 9},
		{7, 8, 10, 3, 3, 6, 9},
		{1, 2, 10},
	}
	for _, s := range series {
		r := ComputeNPS(nums(s...))
		assert.InDelta(t, 100, r.Promoters+r.Passives+r.Detractors, 0.02)
		assert.InDelta(t, r.Promoters-r.Detractors, r.NPS, 0.02)
	}
}

func TestComputeNSS(t *testing.T) {
	r := ComputeNSS("Overall", nums(5, 5, 4, 3, 2, 1))
	assert.Equal(t, 6, r.Base)
	assert.Equal(t, 50.0, r.TopTwoBox)
	assert.Equal(t, 0.0, r.NSS)
	assert.InDelta(t, 3.33, r.Mean, 0.005)
	bottom := r.Distribution[0] + r.Distribution[1] + r.Distribution[2]
	assert.InDelta(t, 100, r.TopTwoBox+bottom, 0.02)

	r = ComputeNSS("q", nums(5, 4, 2, 1, 1, 9, 0))
	assert.Equal(t, 5, r.Base)
	assert.Equal(t, 40.0, r.TopTwoBox)
	assert.Equal(t, -20.0, r.NSS)

	assert.Equal(t, NSSResult{Label: "none"}, ComputeNSS("none", nil))
}

func TestNSSTable(t *testing.T) {
	tb := NSSTable([]Column{
		{Label: "Setup", Values: nums(5, 5, 4, 3, 2, 1)},
		{Label: "Sound", Values: nums(1, 2, 3)},
	})
	assert.Equal(t, NSSColumns, tb.Columns)
	assert.Equal(t, []string{"Setup", "Sound"}, tb.RowLabels())
	assert.Equal(t, "3.33", cellString(t, tb, "Setup", "Mean"))
	assert.Equal(t, "33.33%", cellString(t, tb, "Setup", "5"))
	assert.Equal(t, "-100.00%", cellString(t, tb, "Sound", "NSS"))
}

func TestRankTable(t *testing.T) {
	cols := []Column{
		{Label: "Price", Values: nums(1, 1, 1, 1)},
		{Label: "Quality", Values: append(nums(2, 5), survey.Missing(), survey.Missing())},
		{Label: "Other", Values: cells("", "", "", "")},
	}
	tb := RankTable(cols, 5)
	assert.Equal(t, []string{"Selected", "Rank 1", "Rank 2", "Rank 3", "Rank 4", "Rank 5", "Selected %", "Importance"}, tb.Columns)
	assert.Equal(t, "100.00", cellString(t, tb, "Price", "Importance"))
	assert.Equal(t, "100.00%", cellString(t, tb, "Price", "Selected %"))
	assert.Equal(t, "2", cellString(t, tb, "Quality", "Selected"))
	assert.Equal(t, "50.00%", cellString(t, tb, "Quality", "Selected %"))
	// (4 + 1) / (4 * 5) * 100
	assert.Equal(t, "25.00", cellString(t, tb, "Quality", "Importance"))
	assert.Equal(t, "0.00", cellString(t, tb, "Other", "Importance"))
}

func TestRankFirstByEveryoneIsMax(t *testing.T) {
	for _, r := range []int{1, 3, 5, 10} {
		res := ComputeRank(Column{Values: nums(1, 1, 1)}, r)
		assert.Equal(t, 100.0, res.Importance, "R=%d", r)
	}
	res := ComputeRank(Column{Values: nums(1)}, 0)
	assert.Len(t, res.RankCounts, DefaultMaxRank)
}

func TestMultiDetailTable(t *testing.T) {
	tb := MultiDetailTable([]Column{
		{Label: "A", Values: cells("1", "1", "1", "", "")},
		{Label: "B", Values: cells("1", "", "", "1", "")},
	})
	assert.Equal(t, []string{table.BaseLabel, "A", "B"}, tb.RowLabels())
	assert.Equal(t, "4", cellString(t, tb, table.BaseLabel, "Count"))
	assert.Equal(t, "", cellString(t, tb, table.BaseLabel, "Percent"))
	assert.Equal(t, "3", cellString(t, tb, "A", "Count"))
	assert.Equal(t, "75.00%", cellString(t, tb, "A", "Percent"))
	assert.Equal(t, "50.00%", cellString(t, tb, "B", "Percent"))

	empty := MultiDetailTable([]Column{{Label: "A", Values: cells("", "")}})
	assert.Equal(t, "0.00%", cellString(t, empty, "A", "Percent"))
}

func TestFreeTexts(t *testing.T) {
	cols := []Column{
		{Values: cells("first", "  ", "", "second")},
		{Values: []survey.Value{survey.Text("third"), survey.Missing(), survey.Number(4)}},
	}
	seq := FreeTexts(cols)
	want := []string{"first", "second", "third", "4"}
	assert.Equal(t, want, slices.Collect(seq))
	assert.Equal(t, want, slices.Collect(seq), "restartable")

	var firstTwo []string
	for s := range seq {
		firstTwo = append(firstTwo, s)
		if len(firstTwo) == 2 {
			break
		}
	}
	assert.Equal(t, want[:2], firstTwo)

	tb := FreeTextTable("others", cols)
	assert.Equal(t, 4, tb.NumRows())
	assert.Equal(t, "third", cellString(t, tb, "3", "others"))
}

func TestFactorAnalysis(t *testing.T) {
	scores := nums(10, 9, 10, 3, 5, 8, 0)
	factors := []Column{
		{Label: "Delight", Values: nums(5, 5, 5, 1, 1, 3, 1)},
		{Label: "Basic", Values: nums(5, 5, 4, 5, 5, 3, 4)},
		{Label: "Annoy", Values: nums(2, 2, 2, 5, 4, 3, 5)},
		{Label: "Meh", Values: nums(1, 2, 1, 2, 1, 3, 1)},
	}
	res := FactorAnalysis(scores, factors)
	require.Len(t, res, 4)

	assert.InDelta(t, 5.0, res[0].PromoterMean, 1e-9)
	assert.InDelta(t, 1.0, res[0].DetractorMean, 1e-9)
	assert.Equal(t, 3, res[0].Promoters)
	assert.Equal(t, 3, res[0].Detractors, "score 8 is a passive")
	assert.Equal(t, 6, res[0].Total())

	got := make([]Quadrant, len(res))
	for i, r := range res {
		got[i] = r.Quadrant
	}
	assert.Equal(t, []Quadrant{Delighter, MustHave, Irritant, LowImpact}, got)

	tb := FactorTable(res)
	assert.Equal(t, "must-have", cellString(t, tb, "Basic", "Quadrant"))
	assert.Empty(t, FactorAnalysis(scores, nil))
}
