package crosstab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Olivia010207/NPS/internal/metrics"
	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// StatValue is the outcome of a Statistic: a number, a text, or nothing when
// the group had no usable values.
type StatValue struct {
	Num    float64
	Text   string
	IsText bool
	Empty  bool
}

// NumberStat wraps a numeric statistic value.
func NumberStat(f float64) StatValue { return StatValue{Num: f} }

// TextStat wraps a preformatted statistic value.
func TextStat(s string) StatValue { return StatValue{Text: s, IsText: true} }

// EmptyStat marks a group without values.
func EmptyStat() StatValue { return StatValue{Empty: true} }

// Cell renders a statistic the way the embedded statistic row shows it:
// numbers as a percentage rounded to an integer, text verbatim.
func (v StatValue) Cell() table.Cell {
	switch {
	case v.Empty:
		return table.Blank()
	case v.IsText:
		return table.Text(v.Text)
	default:
		return table.Text(fmt.Sprintf("%.0f%%", v.Num))
	}
}

// Statistic summarises the values of one group.
type Statistic interface {
	Name() string
	Compute(values []survey.Value) StatValue
}

// Profiler is a Statistic that can also describe a group as a full column
// (e.g. the NPS breakdown) in per-option mode.
type Profiler interface {
	Statistic
	Profile(column string, values []survey.Value) *table.Table
}

// NPS computes the Net Promoter Score of each group.
type NPS struct{}

func (NPS) Name() string { return metrics.NPSLabel }

func (NPS) Compute(values []survey.Value) StatValue {
	r := metrics.ComputeNPS(values)
	if r.Base == 0 {
		return EmptyStat()
	}
	return NumberStat(r.NPS)
}

func (NPS) Profile(column string, values []survey.Value) *table.Table {
	return metrics.ComputeNPS(values).Table(column)
}

// Mean averages the numeric values of each group and reports it with two
// decimals.
type Mean struct{}

func (Mean) Name() string { return "Mean" }

func (Mean) Compute(values []survey.Value) StatValue {
	sum, n := 0.0, 0
	for _, v := range values {
		if f, ok := v.Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return EmptyStat()
	}
	return TextStat(fmt.Sprintf("%.2f", sum/float64(n)))
}

var statistics = map[string]Statistic{
	"nps":  NPS{},
	"mean": Mean{},
}

// LookupStatistic resolves a statistic by name (case-insensitive). The empty
// name resolves to nil, meaning no statistic.
func LookupStatistic(name string) (Statistic, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "none" {
		return nil, nil
	}
	s, ok := statistics[name]
	if !ok {
		return nil, fmt.Errorf("unknown statistic %q (available: %s)", name, strings.Join(StatisticNames(), ", "))
	}
	return s, nil
}

// StatisticNames lists the registered statistic names, sorted.
func StatisticNames() []string {
	out := make([]string, 0, len(statistics))
	for k := range statistics {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
