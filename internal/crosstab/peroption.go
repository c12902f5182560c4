package crosstab

import (
	"context"

	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// perOption expands the multi-select question multi option by option against
// the first column of other. Each option becomes one column headed by its
// label; when multi is the row question the joined table is transposed so
// options read as rows.
func (e *Engine) perOption(ctx context.Context, multi, other survey.Group, multiIsRow bool) (*Result, error) {
	opts := e.options(multi)
	sel := e.selected(opts)
	values := e.ds.Values(other.Columns[0].RawColumn)

	// other is the column question exactly when multi is the row.
	cats := make([]string, len(values))
	present := make([]bool, len(values))
	for i, v := range values {
		c, ok := category(v)
		if !ok {
			continue
		}
		if multiIsRow && e.opt.MergeOther {
			c = mergeOther(c, e.opt.OtherKeywords, e.opt.OtherLabel)
		}
		cats[i], present[i] = c, true
	}

	catMap, optMap := e.opt.RowLabels, e.opt.ColLabels
	if multiIsRow {
		catMap, optMap = e.opt.ColLabels, e.opt.RowLabels
	}
	stat := e.opt.Statistic
	statName := e.statName()

	var universe []string
	if stat == nil {
		var all []string
		for k := range opts {
			for i, on := range sel[k] {
				if on && i < len(present) && present[i] {
					all = append(all, cats[i])
				}
			}
		}
		universe = distinct(all)
	}

	parts := make([]Part, 0, len(opts))
	tables := make([]*table.Table, 0, len(opts))
	for k, d := range opts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label := d.ShortLabel
		var part *table.Table
		if stat != nil {
			var group []survey.Value
			for i, on := range sel[k] {
				if on && i < len(values) && !values[i].IsMissing() {
					group = append(group, values[i])
				}
			}
			part = statPart(stat, statName, label, group)
		} else {
			counts := make(map[string]int, len(universe))
			for i, on := range sel[k] {
				if on && i < len(present) && present[i] {
					counts[cats[i]]++
				}
			}
			part = table.New(other.Label(), label)
			part.AddRow(table.BaseLabel, table.Count(countTrue(sel[k])))
			for _, c := range universe {
				part.AddRow(c, table.Count(counts[c]))
			}
		}
		part = part.Relabel(catMap, optMap, statName)
		tables = append(tables, part)
		if e.opt.Percent && stat == nil {
			part = part.PercentOfBase()
		}
		parts = append(parts, Part{Label: part.Columns[0], Table: part})
	}

	fill := table.Count(0)
	if stat != nil {
		fill = table.Blank()
	}
	joined := table.Join(fill, tables...)
	joined.Index = other.Label()
	if e.opt.Percent && stat == nil {
		if multiIsRow {
			joined = joined.PercentOfBase()
		} else {
			joined = joined.ColumnPercent()
		}
	}
	if multiIsRow {
		joined = joined.Transpose()
		joined.Index = multi.Label()
	}
	return &Result{Mode: ModePerOption, Table: joined, Parts: parts}, nil
}

// statPart summarises one option group. Profilers contribute their full
// column; other statistics a single row. An empty group yields a column with
// no rows, which the join fills with blanks.
func statPart(stat Statistic, statName, label string, group []survey.Value) *table.Table {
	if len(group) == 0 {
		return table.New("", label)
	}
	if p, ok := stat.(Profiler); ok {
		return p.Profile(label, group)
	}
	t := table.New("", label)
	t.AddRow(statName, stat.Compute(group).Cell())
	return t
}
