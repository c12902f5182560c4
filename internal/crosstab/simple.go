package crosstab

import (
	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// simple tabulates the first column of each question. Respondents missing
// either side are dropped; Base is the column sum of the body.
func (e *Engine) simple(rg, cg survey.Group) *Result {
	rowVals := e.ds.Values(rg.Columns[0].RawColumn)
	colVals := e.ds.Values(cg.Columns[0].RawColumn)

	type pair struct {
		row, col string
		value    survey.Value
	}
	var pairs []pair
	var rowCats, colCats []string
	for i := range rowVals {
		r, ok := category(rowVals[i])
		if !ok || i >= len(colVals) {
			continue
		}
		c, ok := category(colVals[i])
		if !ok {
			continue
		}
		if e.opt.MergeOther {
			c = mergeOther(c, e.opt.OtherKeywords, e.opt.OtherLabel)
		}
		pairs = append(pairs, pair{row: r, col: c, value: rowVals[i]})
		rowCats = append(rowCats, r)
		colCats = append(colCats, c)
	}
	rows, cols := distinct(rowCats), distinct(colCats)

	colIdx := make(map[string]int, len(cols))
	for j, c := range cols {
		colIdx[c] = j
	}
	freq := make(map[string][]int, len(rows))
	for _, r := range rows {
		freq[r] = make([]int, len(cols))
	}
	base := make([]int, len(cols))
	for _, p := range pairs {
		j := colIdx[p.col]
		freq[p.row][j]++
		base[j]++
	}

	t := table.New(rg.Label(), cols...)
	t.AddRow(table.BaseLabel, countCells(base)...)
	for _, r := range rows {
		t.AddRow(r, countCells(freq[r])...)
	}

	statName := e.statName()
	if e.opt.Statistic != nil {
		cells := make([]table.Cell, len(cols))
		for j, c := range cols {
			var group []survey.Value
			for _, p := range pairs {
				if p.col == c {
					group = append(group, p.value)
				}
			}
			cells[j] = e.opt.Statistic.Compute(group).Cell()
		}
		t.AddRow(statName, cells...)
	}

	t = t.Relabel(e.opt.RowLabels, e.opt.ColLabels, statName)
	if e.opt.Percent {
		t = t.ColumnPercent()
	}
	return &Result{Mode: ModeSimple, Table: t}
}

func countCells(ns []int) []table.Cell {
	out := make([]table.Cell, len(ns))
	for i, n := range ns {
		out[i] = table.Count(n)
	}
	return out
}
