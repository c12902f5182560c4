// Package crosstab cross-tabulates two questions of a survey Dataset. The
// layout depends on which sides are multi-select questions.
package crosstab

import (
	"context"

	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// Mode is the branch a cross-tabulation took.
type Mode uint8

const (
	// ModeCooccurrence: both questions are multi-select.
	ModeCooccurrence Mode = iota + 1
	// ModePerOption: exactly one side is multi-select and is expanded option
	// by option.
	ModePerOption
	// ModeSimple: neither side is multi-select.
	ModeSimple
)

func (m Mode) String() string {
	switch m {
	case ModeCooccurrence:
		return "cooccurrence"
	case ModePerOption:
		return "per_option"
	case ModeSimple:
		return "simple"
	}
	return "unknown"
}

// Options tune a cross-tabulation.
type Options struct {
	// RowLabels and ColLabels substitute category or option labels.
	// Unmapped labels pass through; Base, Total and the statistic row never change.
	RowLabels map[string]string
	ColLabels map[string]string
	// Statistic adds a statistic row (simple mode) or replaces counts with
	// per-option statistics (per-option mode).
	Statistic   Statistic
	StatRowName string
	// MergeOther collapses column-side categories containing one of
	// OtherKeywords into OtherLabel.
	MergeOther    bool
	OtherKeywords []string
	OtherLabel    string
	// FreeTextMarkers identify supplementary text columns of multi-select
	// questions; they are never treated as options.
	FreeTextMarkers []string
	// Percent converts counts into column percentages of Base.
	Percent bool
}

// DefaultOptions merges "other"/"其他" answers into "Other".
func DefaultOptions() Options {
	return Options{
		MergeOther:      true,
		OtherKeywords:   []string{"other", "其他"},
		OtherLabel:      "Other",
		FreeTextMarkers: survey.DefaultFreeTextMarkers,
	}
}

// Part is the sub-table of one multi-select option in per-option mode.
type Part struct {
	Label string
	Table *table.Table
}

// Result is a finished cross-tabulation.
type Result struct {
	Mode  Mode
	Table *table.Table
	Parts []Part
}

// Engine cross-tabulates questions of one immutable Dataset. It is safe for
// concurrent use.
type Engine struct {
	ds  *survey.Dataset
	opt Options
}

// New returns an Engine over ds.
func New(ds *survey.Dataset, opt Options) *Engine {
	if opt.OtherLabel == "" {
		opt.OtherLabel = "Other"
	}
	return &Engine{ds: ds, opt: opt}
}

// accepted lists the question types that can take part in a crosstab.
var accepted = []survey.QuestionType{survey.Single, survey.Multi, survey.Meta, survey.Rank}

// Cross tabulates rowID against colID.
func (e *Engine) Cross(ctx context.Context, rowID, colID string) (*Result, error) {
	rg, cg, err := e.pair(rowID, colID)
	if err != nil {
		return nil, err
	}
	return e.dispatch(ctx, rg, cg)
}

// Entry is one table produced by CrossEach.
type Entry struct {
	Label  string
	Result *Result
}

// CrossEach tabulates every option column of a non-multi row question (a
// rating grid) against colID, one entry per column labelled by its short
// label. Multi-select and single-column rows give the single entry of Cross.
func (e *Engine) CrossEach(ctx context.Context, rowID, colID string) ([]Entry, error) {
	rg, cg, err := e.pair(rowID, colID)
	if err != nil {
		return nil, err
	}
	opts := e.options(rg)
	if rg.Type == survey.Multi || len(opts) <= 1 {
		res, err := e.dispatch(ctx, rg, cg)
		if err != nil {
			return nil, err
		}
		return []Entry{{Label: rg.Label(), Result: res}}, nil
	}
	out := make([]Entry, 0, len(opts))
	for _, d := range opts {
		sub := survey.Group{QuestionID: rg.QuestionID, Type: rg.Type, Columns: []survey.Descriptor{d}}
		r, err := e.dispatch(ctx, sub, cg)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Label: d.ShortLabel, Result: r})
	}
	return out, nil
}

func (e *Engine) dispatch(ctx context.Context, rg, cg survey.Group) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rowMulti, colMulti := rg.Type == survey.Multi, cg.Type == survey.Multi
	switch {
	case rowMulti && colMulti:
		return e.cooccurrence(rg, cg), nil
	case rowMulti:
		return e.perOption(ctx, rg, cg, true)
	case colMulti:
		return e.perOption(ctx, cg, rg, false)
	default:
		return e.simple(rg, cg), nil
	}
}

func (e *Engine) pair(rowID, colID string) (rg, cg survey.Group, err error) {
	if rowID == "" {
		return rg, cg, &survey.MissingArgumentError{Argument: "row question id"}
	}
	if colID == "" {
		return rg, cg, &survey.MissingArgumentError{Argument: "column question id"}
	}
	if rg, err = e.group(rowID); err != nil {
		return rg, cg, err
	}
	cg, err = e.group(colID)
	return rg, cg, err
}

func (e *Engine) group(id string) (survey.Group, error) {
	g, err := e.ds.Group(id)
	if err != nil {
		return survey.Group{}, err
	}
	if err := survey.CheckType(id, g.Type, accepted...); err != nil {
		return survey.Group{}, err
	}
	return g, nil
}

func (e *Engine) statName() string {
	if e.opt.StatRowName != "" {
		return e.opt.StatRowName
	}
	if e.opt.Statistic != nil {
		return e.opt.Statistic.Name()
	}
	return ""
}

func (e *Engine) options(g survey.Group) []survey.Descriptor {
	opts, _ := g.Split(e.opt.FreeTextMarkers...)
	return opts
}

// selected returns, per option column, which respondents chose it.
func (e *Engine) selected(opts []survey.Descriptor) [][]bool {
	out := make([][]bool, len(opts))
	for k, d := range opts {
		vals := e.ds.Values(d.RawColumn)
		sel := make([]bool, len(vals))
		for i, v := range vals {
			sel[i] = !v.IsMissing()
		}
		out[k] = sel
	}
	return out
}

// cooccurrence lays out rows = row options, columns = Total then column
// options. The Base row holds each column option's selector count (its Total
// cell is blank); the Total column holds each row option's selector count.
func (e *Engine) cooccurrence(rg, cg survey.Group) *Result {
	rowOpts, colOpts := e.options(rg), e.options(cg)
	rowSel, colSel := e.selected(rowOpts), e.selected(colOpts)

	headers := []string{table.TotalLabel}
	for _, d := range colOpts {
		headers = append(headers, d.ShortLabel)
	}
	t := table.New(rg.Label(), headers...)

	base := []table.Cell{table.Blank()}
	for _, sel := range colSel {
		base = append(base, table.Count(countTrue(sel)))
	}
	t.AddRow(table.BaseLabel, base...)

	for r, d := range rowOpts {
		cells := []table.Cell{table.Count(countTrue(rowSel[r]))}
		for _, cs := range colSel {
			n := 0
			for i, on := range rowSel[r] {
				if on && i < len(cs) && cs[i] {
					n++
				}
			}
			cells = append(cells, table.Count(n))
		}
		t.AddRow(d.ShortLabel, cells...)
	}
	t = t.Relabel(e.opt.RowLabels, e.opt.ColLabels)
	if e.opt.Percent {
		t = t.PercentOfBase()
	}
	return &Result{Mode: ModeCooccurrence, Table: t}
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
