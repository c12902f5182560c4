package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Olivia010207/NPS/internal/report"
)

// requestFlags holds the analysis flags shared by analyze and batch.
type requestFlags struct {
	file       string
	kind       string
	questions  []string
	factors    []string
	maxRank    int
	row        string
	col        string
	rowLabels  map[string]string
	colLabels  map[string]string
	stat       string
	statRow    string
	percent    bool
	split      bool
	mergeOther bool
}

func (f *requestFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.file, "request", "", "read the analysis request from a YAML or JSON file")
	fs.StringVarP(&f.kind, "type", "t", "", "analysis type: nps|nss|nss_detail|rank|cross|factor|open")
	fs.StringSliceVarP(&f.questions, "question", "q", nil, "question id(s), comma-separated or repeated")
	fs.StringSliceVar(&f.factors, "factor", nil, "factor: driver question id(s)")
	fs.IntVar(&f.maxRank, "max-rank", 0, "rank: number of rank positions (overrides config)")
	fs.StringVar(&f.row, "row", "", "cross: row question id")
	fs.StringVar(&f.col, "col", "", "cross: column question id")
	fs.StringToStringVar(&f.rowLabels, "row-label", nil, "cross: relabel row categories, e.g. 1=Very poor")
	fs.StringToStringVar(&f.colLabels, "col-label", nil, "cross: relabel column categories")
	fs.StringVar(&f.stat, "stat", "", "cross: statistic row: nps|mean|none")
	fs.StringVar(&f.statRow, "stat-row", "", "cross: label of the statistic row")
	fs.BoolVar(&f.percent, "percent", false, "cross: convert counts to column percentages")
	fs.BoolVar(&f.split, "split", false, "cross: add one entry per multi-select option")
	fs.BoolVar(&f.mergeOther, "merge-other", true, "cross: merge 'other' categories into one")
}

// build assembles the Request; a --request file takes precedence over flags.
func (f *requestFlags) build(fs *pflag.FlagSet) (report.Request, error) {
	if f.file != "" {
		return readRequestFile(f.file)
	}
	if f.kind == "" {
		return report.Request{}, fmt.Errorf("--type is required (available: %s)", typeNames())
	}
	t, err := report.ParseAnalysisType(f.kind)
	if err != nil {
		return report.Request{}, err
	}
	req := report.Request{
		Type:        t,
		QuestionIDs: f.questions,
		Factors:     f.factors,
		MaxRank:     f.maxRank,
	}
	if t == report.TypeCross {
		req.Cross = &report.CrossParams{
			RowID:        f.row,
			ColID:        f.col,
			RowLabels:    f.rowLabels,
			ColLabels:    f.colLabels,
			Statistic:    f.stat,
			StatRowName:  f.statRow,
			Percent:      f.percent,
			SplitOptions: f.split,
		}
		if fs.Changed("merge-other") {
			v := f.mergeOther
			req.Cross.MergeOther = &v
		}
	}
	return req, nil
}

// reset restores flag defaults between in-process invocations.
func (f *requestFlags) reset(fs *pflag.FlagSet) {
	*f = requestFlags{
		rowLabels:  map[string]string{},
		colLabels:  map[string]string{},
		mergeOther: true,
	}
	fs.VisitAll(func(fl *pflag.Flag) { fl.Changed = false })
}

func readRequestFile(path string) (report.Request, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return report.Request{}, fmt.Errorf("read request: %w", err)
	}
	var req report.Request
	if err := yaml.Unmarshal(b, &req); err != nil {
		return report.Request{}, fmt.Errorf("parse request %s: %w", path, err)
	}
	return req, nil
}

func typeNames() string {
	names := make([]string, len(report.AnalysisTypes))
	for i, t := range report.AnalysisTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
