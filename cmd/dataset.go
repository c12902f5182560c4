package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Olivia010207/NPS/internal/report"
	"github.com/Olivia010207/NPS/internal/survey"
)

// Loader flags shared by every command that reads a survey file.
var (
	loadSheet      string
	loadSheetIndex int
	loadDelimiter  string
	loadAllRows    bool
)

func addLoadFlags(c *cobra.Command) {
	c.Flags().StringVar(&loadSheet, "sheet", "", "XLSX: sheet name (overrides config)")
	c.Flags().IntVar(&loadSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if no sheet name is set)")
	c.Flags().StringVar(&loadDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	c.Flags().BoolVar(&loadAllRows, "all-rows", false, "keep every row instead of filtering on the status column")
}

func loadDataset(path string) (*survey.Dataset, error) {
	opt := currentConfig().LoadOptions()
	if loadSheet != "" {
		opt.Sheet = loadSheet
	}
	if loadSheetIndex > 0 {
		opt.SheetIndex = loadSheetIndex
	}
	d, err := parseDelimiter(loadDelimiter)
	if err != nil {
		return nil, err
	}
	opt.Delimiter = d
	if loadAllRows {
		opt.StatusColumn = ""
	}
	opt.Logger = logger
	return survey.LoadFile(path, opt)
}

func newService(ds *survey.Dataset, source string) *report.Service {
	return report.NewService(ds, source, currentConfig().ReportSettings(), logger)
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}
