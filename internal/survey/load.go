package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadOptions controls how a survey export is read.
type LoadOptions struct {
	// Sheet selects an XLSX sheet by name; SheetIndex (1-based) is used when empty.
	Sheet      string
	SheetIndex int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// StatusColumn, when set, must exist; only rows equal to ValidStatus are kept.
	StatusColumn string
	ValidStatus  string
	// IDColumn holds respondent IDs. If absent from the file, rows are numbered.
	IDColumn string
	// Derived questions are registered in order after loading.
	Derived []DerivedQuestion
	Logger  *slog.Logger
}

// DefaultLoadOptions mirrors the conventions of the survey platform exports.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		SheetIndex:   1,
		StatusColumn: "样本状态",
		ValidStatus:  "有效",
		IDColumn:     "ID",
	}
}

// LoadFile reads a .xlsx, .csv or .tsv export and builds a Dataset.
func LoadFile(path string, opt LoadOptions) (*Dataset, error) {
	var (
		records [][]string
		err     error
	)
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		records, err = readXLSX(path, opt.Sheet, opt.SheetIndex)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".txt"):
		records, err = readCSV(path, opt.Delimiter)
	default:
		return nil, fmt.Errorf("unsupported survey file %s: want .xlsx, .csv or .tsv", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no header row", filepath.Base(path))
	}
	return FromRecords(records[0], records[1:], opt)
}

// FromRecords builds a Dataset from a header row and string rows. Rows are
// padded or truncated to the header width.
func FromRecords(header []string, rows [][]string, opt LoadOptions) (*Dataset, error) {
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	columns := dedupeHeaders(header)
	ncol := len(columns)
	values := make([][]Value, len(rows))
	for i, rec := range rows {
		row := make([]Value, ncol)
		for j := 0; j < ncol && j < len(rec); j++ {
			row[j] = Cell(rec[j])
		}
		values[i] = row
	}
	var ids []string
	if opt.IDColumn != "" {
		if idx := indexOf(columns, opt.IDColumn); idx >= 0 {
			ids = make([]string, len(values))
			for i, row := range values {
				ids[i] = strings.TrimSpace(row[idx].String())
				if ids[i] == "" {
					ids[i] = "row-" + strconv.Itoa(i+1)
				}
			}
		}
	}
	total := len(values)
	if opt.StatusColumn != "" {
		// Filter first so duplicate IDs among dropped rows do not fail the load.
		j := indexOf(columns, opt.StatusColumn)
		if j < 0 {
			return nil, fmt.Errorf("status column %q: %w", opt.StatusColumn, ErrNotFound)
		}
		keptIDs := []string{}
		kept := values[:0:0]
		for i, row := range values {
			if v := row[j]; v.IsMissing() || v.String() != opt.ValidStatus {
				continue
			}
			kept = append(kept, row)
			if ids != nil {
				keptIDs = append(keptIDs, ids[i])
			} else {
				keptIDs = append(keptIDs, strconv.Itoa(i+1))
			}
		}
		values, ids = kept, keptIDs
		log.Debug("filtered respondents by status",
			slog.String("column", opt.StatusColumn),
			slog.Int("kept", len(values)),
			slog.Int("total", total))
	}
	responses, err := NewResponses(columns, ids, values)
	if err != nil {
		return nil, fmt.Errorf("build responses: %w", err)
	}
	schema := InferSchema(columns)
	for _, m := range schema.Mismatches() {
		log.Warn("question prefix disagrees with header text", slog.String("detail", m.String()))
	}
	ds, err := NewDataset(schema, responses)
	if err != nil {
		return nil, err
	}
	for _, dq := range opt.Derived {
		ds, err = ds.Derive(dq)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", dq.QuestionID, err)
		}
	}
	log.Info("survey loaded",
		slog.Int("columns", schema.Len()),
		slog.Int("questions", len(ds.Schema.QuestionIDs())),
		slog.Int("respondents", ds.Responses.Len()))
	return ds, nil
}

func readCSV(path string, delim rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comma = delim
	var out [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(out)+1, err)
		}
		if len(out) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		out = append(out, rec)
	}
	return out, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func readXLSX(path, sheetName string, sheetIndex int) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", filepath.Base(path))
	}
	target := ""
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				target = s
				break
			}
		}
		if target == "" {
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				sheetName, filepath.Base(path), strings.Join(sheets, ", "))
		}
	} else {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, fmt.Errorf("sheet index %d out of range: workbook has %d sheets", idx, len(sheets))
		}
		target = sheets[idx-1]
	}
	rows, err := f.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", target, err)
	}
	return rows, nil
}

// dedupeHeaders suffixes repeated header names with .1, .2, ... so that every
// raw column is addressable.
func dedupeHeaders(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for n := 1; taken[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

func indexOf(xs []string, x string) int {
	for i, s := range xs {
		if s == x {
			return i
		}
	}
	return -1
}
