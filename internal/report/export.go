package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/Olivia010207/NPS/internal/table"
	"github.com/Olivia010207/NPS/internal/utils"
)

// MaxSheetName is the spreadsheet limit on sheet name length.
const MaxSheetName = 31

var sheetReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")")

// SheetNames maps entry labels to valid, unique sheet names: forbidden
// characters replaced, at most 31 characters, collisions suffixed "~n".
func SheetNames(labels []string) []string {
	out := make([]string, len(labels))
	taken := make(map[string]bool, len(labels))
	for i, l := range labels {
		base := strings.Trim(sheetReplacer.Replace(strings.TrimSpace(l)), "'")
		if base == "" {
			base = fmt.Sprintf("Sheet%d", i+1)
		}
		name := truncate(base, MaxSheetName)
		for n := 2; taken[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf("~%d", n)
			name = truncate(base, MaxSheetName-len(suffix)) + suffix
		}
		taken[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// WriteXLSX writes the bundle as a workbook with one sheet per entry.
func WriteXLSX(w io.Writer, b *Bundle) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	names := SheetNames(b.Labels())
	if len(names) == 0 {
		names = []string{"Sheet1"}
	}
	if err := f.SetSheetName("Sheet1", names[0]); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, e := range b.Entries {
		sheet := names[i]
		if i > 0 {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}
		if err := writeSheet(f, sheet, e.Table, header); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *table.Table, headerStyle int) error {
	head := make([]any, 0, len(t.Columns)+1)
	head = append(head, t.Index)
	for _, c := range t.Columns {
		head = append(head, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, r := range t.Rows {
		row := make([]any, 0, len(r.Cells)+1)
		row = append(row, r.Label)
		for _, c := range r.Cells {
			row = append(row, cellValue(c))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

// cellValue keeps counts and decimals numeric in the workbook.
func cellValue(c table.Cell) any {
	switch c.Kind {
	case table.KindCount:
		return int64(c.Num)
	case table.KindDecimal:
		return table.Round2(c.Num)
	case table.KindBlank:
		return nil
	}
	return c.String()
}

// SaveXLSX writes the bundle workbook to path atomically.
func SaveXLSX(path string, b *Bundle) error {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, b); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// WriteCSVDir writes one CSV file per entry into dir and returns their paths.
func WriteCSVDir(dir string, b *Bundle) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	names := SheetNames(b.Labels())
	paths := make([]string, 0, len(b.Entries))
	for i, e := range b.Entries {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(e.Table.Records()); err != nil {
			return nil, fmt.Errorf("encode %s: %w", e.Label, err)
		}
		path := filepath.Join(dir, utils.SafeFileName(names[i])+".csv")
		if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
