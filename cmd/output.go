package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Olivia010207/NPS/internal/report"
	"github.com/Olivia010207/NPS/internal/utils"
)

// writeBundle prints the bundle when out is empty, otherwise writes it by
// extension: .xlsx workbook, .json, .md, or a directory of CSV files.
func writeBundle(w io.Writer, b *report.Bundle, out, format string) error {
	if out == "" {
		if strings.EqualFold(format, "json") {
			data, err := utils.PrettyJSON(b)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(data))
			return nil
		}
		fmt.Fprintln(w, b.Markdown())
		return nil
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".xlsx":
		if err := report.SaveXLSX(out, b); err != nil {
			return err
		}
	case ".json":
		data, err := utils.PrettyJSON(b)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, data); err != nil {
			return err
		}
	case ".md", ".markdown":
		if err := utils.SafeWriteFile(out, []byte(b.Markdown())); err != nil {
			return err
		}
	case "":
		files, err := report.WriteCSVDir(out, b)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Wrote %d CSV file(s) to %s\n", len(files), out)
		return nil
	default:
		return fmt.Errorf("unsupported output %s: use .xlsx, .json, .md or a directory", out)
	}
	fmt.Fprintf(w, "✓ Wrote %s analysis to %s\n", b.Type, out)
	return nil
}
