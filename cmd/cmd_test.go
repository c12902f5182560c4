package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Olivia010207/NPS/internal/report"
	"github.com/Olivia010207/NPS/internal/survey"
)

const surveyCSV = "ID,样本状态,S1 (single choice)_Recommend,S2 (single choice)_Region,M3 (multiple choice)_Online,M3 (multiple choice)_Retail\n" +
	"r1,有效,10,North,1,\n" +
	"r2,有效,9,South,1,1\n" +
	"r3,有效,3,North,,1\n" +
	"r4,有效,6,South,,\n" +
	"r5,无效,0,North,1,\n"

// runCmd executes the root command in-process with fresh flag state.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	anaFlags.reset(analyzeCmd.Flags())
	batchFlags.reset(batchCmd.Flags())
	anaOutput, anaFormat = "", "markdown"
	schemaFormat = "markdown"
	batchOutDir, batchWorkers, batchQuiet = "", 0, false
	loadSheet, loadSheetIndex, loadDelimiter, loadAllRows = "", 1, "", false
	cfg, cfgFile, debug, logFormat = nil, "", false, ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"NPS_MAX_RANK", "NPS_OUTPUT_DIR", "NPS_STATUS_COLUMN"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return home
}

func writeSurvey(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(surveyCSV), 0o644); err != nil {
		t.Fatalf("write survey: %v", err)
	}
	return p
}

func TestSchemaMarkdownAndJSON(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "survey.csv")

	out, err := runCmd(t, "schema", path)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, "4 respondents, 3 questions") {
		t.Fatalf("expected status-filtered counts, got:\n%s", out)
	}
	if !strings.Contains(out, "| M3 |") {
		t.Fatalf("expected M3 row, got:\n%s", out)
	}

	out, err = runCmd(t, "schema", path, "--format", "json")
	if err != nil {
		t.Fatalf("schema json: %v", err)
	}
	var qs []report.QuestionSummary
	if err := json.Unmarshal([]byte(out), &qs); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(qs) != 3 || qs[2].QuestionID != "M3" || qs[2].Options != 2 {
		t.Fatalf("unexpected summaries: %+v", qs)
	}
}

func TestAnalyzeNPSFiltersStatus(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "survey.csv")

	out, err := runCmd(t, "analyze", path, "-t", "nps", "-q", "S1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "# Analysis: nps") || !strings.Contains(out, "| NPS | 0.00% |") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = runCmd(t, "analyze", path, "-t", "nps", "-q", "S1", "--all-rows")
	if err != nil {
		t.Fatalf("analyze --all-rows: %v", err)
	}
	if !strings.Contains(out, "| NPS | -20.00% |") {
		t.Fatalf("expected the invalid row to count, got:\n%s", out)
	}
}

func TestAnalyzeCrossToWorkbook(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "survey.csv")
	dest := filepath.Join(home, "out", "cross.xlsx")

	out, err := runCmd(t, "analyze", path, "-t", "cross", "--row", "M3", "--col", "S2", "--percent", "-o", dest)
	if err != nil {
		t.Fatalf("analyze cross: %v", err)
	}
	if !strings.Contains(out, "✓ Wrote cross analysis") {
		t.Fatalf("missing confirmation: %s", out)
	}
	f, err := excelize.OpenFile(dest)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if len(f.GetSheetList()) == 0 {
		t.Fatalf("workbook has no sheets")
	}
}

func TestAnalyzeRequestFile(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "survey.csv")
	reqPath := filepath.Join(home, "req.yaml")
	body := "type: nss_detail\nquestion_ids: [M3]\n"
	if err := os.WriteFile(reqPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write request: %v", err)
	}
	out, err := runCmd(t, "analyze", path, "--request", reqPath, "--format", "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var b struct {
		Type    report.AnalysisType `json:"type"`
		Entries []struct {
			Label string `json:"label"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("decode bundle: %v\n%s", err, out)
	}
	if b.Type != report.TypeNSSDetail || len(b.Entries) == 0 || b.Entries[0].Label != "M3" {
		t.Fatalf("unexpected bundle: %+v", b)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "survey.csv")

	if _, err := runCmd(t, "analyze", path, "-q", "S1"); err == nil || !strings.Contains(err.Error(), "--type is required") {
		t.Fatalf("expected missing type error, got %v", err)
	}
	_, err := runCmd(t, "analyze", path, "-t", "nps", "-q", "Z9")
	if !errors.Is(err, survey.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = runCmd(t, "analyze", path, "-t", "nps", "-q", "M3")
	if !errors.Is(err, survey.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	_, err = runCmd(t, "analyze", path, "-t", "cross", "--row", "S1")
	if !errors.Is(err, survey.ErrMissingArgument) {
		t.Fatalf("expected missing argument, got %v", err)
	}
}

func TestBatchWritesOneWorkbookPerFile(t *testing.T) {
	home := setupHome(t)
	writeSurvey(t, filepath.Join(home, "d1"), "survey.csv")
	writeSurvey(t, filepath.Join(home, "d2"), "survey.csv")
	outDir := filepath.Join(home, "results")

	out, err := runCmd(t, "batch", filepath.Join(home, "**", "*.csv"), "-t", "nps", "-q", "S1", "--out-dir", outDir, "--workers", "2")
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	for _, name := range []string{"survey_nps.xlsx", "survey_nps__2.xlsx"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(out, "✓ Analyzed 2 file(s)") {
		t.Fatalf("missing summary: %s", out)
	}
}

func TestBatchReportsFailures(t *testing.T) {
	home := setupHome(t)
	writeSurvey(t, home, "survey.csv")
	_, err := runCmd(t, "batch", filepath.Join(home, "*.csv"), "-t", "nps", "-q", "Z9", "--out-dir", home)
	if err == nil || !strings.Contains(err.Error(), "1 of 1 file(s) failed") {
		t.Fatalf("expected failure summary, got %v", err)
	}
	if _, err := runCmd(t, "batch", filepath.Join(home, "*.nothing"), "-t", "nps", "-q", "S1"); err == nil {
		t.Fatalf("expected no-match error")
	}
}

func TestConfigSetAndShow(t *testing.T) {
	home := setupHome(t)
	if _, err := runCmd(t, "config", "set", "max_rank", "3"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".nps", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out, err := runCmd(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "max_rank: 3") {
		t.Fatalf("expected saved value, got:\n%s", out)
	}
	if _, err := runCmd(t, "config", "set", "bogus", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestExpandInputsDedupes(t *testing.T) {
	dir := t.TempDir()
	a := writeSurvey(t, dir, "a.csv")
	files, err := expandInputs([]string{filepath.Join(dir, "*.csv"), a})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(files) != 1 || files[0] != a {
		t.Fatalf("unexpected files: %v", files)
	}
}
