package survey

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "\ufeffID,样本状态,S1 (single choice)_Recommend,M2 (multiple choice)_Online,M2 (multiple choice)_Retail\n" +
	"r1,有效,10,1,\n" +
	"r2,无效,3,,1\n" +
	"r3,有效,7,1,1\n" +
	"r4,有效,,,\n"

func TestLoadCSVFiltersStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ds, err := LoadFile(path, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r3", "r4"}, ds.Responses.IDs())
	assert.Equal(t, []string{"S1", "M2"}, ds.Schema.QuestionIDs())

	_, vals, err := ds.Primary("S1")
	require.NoError(t, err)
	assert.Equal(t, "10", vals[0].String())
	assert.True(t, vals[2].IsMissing())
}

func TestLoadMissingStatusColumn(t *testing.T) {
	_, err := FromRecords([]string{"ID", "S1 single choice"}, [][]string{{"1", "5"}}, DefaultLoadOptions())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatusFilterRunsBeforeIDCheck(t *testing.T) {
	header := []string{"ID", "样本状态", "S1 (single choice)_Recommend"}
	rows := [][]string{
		{"r1", "有效", "9"},
		{"r2", "无效", "3"},
		{"r2", "无效", "4"},
	}
	ds, err := FromRecords(header, rows, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ds.Responses.IDs())

	rows = append(rows, []string{"r1", "有效", "8"})
	_, err = FromRecords(header, rows, DefaultLoadOptions())
	assert.ErrorContains(t, err, `duplicate respondent id "r1"`)
}

func TestStatusFilterKeepsRowNumbers(t *testing.T) {
	ds, err := FromRecords(
		[]string{"样本状态", "S1 (single choice)_Recommend"},
		[][]string{{"无效", "1"}, {"有效", "9"}},
		LoadOptions{StatusColumn: "样本状态", ValidStatus: "有效"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ds.Responses.IDs())
}

func TestFromRecordsPadsAndNumbers(t *testing.T) {
	ds, err := FromRecords(
		[]string{"S1 single choice", "S1 single choice", ""},
		[][]string{{"1"}, {"2", "3", "4", "extra"}},
		LoadOptions{IDColumn: "ID"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ds.Responses.IDs())
	assert.Equal(t, []string{"S1 single choice", "S1 single choice.1", "Unnamed: 2"}, ds.Responses.Columns())
	assert.True(t, ds.Responses.At(0, "Unnamed: 2").IsMissing())
	assert.Equal(t, "4", ds.Responses.At(1, "Unnamed: 2").String())
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	rows := [][]any{
		{"ID", "样本状态", "S1 (single choice)_Recommend"},
		{"a", "有效", 9},
		{"b", "有效", 6},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Data", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	require.NoError(t, f.SaveAs(path))

	opt := DefaultLoadOptions()
	opt.Sheet = "data"
	ds, err := LoadFile(path, opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Responses.IDs())
	n, ok := ds.Responses.At(1, "S1 (single choice)_Recommend").Int()
	require.True(t, ok)
	assert.Equal(t, 6, n)

	opt.Sheet = "nope"
	_, err = LoadFile(path, opt)
	assert.ErrorContains(t, err, "Available sheets")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := LoadFile("survey.sav", DefaultLoadOptions())
	assert.ErrorContains(t, err, "unsupported")
}
