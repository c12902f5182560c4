package table

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Table {
	t := New("S1", "A", "B")
	t.AddRow(BaseLabel, Count(4), Count(2))
	t.AddRow("yes", Count(3), Count(1))
	t.AddRow("no", Count(1), Count(1))
	return t
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "4", Count(4).String())
	assert.Equal(t, "37.50%", Percent(37.5).String())
	assert.Equal(t, "-16.67%", Percent(-16.666).String())
	assert.Equal(t, "3.33", Decimal(10.0/3).String())
	assert.Equal(t, "x", Text("x").String())
	assert.Equal(t, "", Blank().String())
}

func TestAddRowPads(t *testing.T) {
	tb := New("", "a", "b", "c")
	tb.AddRow("r", Count(1))
	require.Len(t, tb.Rows[0].Cells, 3)
	assert.True(t, tb.Rows[0].Cells[2].IsBlank())
}

func TestTranspose(t *testing.T) {
	tr := sample().Transpose()
	assert.Equal(t, []string{BaseLabel, "yes", "no"}, tr.Columns)
	assert.Equal(t, []string{"A", "B"}, tr.RowLabels())
	c, ok := tr.Cell("B", "yes")
	require.True(t, ok)
	assert.Equal(t, "1", c.String())
	assert.Equal(t, sample(), tr.Transpose())
}

func TestJoinFillsMissingRows(t *testing.T) {
	a := New("", "A")
	a.AddRow(BaseLabel, Count(2))
	a.AddRow("x", Count(2))
	b := New("", "B")
	b.AddRow(BaseLabel, Count(1))
	b.AddRow("y", Count(1))

	j := Join(Count(0), a, nil, b)
	assert.Equal(t, []string{"A", "B"}, j.Columns)
	assert.Equal(t, []string{BaseLabel, "x", "y"}, j.RowLabels())
	c, _ := j.Cell("y", "A")
	assert.Equal(t, Count(0), c)
	c, _ = j.Cell("x", "B")
	assert.Equal(t, Count(0), c)
}

func TestInsertColumn(t *testing.T) {
	tb := sample().InsertColumn(0, TotalLabel, []Cell{Blank(), Count(4)})
	assert.Equal(t, []string{TotalLabel, "A", "B"}, tb.Columns)
	assert.True(t, tb.Rows[0].Cells[0].IsBlank())
	assert.Equal(t, "4", tb.Rows[1].Cells[0].String())
	assert.True(t, tb.Rows[2].Cells[0].IsBlank())
	assert.Equal(t, []string{"A", "B"}, sample().Columns, "source untouched")
}

func TestRelabelKeepsReservedRows(t *testing.T) {
	tb := sample().Relabel(
		map[string]string{"yes": "Yes", BaseLabel: "N"},
		map[string]string{"A": "Group A"},
	)
	assert.Equal(t, []string{BaseLabel, "Yes", "no"}, tb.RowLabels())
	assert.Equal(t, []string{"Group A", "B"}, tb.Columns)

	kept := sample().Relabel(map[string]string{"no": "No"}, nil, "no")
	assert.Equal(t, "no", kept.Rows[2].Label)
}

func TestColumnPercent(t *testing.T) {
	p := sample().ColumnPercent()
	assert.Equal(t, []string{"A", "B", TotalLabel}, p.Columns)
	base, _ := p.Row(BaseLabel)
	assert.Equal(t, []string{"4", "2", "6"}, strs(base.Cells))
	yes, _ := p.Row("yes")
	assert.Equal(t, []string{"75.00%", "50.00%", "66.67%"}, strs(yes.Cells))

	noBase := New("", "A")
	noBase.AddRow("x", Count(1))
	assert.Equal(t, noBase, noBase.ColumnPercent())
}

func TestRecordsAndMarkdown(t *testing.T) {
	recs := sample().Records()
	assert.Equal(t, []string{"S1", "A", "B"}, recs[0])
	assert.Equal(t, []string{"yes", "3", "1"}, recs[2])

	tb := New("q", "a|b")
	tb.AddRow("line\nbreak", Text("v"))
	md := tb.Markdown()
	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| q | a/b |", lines[0])
	assert.Equal(t, "|---|---|", lines[1])
	assert.Equal(t, "| line break | v |", lines[2])
}

func TestTableJSON(t *testing.T) {
	tb := New("", "n", "p", "d", "b")
	tb.AddRow("r", Count(3), Percent(12.5), Decimal(3.333), Blank())
	b, err := json.Marshal(tb)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["n","p","d","b"],"rows":[{"label":"r","cells":[3,"12.50%",3.33,null]}]}`, string(b))
}

func TestPct(t *testing.T) {
	assert.Equal(t, 0.0, Pct(3, 0))
	assert.Equal(t, 33.33, Pct(1, 3))
	assert.Equal(t, 66.67, Pct(2, 3))
}

func strs(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}

func TestPercentOfBaseSkipsNonNumericBase(t *testing.T) {
	tb := New("", TotalLabel, "A")
	tb.AddRow(BaseLabel, Blank(), Count(4))
	tb.AddRow("x", Count(3), Count(1))
	tb.AddRow("NPS", Text("40%"), Text("10%"))

	p := tb.PercentOfBase()
	x, _ := p.Row("x")
	assert.Equal(t, []string{"3", "25.00%"}, strs(x.Cells))
	nps, _ := p.Row("NPS")
	assert.Equal(t, []string{"40%", "10%"}, strs(nps.Cells))

	withTotal := tb.ColumnPercent()
	nps, _ = withTotal.Row("NPS")
	assert.True(t, nps.Cells[2].IsBlank())
	x, _ = withTotal.Row("x")
	assert.Equal(t, "25.00%", x.Cells[2].String())
}
