package survey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleHeaders = []string{
	"ID",
	"S1 (single choice)_Likelihood to recommend",
	"M2 (multiple choice)_Online",
	"M2 (multiple choice)_Retail",
	"M2 (multiple choice)_Other (please specify)",
	"S3 (multiple choice)_Mislabelled",
	"R4 rank_Price",
	"R4 rank_Quality",
	"R4 rank_其他填空",
}

func TestInferSchemaGroups(t *testing.T) {
	s := InferSchema(sampleHeaders)
	assert.Equal(t, len(sampleHeaders), s.Len())
	assert.Equal(t, []string{"S1", "M2", "S3", "R4"}, s.QuestionIDs())

	g, err := s.Group("M2")
	require.NoError(t, err)
	assert.Equal(t, Multi, g.Type)
	assert.Len(t, g.Columns, 3)

	opts, texts := g.Split()
	require.Len(t, opts, 2)
	require.Len(t, texts, 1)
	assert.Equal(t, "Online", opts[0].ShortLabel)
	assert.Equal(t, "Other (please specify)", texts[0].ShortLabel)

	r, err := s.Group("R4")
	require.NoError(t, err)
	opts, texts = r.Split()
	assert.Len(t, opts, 2)
	assert.Equal(t, []string{"R4 rank_其他填空"}, Group{Columns: texts}.RawColumns())
}

func TestSchemaGroupNotFound(t *testing.T) {
	s := InferSchema(sampleHeaders)
	_, err := s.Group("Z99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Z99", nf.QuestionID)
	assert.Contains(t, err.Error(), "Z99")
}

func TestSchemaMismatchesArePermissive(t *testing.T) {
	s := InferSchema(sampleHeaders)
	ms := s.Mismatches()
	require.Len(t, ms, 1)
	assert.Equal(t, "S3 (multiple choice)_Mislabelled", ms[0].Column)
	assert.Equal(t, Single, ms[0].Prefix)
	assert.Equal(t, Multi, ms[0].Detected)

	g, err := s.Group("S3")
	require.NoError(t, err)
	assert.Equal(t, Multi, g.Type)
}

func TestSchemaWithReturnsNewSnapshot(t *testing.T) {
	s := InferSchema(sampleHeaders)
	extra := Descriptor{RawColumn: "D1 derived", QuestionID: "D1", Type: Single, ShortLabel: "Derived"}
	s2 := s.With(extra)

	assert.Equal(t, len(sampleHeaders), s.Len())
	assert.Equal(t, len(sampleHeaders)+1, s2.Len())
	_, err := s.Group("D1")
	assert.Error(t, err)
	g, err := s2.Group("D1")
	require.NoError(t, err)
	assert.Equal(t, "Derived", g.Label())

	replaced := s2.With(Descriptor{RawColumn: "D1 derived", QuestionID: "D1", Type: Single, ShortLabel: "Renamed"})
	assert.Equal(t, s2.Len(), replaced.Len())
	d, ok := replaced.Lookup("D1 derived")
	require.True(t, ok)
	assert.Equal(t, "Renamed", d.ShortLabel)
}

func TestColumnsByType(t *testing.T) {
	s := InferSchema(sampleHeaders)
	assert.Equal(t, []string{"ID"}, s.ColumnsByType(Meta))
	assert.Len(t, s.ColumnsByType(Rank), 3)
	assert.Empty(t, s.ColumnsByType(FreeText))
}
