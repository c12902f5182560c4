package survey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferDescriptor(t *testing.T) {
	tests := []struct {
		header string
		id     string
		typ    QuestionType
		label  string
	}{
		{"S1 (single choice)_Likelihood to recommend", "S1", Single, "Likelihood to recommend"},
		{"M10 (Multiple Choice)_Online store", "M10", Multi, "Online store"},
		{"F3 open-ended_Anything else?", "F3", FreeText, "Anything else?"},
		{"R4 rank_Price", "R4", Rank, "Price"},
		{"ID", "", Meta, "ID"},
		{"样本状态", "", Meta, "样本状态"},
		{"S66_", "S66", Meta, "S66_"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			d := InferDescriptor(tt.header)
			assert.Equal(t, tt.header, d.RawColumn)
			assert.Equal(t, tt.id, d.QuestionID)
			assert.Equal(t, tt.typ, d.Type)
			assert.Equal(t, tt.label, d.ShortLabel)
		})
	}
}

func TestClassifyHeaderOrder(t *testing.T) {
	assert.Equal(t, Single, ClassifyHeader("S2 single choice rank the brands"))
	assert.Equal(t, Multi, ClassifyHeader("x MULTIPLE CHOICE rank"))
	// The prefix letter never decides the type.
	assert.Equal(t, Multi, ClassifyHeader("S9 (multiple choice)_A"))
}

func TestShortLabel(t *testing.T) {
	long := strings.Repeat("é", 80)
	got := ShortLabel("Q1_" + long)
	assert.Equal(t, 60, len([]rune(got)))

	assert.Equal(t, "line onetwo", ShortLabel("Q1_ line one\ntwo "))
	assert.Equal(t, "Q1_", ShortLabel("Q1_   "))
	assert.Equal(t, "plain header", ShortLabel("  plain header "))

	once := ShortLabel("S1 (single choice)_Brand_Name")
	assert.Equal(t, "Brand_Name", once)
	assert.Equal(t, "Name", ShortLabel(once))

	for _, h := range []string{
		"S1 (single choice)_Likelihood to recommend",
		"no underscore at all",
		"M3_" + long,
	} {
		once := ShortLabel(h)
		assert.Equal(t, once, ShortLabel(once), "idempotent for %q", h)
	}
}

func TestParseQuestionType(t *testing.T) {
	for _, qt := range QuestionTypes {
		got, err := ParseQuestionType(qt.String())
		require.NoError(t, err)
		assert.Equal(t, qt, got)

		got, err = ParseQuestionType(qt.Code())
		require.NoError(t, err)
		assert.Equal(t, qt, got)
	}
	_, err := ParseQuestionType("matrix")
	assert.Error(t, err)
}

func TestCheckType(t *testing.T) {
	require.NoError(t, CheckType("S1", Single, Single))

	err := CheckType("M2", Multi, Single)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	var tm *TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "M2", tm.QuestionID)
	assert.Equal(t, Multi, tm.Actual)
	assert.Equal(t, []QuestionType{Single}, tm.Expected)
	assert.Contains(t, err.Error(), `"M2" is multi, expected single`)
}
