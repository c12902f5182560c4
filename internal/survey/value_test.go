package survey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueKinds(t *testing.T) {
	assert.True(t, Missing().IsMissing())
	assert.True(t, Cell("   ").IsMissing())
	assert.False(t, Number(0).IsMissing())
	assert.False(t, Text("").IsMissing())
	assert.Equal(t, KindText, Cell("7").Kind())
	assert.Equal(t, "", Missing().String())
	assert.Equal(t, "7.5", Number(7.5).String())
}

func TestValueFloat(t *testing.T) {
	tests := []struct {
		in   Value
		want float64
		ok   bool
	}{
		{Number(3), 3, true},
		{Text("10"), 10, true},
		{Text(" 9 "), 9, true},
		{Text("1.000,5"), 1000.5, true},
		{Text("1,000.5"), 1000.5, true},
		{Text("0,25"), 0.25, true},
		{Text("50%"), 50, true},
		{Text("1,000"), 1000, true},
		{Text("12.345.678"), 12345678, true},
		{Text("3, 4"), 0, false},
		{Text("1 2 3"), 0, false},
		{Text("1,00,0"), 0, false},
		{Text("0x1p-2"), 0, false},
		{Text("n/a"), 0, false},
		{Text("NaN"), 0, false},
		{Text("Inf"), 0, false},
		{Missing(), 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.in.Float()
		assert.Equal(t, tt.ok, ok, "ok for %q", tt.in.String())
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9)
		}
	}
}

func TestValueInt(t *testing.T) {
	n, ok := Text("8").Int()
	assert.True(t, ok)
	assert.Equal(t, 8, n)
	_, ok = Text("8.5").Int()
	assert.False(t, ok)
	_, ok = Missing().Int()
	assert.False(t, ok)
}

func TestValueMarshalJSON(t *testing.T) {
	b, err := json.Marshal([]Value{Missing(), Number(2), Text("a")})
	assert.NoError(t, err)
	assert.JSONEq(t, `[null, 2, "a"]`, string(b))
}
