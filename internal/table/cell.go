package table

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CellKind tags how a cell's value is rendered.
type CellKind uint8

const (
	KindBlank CellKind = iota
	KindCount
	KindPercent
	KindDecimal
	KindText
)

// Cell is one value of a result table.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

// Blank is an intentionally empty cell (e.g. the Base row of a percent column).
func Blank() Cell { return Cell{} }

// Count is an integer frequency.
func Count(n int) Cell { return Cell{Kind: KindCount, Num: float64(n)} }

// Percent holds a value already scaled to 0..100; it renders as "N.NN%".
func Percent(p float64) Cell { return Cell{Kind: KindPercent, Num: p} }

// Decimal renders with two decimals.
func Decimal(f float64) Cell { return Cell{Kind: KindDecimal, Num: f} }

// Text is passed through verbatim.
func Text(s string) Cell { return Cell{Kind: KindText, Str: s} }

// IsBlank reports whether c holds nothing.
func (c Cell) IsBlank() bool { return c.Kind == KindBlank }

// Float returns the numeric content of count, percent and decimal cells.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindCount, KindPercent, KindDecimal:
		return c.Num, true
	}
	return 0, false
}

func (c Cell) String() string {
	switch c.Kind {
	case KindCount:
		return strconv.FormatInt(int64(c.Num), 10)
	case KindPercent:
		return fmt.Sprintf("%.2f%%", c.Num)
	case KindDecimal:
		return fmt.Sprintf("%.2f", c.Num)
	case KindText:
		return c.Str
	}
	return ""
}

// MarshalJSON emits counts and decimals as numbers, percentages and text as
// their rendered strings and blanks as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindCount:
		return []byte(strconv.FormatInt(int64(c.Num), 10)), nil
	case KindDecimal:
		return json.Marshal(round2(c.Num))
	case KindPercent, KindText:
		return json.Marshal(c.String())
	}
	return []byte("null"), nil
}
