package survey

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the three states of a cell.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

// Value is an optional scalar cell. The zero Value is Missing, which is
// distinct from Number(0) and Text("").
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Missing returns the absent value.
func Missing() Value { return Value{} }

// Number wraps a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string cell as-is.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Cell converts a raw spreadsheet cell: blank (after trim) becomes Missing,
// anything else is kept as text and coerced on demand.
func Cell(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return Missing()
	}
	return Text(raw)
}

// Kind reports which state v is in.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is absent.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float coerces v to a number. Text is parsed with locale-aware separator
// detection; anything unparsable or NaN reports false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) {
			return 0, false
		}
		return v.num, true
	case KindText:
		return parseNumeric(v.str)
	}
	return 0, false
}

// Int coerces v to an integer; non-integral numbers report false.
func (v Value) Int() (int, bool) {
	f, ok := v.Float()
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// String renders the value; Missing renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.str
	}
	return ""
}

// MarshalJSON renders Missing as null, numbers as numbers and text as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.str)
	}
	return []byte("null"), nil
}

// parseNumeric accepts plain numbers, a trailing percent sign, and numbers
// with well-formed digit grouping in either convention ("1,000.5",
// "1.000,5"). A lone comma not followed by exactly three digits is a decimal
// comma ("0,25"). Inner whitespace or malformed groups report false.
func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	if raw == "" || strings.ContainsAny(raw, "xX_") {
		return 0, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, finite(f)
	}
	norm, ok := normalizeSeparators(raw)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// normalizeSeparators rewrites a grouped or decimal-comma number into the
// form strconv understands.
func normalizeSeparators(raw string) (string, bool) {
	sign := ""
	if raw[0] == '-' || raw[0] == '+' {
		sign, raw = raw[:1], raw[1:]
	}
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	var group, dec byte
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			group, dec = '.', ','
		} else {
			group, dec = ',', '.'
		}
	case cpos >= 0:
		// "1,000" and "1,000,000" group; "0,25" is a decimal comma.
		if strings.Count(raw, ",") > 1 || len(raw)-cpos-1 == 3 {
			group = ','
		} else {
			dec = ','
		}
	default:
		// Only dots and ParseFloat already failed: "1.000.000".
		group = '.'
	}
	intPart, frac := raw, ""
	if dec != 0 {
		k := strings.LastIndexByte(raw, dec)
		intPart, frac = raw[:k], raw[k+1:]
		if frac == "" || !allDigits(frac) {
			return "", false
		}
	}
	if group != 0 && strings.IndexByte(intPart, group) >= 0 {
		groups := strings.Split(intPart, string(group))
		if len(groups[0]) < 1 || len(groups[0]) > 3 {
			return "", false
		}
		for k, g := range groups {
			if !allDigits(g) || (k > 0 && len(g) != 3) {
				return "", false
			}
		}
		intPart = strings.Join(groups, "")
	}
	if intPart == "" || !allDigits(intPart) {
		return "", false
	}
	if frac != "" {
		return sign + intPart + "." + frac, true
	}
	return sign + intPart, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
