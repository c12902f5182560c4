// Package metrics implements the single-question calculators: NPS, NSS,
// rank importance, multi-select detail, free-text collection and NPS driver
// analysis. Every calculator is a pure function of the values it is given.
package metrics

import (
	"github.com/Olivia010207/NPS/internal/survey"
)

// Column is one raw column's values with its display label.
type Column struct {
	Label  string
	Values []survey.Value
}

// Columns extracts the given descriptors' values from ds.
func Columns(ds *survey.Dataset, descs []survey.Descriptor) []Column {
	out := make([]Column, len(descs))
	for i, d := range descs {
		out[i] = Column{Label: d.ShortLabel, Values: ds.Values(d.RawColumn)}
	}
	return out
}

// scoreInRange returns the integer score of v when it lies in [lo, hi].
func scoreInRange(v survey.Value, lo, hi int) (int, bool) {
	n, ok := v.Int()
	if !ok || n < lo || n > hi {
		return 0, false
	}
	return n, true
}
