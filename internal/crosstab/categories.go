package crosstab

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// category returns the tabulation key of a value: plain numbers in
// canonical form ("7.0" and "7" share a key), anything else as trimmed text
// so that "1,000" and "1" stay apart. Missing values report false.
func category(v survey.Value) (string, bool) {
	switch v.Kind() {
	case survey.KindMissing:
		return "", false
	case survey.KindNumber:
		if f, ok := v.Float(); ok {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return "", false
	}
	if !strings.ContainsAny(s, "xX_") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
	}
	if s == table.BaseLabel || s == table.TotalLabel {
		// Keep answers apart from the synthetic rows joined by label.
		s += answerSuffix
	}
	return s, true
}

// answerSuffix marks an answer whose text equals a reserved row label.
const answerSuffix = " (answer)"

// mergeOther collapses categories that mention any keyword into label.
func mergeOther(cat string, keywords []string, label string) string {
	lc := strings.ToLower(cat)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(lc, k) {
			return label
		}
	}
	return cat
}

// sortCategories orders numerically when every category is a number and
// lexically otherwise.
func sortCategories(cats []string) {
	numeric := true
	vals := make(map[string]float64, len(cats))
	for _, c := range cats {
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			numeric = false
			break
		}
		vals[c] = f
	}
	if numeric {
		sort.SliceStable(cats, func(i, j int) bool { return vals[cats[i]] < vals[cats[j]] })
		return
	}
	sort.Strings(cats)
}

// distinct returns the sorted set of categories.
func distinct(cats []string) []string {
	seen := make(map[string]bool, len(cats))
	var out []string
	for _, c := range cats {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sortCategories(out)
	return out
}
