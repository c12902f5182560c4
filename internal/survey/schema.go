package survey

import (
	"fmt"
	"strings"
)

// DefaultFreeTextMarkers identify supplementary free-text columns inside a
// multi-select or rank question by their short label.
var DefaultFreeTextMarkers = []string{"填空", "please specify"}

// Schema is the question registry inferred from column headers. A Schema is
// never modified after construction; With returns a new snapshot.
type Schema struct {
	descs    []Descriptor
	byColumn map[string]int
	groups   map[string][]int
	order    []string
}

// InferSchema produces one descriptor per header, preserving order.
func InferSchema(headers []string) *Schema {
	descs := make([]Descriptor, len(headers))
	for i, h := range headers {
		descs[i] = InferDescriptor(h)
	}
	return newSchema(descs)
}

func newSchema(descs []Descriptor) *Schema {
	s := &Schema{
		descs:    descs,
		byColumn: make(map[string]int, len(descs)),
		groups:   make(map[string][]int),
	}
	for i, d := range descs {
		s.byColumn[d.RawColumn] = i
		if d.QuestionID == "" {
			continue
		}
		if _, seen := s.groups[d.QuestionID]; !seen {
			s.order = append(s.order, d.QuestionID)
		}
		s.groups[d.QuestionID] = append(s.groups[d.QuestionID], i)
	}
	return s
}

// With returns a new Schema with extra descriptors appended. Descriptors whose
// raw column already exists replace the earlier entry.
func (s *Schema) With(extra ...Descriptor) *Schema {
	descs := make([]Descriptor, 0, len(s.descs)+len(extra))
	descs = append(descs, s.descs...)
	for _, d := range extra {
		if i, ok := s.byColumn[d.RawColumn]; ok {
			descs[i] = d
			continue
		}
		descs = append(descs, d)
	}
	return newSchema(descs)
}

// Len returns the number of columns described.
func (s *Schema) Len() int { return len(s.descs) }

// Descriptors returns a copy of all descriptors in column order.
func (s *Schema) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.descs))
	copy(out, s.descs)
	return out
}

// Lookup returns the descriptor of a raw column.
func (s *Schema) Lookup(column string) (Descriptor, bool) {
	i, ok := s.byColumn[column]
	if !ok {
		return Descriptor{}, false
	}
	return s.descs[i], true
}

// QuestionIDs lists non-empty question IDs in order of first appearance.
func (s *Schema) QuestionIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ColumnsByType returns raw columns of the given type in column order.
func (s *Schema) ColumnsByType(t QuestionType) []string {
	var out []string
	for _, d := range s.descs {
		if d.Type == t {
			out = append(out, d.RawColumn)
		}
	}
	return out
}

// Group returns the columns sharing questionID, or a *NotFoundError.
func (s *Schema) Group(questionID string) (Group, error) {
	idx, ok := s.groups[questionID]
	if !ok || len(idx) == 0 {
		return Group{}, &NotFoundError{QuestionID: questionID}
	}
	cols := make([]Descriptor, len(idx))
	for i, j := range idx {
		cols[i] = s.descs[j]
	}
	return Group{QuestionID: questionID, Type: cols[0].Type, Columns: cols}, nil
}

// Mismatch records a column whose prefix letter disagrees with its header text.
type Mismatch struct {
	Column   string
	Prefix   QuestionType
	Detected QuestionType
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: prefix suggests %s, header says %s", m.Column, m.Prefix, m.Detected)
}

// Mismatches reports prefix/type disagreements. They are informational only;
// the header text always wins.
func (s *Schema) Mismatches() []Mismatch {
	var out []Mismatch
	for _, d := range s.descs {
		pt, ok := prefixType(d.QuestionID)
		if !ok || d.Type == Meta || pt == d.Type {
			continue
		}
		out = append(out, Mismatch{Column: d.RawColumn, Prefix: pt, Detected: d.Type})
	}
	return out
}

// Group is the set of raw columns belonging to one logical question.
type Group struct {
	QuestionID string
	Type       QuestionType
	Columns    []Descriptor
}

// Label returns the short label of the group's first column.
func (g Group) Label() string {
	if len(g.Columns) == 0 {
		return g.QuestionID
	}
	return g.Columns[0].ShortLabel
}

// RawColumns returns the raw column names in order.
func (g Group) RawColumns() []string {
	out := make([]string, len(g.Columns))
	for i, d := range g.Columns {
		out[i] = d.RawColumn
	}
	return out
}

// Split divides the group into option columns and free-text columns. A column
// is free text when its short label contains one of markers, case-insensitive.
// With no markers, DefaultFreeTextMarkers apply.
func (g Group) Split(markers ...string) (options, texts []Descriptor) {
	if len(markers) == 0 {
		markers = DefaultFreeTextMarkers
	}
	for _, d := range g.Columns {
		if containsAnyFold(d.ShortLabel, markers) {
			texts = append(texts, d)
		} else {
			options = append(options, d)
		}
	}
	return options, texts
}

func containsAnyFold(s string, needles []string) bool {
	ls := strings.ToLower(s)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(ls, n) {
			return true
		}
	}
	return false
}
