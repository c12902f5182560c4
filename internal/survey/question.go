package survey

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// QuestionType is the closed set of question kinds inferred from headers.
type QuestionType uint8

const (
	Meta QuestionType = iota
	Single
	Multi
	FreeText
	Rank
)

// QuestionTypes lists every QuestionType in declaration order.
var QuestionTypes = []QuestionType{Meta, Single, Multi, FreeText, Rank}

func (t QuestionType) String() string {
	switch t {
	case Meta:
		return "meta"
	case Single:
		return "single"
	case Multi:
		return "multi"
	case FreeText:
		return "free_text"
	case Rank:
		return "rank"
	default:
		return fmt.Sprintf("QuestionType(%d)", uint8(t))
	}
}

// Code returns the one-letter code used in survey exports (S, M, F, R, META).
func (t QuestionType) Code() string {
	switch t {
	case Single:
		return "S"
	case Multi:
		return "M"
	case FreeText:
		return "F"
	case Rank:
		return "R"
	case Meta:
		return "META"
	default:
		return ""
	}
}

// MarshalText lets QuestionType appear by name in JSON and YAML.
func (t QuestionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText accepts either the name or the one-letter code.
func (t *QuestionType) UnmarshalText(b []byte) error {
	v, err := ParseQuestionType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseQuestionType parses a type name (single, multi, ...) or code (S, M, ...).
func ParseQuestionType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meta", "":
		return Meta, nil
	case "single", "s":
		return Single, nil
	case "multi", "m":
		return Multi, nil
	case "free_text", "freetext", "f":
		return FreeText, nil
	case "rank", "r":
		return Rank, nil
	}
	return Meta, fmt.Errorf("unknown question type: %q", s)
}

// Descriptor is the typed metadata of one raw column.
type Descriptor struct {
	RawColumn  string       `json:"raw_column" yaml:"raw_column"`
	QuestionID string       `json:"question_id" yaml:"question_id"`
	Type       QuestionType `json:"type" yaml:"type"`
	ShortLabel string       `json:"short_label" yaml:"short_label"`
}

var questionIDPattern = regexp.MustCompile(`^([A-Za-z]+\d+)`)

const shortLabelLimit = 60

// InferDescriptor builds the descriptor for a single column header.
func InferDescriptor(header string) Descriptor {
	return Descriptor{
		RawColumn:  header,
		QuestionID: ExtractQuestionID(header),
		Type:       ClassifyHeader(header),
		ShortLabel: ShortLabel(header),
	}
}

// ExtractQuestionID returns the leading letters+digits prefix (S66, M10), or "".
func ExtractQuestionID(header string) string {
	m := questionIDPattern.FindStringSubmatch(header)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ClassifyHeader detects the question type from header text. Order matters:
// a header mentioning both "single choice" and "rank" is Single.
func ClassifyHeader(header string) QuestionType {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "single choice"):
		return Single
	case strings.Contains(h, "multiple choice"):
		return Multi
	case strings.Contains(h, "open-ended"):
		return FreeText
	case strings.Contains(h, "rank"):
		return Rank
	default:
		return Meta
	}
}

// ShortLabel keeps the part after the first underscore when it is non-blank,
// otherwise the whole header, truncated to 60 runes with newlines removed.
func ShortLabel(header string) string {
	s := header
	if _, suffix, ok := strings.Cut(header, "_"); ok && strings.TrimSpace(suffix) != "" {
		s = suffix
	}
	s = truncateRunes(s, shortLabelLimit)
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(s)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// prefixType maps the leading letter of a question ID to the type it suggests.
func prefixType(questionID string) (QuestionType, bool) {
	if questionID == "" {
		return Meta, false
	}
	switch questionID[0] {
	case 'S', 's':
		return Single, true
	case 'M', 'm':
		return Multi, true
	case 'F', 'f':
		return FreeText, true
	case 'R', 'r':
		return Rank, true
	}
	return Meta, false
}
