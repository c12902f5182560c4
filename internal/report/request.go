package report

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Olivia010207/NPS/internal/survey"
)

// AnalysisType selects the calculator a Request is routed to.
type AnalysisType string

const (
	TypeNPS       AnalysisType = "nps"
	TypeNSS       AnalysisType = "nss"
	TypeNSSDetail AnalysisType = "nss_detail"
	TypeRank      AnalysisType = "rank"
	TypeCross     AnalysisType = "cross"
	TypeFactor    AnalysisType = "factor"
	TypeOpen      AnalysisType = "open"
)

// AnalysisTypes lists every analysis in menu order.
var AnalysisTypes = []AnalysisType{TypeNPS, TypeNSS, TypeNSSDetail, TypeRank, TypeCross, TypeFactor, TypeOpen}

// Description is a one-line summary for menus and help text.
func (t AnalysisType) Description() string {
	switch t {
	case TypeNPS:
		return "Net Promoter Score of a 0-10 single-choice question"
	case TypeNSS:
		return "Net Satisfaction Score of 1-5 single-choice columns"
	case TypeNSSDetail:
		return "option frequencies of a multiple-choice question"
	case TypeRank:
		return "rank counts and importance index of a rank question"
	case TypeCross:
		return "cross-tabulation of two questions"
	case TypeFactor:
		return "promoter/detractor driver analysis"
	case TypeOpen:
		return "free-text answers"
	}
	return ""
}

// ParseAnalysisType validates a user-supplied analysis name.
func ParseAnalysisType(s string) (AnalysisType, error) {
	t := AnalysisType(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AnalysisTypes {
		if k == t {
			return t, nil
		}
	}
	names := make([]string, len(AnalysisTypes))
	for i, k := range AnalysisTypes {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown analysis type %q (available: %s)", s, strings.Join(names, ", "))
}

// CrossParams are the cross-analysis arguments.
type CrossParams struct {
	RowID       string            `json:"row_qid" yaml:"row_qid" validate:"required"`
	ColID       string            `json:"col_qid" yaml:"col_qid" validate:"required"`
	RowLabels   map[string]string `json:"row_labels,omitempty" yaml:"row_labels,omitempty"`
	ColLabels   map[string]string `json:"col_labels,omitempty" yaml:"col_labels,omitempty"`
	Statistic   string            `json:"statistic,omitempty" yaml:"statistic,omitempty" validate:"omitempty,oneof=nps mean none"`
	StatRowName string            `json:"stat_row_name,omitempty" yaml:"stat_row_name,omitempty"`
	Percent     bool              `json:"percent,omitempty" yaml:"percent,omitempty"`
	// SplitOptions adds one entry per multi-select option next to the joined table.
	SplitOptions bool  `json:"split_options,omitempty" yaml:"split_options,omitempty"`
	MergeOther   *bool `json:"merge_other,omitempty" yaml:"merge_other,omitempty"`
}

// Request is one analysis invocation.
type Request struct {
	Type        AnalysisType `json:"type" yaml:"type" validate:"required,oneof=nps nss nss_detail rank cross factor open"`
	QuestionIDs []string     `json:"question_ids,omitempty" yaml:"question_ids,omitempty" validate:"required_unless=Type cross,dive,required"`
	Cross       *CrossParams `json:"cross,omitempty" yaml:"cross,omitempty" validate:"required_if=Type cross"`
	// Factors are the driver questions of a factor analysis; QuestionIDs[0]
	// is the NPS question.
	Factors []string `json:"factors,omitempty" yaml:"factors,omitempty" validate:"required_if=Type factor,dive,required"`
	MaxRank int      `json:"max_rank,omitempty" yaml:"max_rank,omitempty" validate:"omitempty,min=1,max=20"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the request. Absent required fields are reported as a
// *survey.MissingArgumentError, joined with any other violations.
func (r Request) Validate() error {
	if r.Type != TypeCross {
		// Cross arguments are ignored by every other analysis.
		r.Cross = nil
	}
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	var (
		missing error
		msgs    []string
	)
	for _, fe := range verrs {
		name := strings.TrimPrefix(fe.Namespace(), "Request.")
		switch fe.Tag() {
		case "required", "required_if", "required_unless":
			if missing == nil {
				missing = &survey.MissingArgumentError{Argument: name}
			}
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", name, fe.Param()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", name, fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", name, fe.Tag()))
		}
	}
	if len(msgs) == 0 {
		return missing
	}
	invalid := fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
	if missing != nil {
		return errors.Join(missing, invalid)
	}
	return invalid
}
