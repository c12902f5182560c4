package survey

import (
	"fmt"
	"strings"
)

// Dataset pairs the question registry with the response table. Both halves
// are immutable; Derive returns a new Dataset.
type Dataset struct {
	Schema    *Schema
	Responses *Responses
}

// NewDataset checks that every response column is described by the schema.
func NewDataset(schema *Schema, responses *Responses) (*Dataset, error) {
	for _, c := range responses.Columns() {
		if _, ok := schema.Lookup(c); !ok {
			return nil, fmt.Errorf("column %q has no descriptor", c)
		}
	}
	return &Dataset{Schema: schema, Responses: responses}, nil
}

// Group resolves a question ID to its columns.
func (d *Dataset) Group(questionID string) (Group, error) {
	return d.Schema.Group(questionID)
}

// Values returns the values of one raw column; unknown columns are all Missing.
func (d *Dataset) Values(column string) []Value {
	if vals, ok := d.Responses.Column(column); ok {
		return vals
	}
	return make([]Value, d.Responses.Len())
}

// Primary returns the first column of a question, which is what single-column
// analyses (NPS, simple crosstabs) read.
func (d *Dataset) Primary(questionID string) (Group, []Value, error) {
	g, err := d.Group(questionID)
	if err != nil {
		return Group{}, nil, err
	}
	return g, d.Values(g.Columns[0].RawColumn), nil
}

// Bucket names a derived category and the raw answers collapsed into it.
type Bucket struct {
	Name   string   `mapstructure:"name" yaml:"name" toml:"name" json:"name"`
	Values []string `mapstructure:"values" yaml:"values" toml:"values" json:"values"`
}

// DerivedQuestion describes a synthetic Single question computed by bucketing
// the first column of an existing question.
type DerivedQuestion struct {
	QuestionID string   `mapstructure:"question_id" yaml:"question_id" toml:"question_id" json:"question_id"`
	Source     string   `mapstructure:"source" yaml:"source" toml:"source" json:"source"`
	Column     string   `mapstructure:"column" yaml:"column,omitempty" toml:"column,omitempty" json:"column,omitempty"`
	Label      string   `mapstructure:"label" yaml:"label,omitempty" toml:"label,omitempty" json:"label,omitempty"`
	Buckets    []Bucket `mapstructure:"buckets" yaml:"buckets" toml:"buckets" json:"buckets"`
}

// Derive registers a derived question and returns a new Dataset. Source
// answers that fall in no bucket become Missing. The receiver is unchanged.
func (d *Dataset) Derive(q DerivedQuestion) (*Dataset, error) {
	if q.QuestionID == "" {
		return nil, &MissingArgumentError{Argument: "derived question id"}
	}
	if q.Source == "" {
		return nil, &MissingArgumentError{Argument: "derived question source"}
	}
	_, src, err := d.Primary(q.Source)
	if err != nil {
		return nil, err
	}
	column := q.Column
	if column == "" {
		column = fmt.Sprintf("%s group from %s", q.QuestionID, q.Source)
	}
	// The derived ID must be recoverable from its own column name.
	if ExtractQuestionID(column) != q.QuestionID {
		column = q.QuestionID + " " + column
	}
	if g, err := d.Group(q.QuestionID); err == nil {
		if _, ok := d.Schema.Lookup(column); !ok || len(g.Columns) > 1 {
			return nil, fmt.Errorf("derived question %q collides with an existing question", q.QuestionID)
		}
	}
	label := q.Label
	if label == "" {
		label = ShortLabel(column)
	}
	lookup := make(map[string]string)
	for _, b := range q.Buckets {
		for _, raw := range b.Values {
			lookup[strings.TrimSpace(raw)] = b.Name
		}
	}
	vals := make([]Value, len(src))
	for i, v := range src {
		if v.IsMissing() {
			continue
		}
		if name, ok := lookup[strings.TrimSpace(v.String())]; ok {
			vals[i] = Text(name)
		}
	}
	responses, err := d.Responses.WithColumn(column, vals)
	if err != nil {
		return nil, err
	}
	schema := d.Schema.With(Descriptor{
		RawColumn:  column,
		QuestionID: q.QuestionID,
		Type:       Single,
		ShortLabel: label,
	})
	return &Dataset{Schema: schema, Responses: responses}, nil
}
