package survey

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is; the typed errors below unwrap to them.
var (
	ErrNotFound        = errors.New("not found")
	ErrTypeMismatch    = errors.New("question type mismatch")
	ErrMissingArgument = errors.New("missing argument")
)

// NotFoundError indicates a question ID with no matching columns in the schema.
type NotFoundError struct {
	QuestionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("question %q not found: no matching columns", e.QuestionID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TypeMismatchError indicates a calculator was invoked on a question whose
// inferred type is not in its accepted set.
type TypeMismatchError struct {
	QuestionID string
	Expected   []QuestionType
	Actual     QuestionType
}

func (e *TypeMismatchError) Error() string {
	want := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		want[i] = t.String()
	}
	return fmt.Sprintf("question %q is %s, expected %s", e.QuestionID, e.Actual, strings.Join(want, "/"))
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// MissingArgumentError indicates a required analysis parameter was not supplied.
type MissingArgumentError struct {
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Argument)
}

func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }

// CheckType returns a *TypeMismatchError unless actual is one of expected.
func CheckType(questionID string, actual QuestionType, expected ...QuestionType) error {
	for _, t := range expected {
		if t == actual {
			return nil
		}
	}
	return &TypeMismatchError{QuestionID: questionID, Expected: expected, Actual: actual}
}
