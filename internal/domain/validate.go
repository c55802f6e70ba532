package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// recordRules mirrors ProgressRecord for struct-tag validation.
type recordRules struct {
	Topic  string `validate:"required"`
	Status string `validate:"oneof=not_started completed"`
	Score  *int   `validate:"omitempty,gte=0,lte=100"`
}

// SanitizeQuestions normalizes an externally produced question set and drops entries that
// cannot be presented or scored. Kept questions are re-indexed by position. The returned
// errors describe every dropped entry.
func SanitizeQuestions(raw []Question) ([]Question, []error) {
	out := make([]Question, 0, len(raw))
	var problems []error
	for i, q := range raw {
		q.Prompt = strings.TrimSpace(q.Prompt)
		q.CorrectOption = strings.ToUpper(strings.TrimSpace(q.CorrectOption))
		opts := make([]string, len(q.Options))
		for j, o := range q.Options {
			opts[j] = strings.TrimSpace(o)
		}
		q.Options = opts
		q.Index = len(out)

		if err := validate.Struct(q); err != nil {
			problems = append(problems, &ValidationError{Index: i, Reason: describe(err)})
			continue
		}
		if !q.WellFormed() {
			problems = append(problems, &ValidationError{
				Index:  i,
				Reason: fmt.Sprintf("correct option %q does not match any of %d options", q.CorrectOption, len(q.Options)),
			})
			continue
		}
		out = append(out, q)
	}
	return out, problems
}

// Validate checks the record contract: known status, and a 0-100 score present iff completed.
func (r ProgressRecord) Validate() error {
	if err := validate.Struct(recordRules{Topic: r.Topic, Status: string(r.Status), Score: r.Score}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, describe(err))
	}
	if r.Status == StatusCompleted && r.Score == nil {
		return fmt.Errorf("%w: completed record without score", ErrInvalidRecord)
	}
	if r.Status != StatusCompleted && r.Score != nil {
		return fmt.Errorf("%w: score on %s record", ErrInvalidRecord, r.Status)
	}
	return nil
}

func describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
