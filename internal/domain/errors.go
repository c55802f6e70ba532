package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when an assessment session does not exist (or was discarded).
	ErrSessionNotFound = errors.New("assessment session not found")
	// ErrQuestionNotFound indicates an answer references an index outside the question set.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidOption indicates a selected letter does not name one of the question's options.
	ErrInvalidOption = errors.New("option not found")
	// ErrIncompleteAnswers is returned when submit is attempted before every question is answered.
	ErrIncompleteAnswers = errors.New("every question must be answered before submitting")
	// ErrSubmissionLocked is returned when answers are changed while submitting or after submission.
	ErrSubmissionLocked = errors.New("answers are locked")
	// ErrNotSubmitted guards per-question results before the attempt is submitted.
	ErrNotSubmitted = errors.New("assessment not submitted")
	// ErrEmptyQuestionSet marks a topic with no usable questions. It is a display state, not a fault.
	ErrEmptyQuestionSet = errors.New("no questions available")
	// ErrPersistenceFailure indicates the progress store rejected or timed out on a record.
	ErrPersistenceFailure = errors.New("failed to save progress")
	// ErrTopicNotFound indicates a topic outside the roadmap.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrInvalidRecord indicates a progress record failed validation.
	ErrInvalidRecord = errors.New("invalid progress record")
	// ErrEmptyDoubt is returned when a doubt question has no text.
	ErrEmptyDoubt = errors.New("doubt is empty")
	// ErrContentUnavailable indicates the lesson/tutor backend could not produce content.
	ErrContentUnavailable = errors.New("content unavailable")
)

// PersistenceError carries the already computed score of a submission the store rejected.
type PersistenceError struct {
	Score int
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%v (score %d kept): %v", ErrPersistenceFailure, e.Score, e.Err)
}

// Is lets errors.Is match ErrPersistenceFailure.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistenceFailure }

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError lists the problems found in one ingested entry.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry %d: %s", e.Index, e.Reason)
}
