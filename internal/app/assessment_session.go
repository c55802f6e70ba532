package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dsa-mentor-service/internal/domain"
)

// SessionState is the lifecycle phase of one assessment attempt.
type SessionState int

const (
	StateLoading SessionState = iota // no questions; never submittable
	StateInProgress
	StateSubmitting
	StateSubmitted
	StateSubmitFailed // store rejected the record; score kept, retry allowed
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in_progress"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateSubmitFailed:
		return "submit_failed"
	}
	return "unknown"
}

// ProgressRecorder persists one record per submitted attempt.
type ProgressRecorder interface {
	Record(ctx context.Context, learnerID string, record domain.ProgressRecord) error
}

// QuestionResult is the post-submission feedback for one question.
type QuestionResult struct {
	Index       int    `json:"index"`
	Selected    string `json:"selected,omitempty"`
	Correct     string `json:"correct"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// QuestionView is a question as shown while answering; the correct letter is withheld.
type QuestionView struct {
	Index   int      `json:"index"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// SessionView is a snapshot of a session for the presentation layer.
type SessionView struct {
	ID        string           `json:"id"`
	Topic     string           `json:"topic"`
	State     string           `json:"state"`
	Available bool             `json:"available"`
	Answered  int              `json:"answered"`
	Total     int              `json:"total"`
	CanSubmit bool             `json:"canSubmit"`
	Score     *int             `json:"score,omitempty"`
	Questions []QuestionView   `json:"questions"`
	Answers   map[int]string   `json:"answers"`
	Results   []QuestionResult `json:"results,omitempty"`
}

// AssessmentSession owns the answers of one quiz attempt. The question set is fixed at
// creation. Once submitted the answers are frozen; a new attempt needs a new session.
type AssessmentSession struct {
	id        string
	learnerID string
	topic     string
	questions []domain.Question
	createdAt time.Time
	now       func() time.Time

	mu       sync.Mutex
	state    SessionState
	answers  map[int]string
	revision int
	pending  *domain.ProgressRecord
}

// NewAssessmentSession starts an attempt over an already sanitized question set.
func NewAssessmentSession(id, learnerID, topic string, questions []domain.Question) *AssessmentSession {
	return NewAssessmentSessionWithClock(id, learnerID, topic, questions, time.Now)
}

// NewAssessmentSessionWithClock allows deterministic timestamps in tests.
func NewAssessmentSessionWithClock(id, learnerID, topic string, questions []domain.Question, now func() time.Time) *AssessmentSession {
	qs := make([]domain.Question, len(questions))
	copy(qs, questions)
	state := StateInProgress
	if len(qs) == 0 {
		state = StateLoading
	}
	return &AssessmentSession{
		id:        id,
		learnerID: learnerID,
		topic:     topic,
		questions: qs,
		createdAt: now(),
		now:       now,
		state:     state,
		answers:   make(map[int]string, len(qs)),
	}
}

func (s *AssessmentSession) ID() string {
	return s.id
}

func (s *AssessmentSession) LearnerID() string {
	return s.learnerID
}

func (s *AssessmentSession) Topic() string {
	return s.topic
}

func (s *AssessmentSession) CreatedAt() time.Time {
	return s.createdAt
}

// Available is false for an empty question set, which is shown as "not available".
func (s *AssessmentSession) Available() bool { return len(s.questions) > 0 }

// State returns the current lifecycle phase.
func (s *AssessmentSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Answered is the count used for the progress bar.
func (s *AssessmentSession) Answered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// SelectAnswer records or overwrites the answer for a question. It is rejected without
// effect while submitting, after submission, and for an empty question set. Changing an
// answer after a failed submission returns the session to in progress.
func (s *AssessmentSession) SelectAnswer(index int, letter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateLoading:
		return domain.ErrEmptyQuestionSet
	case StateSubmitting, StateSubmitted:
		return domain.ErrSubmissionLocked
	}

	q, ok := s.question(index)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if !q.HasOption(letter) {
		return domain.ErrInvalidOption
	}

	if prev, ok := s.answers[index]; ok && prev == letter {
		return nil
	}
	s.answers[index] = letter
	if s.state == StateSubmitFailed {
		// answers changed, so the kept score no longer describes them
		s.state = StateInProgress
		s.pending = nil
		s.revision++
	}
	return nil
}

// CanSubmit reports whether every question is answered and the session accepts a submission.
func (s *AssessmentSession) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSubmitLocked()
}

func (s *AssessmentSession) canSubmitLocked() bool {
	if s.state != StateInProgress && s.state != StateSubmitFailed {
		return false
	}
	return len(s.questions) > 0 && len(s.answers) == len(s.questions)
}

// Submit scores the attempt and asks store to persist the resulting record. The store call
// is made without holding the session lock; the submitting state rejects concurrent
// selections and submissions. On store failure the session moves to submit_failed, keeps
// the score, and returns a *domain.PersistenceError. Retrying replays the same record.
func (s *AssessmentSession) Submit(ctx context.Context, store ProgressRecorder) (int, error) {
	s.mu.Lock()
	switch {
	case s.state == StateLoading:
		s.mu.Unlock()
		return 0, domain.ErrEmptyQuestionSet
	case s.state == StateSubmitting || s.state == StateSubmitted:
		s.mu.Unlock()
		return 0, domain.ErrSubmissionLocked
	case !s.canSubmitLocked():
		s.mu.Unlock()
		return 0, domain.ErrIncompleteAnswers
	}

	if s.pending == nil {
		score, err := Score(s.questions, s.answers)
		if err != nil {
			s.mu.Unlock()
			return 0, err
		}
		rec := domain.CompletedRecord(s.attemptIDLocked(), s.topic, score, s.now())
		s.pending = &rec
	}
	s.state = StateSubmitting
	record := *s.pending
	s.mu.Unlock()

	err := store.Record(ctx, s.learnerID, record)

	s.mu.Lock()
	defer s.mu.Unlock()
	score := *record.Score
	if err != nil {
		s.state = StateSubmitFailed
		return score, &domain.PersistenceError{Score: score, Err: err}
	}
	s.state = StateSubmitted
	return score, nil
}

func (s *AssessmentSession) attemptIDLocked() string {
	if s.revision == 0 {
		return s.id
	}
	return fmt.Sprintf("%s-r%d", s.id, s.revision)
}

// Score returns the computed score once submitted, or the kept score after a failed save.
func (s *AssessmentSession) Score() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreLocked()
}

func (s *AssessmentSession) scoreLocked() (int, bool) {
	if s.pending == nil || (s.state != StateSubmitted && s.state != StateSubmitFailed) {
		return 0, false
	}
	return *s.pending.Score, true
}

// PerQuestionResult is only defined after submission.
func (s *AssessmentSession) PerQuestionResult(index int) (QuestionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitted {
		return QuestionResult{}, domain.ErrNotSubmitted
	}
	q, ok := s.question(index)
	if !ok {
		return QuestionResult{}, domain.ErrQuestionNotFound
	}
	return s.resultLocked(q), nil
}

// Results returns feedback for every question, in order.
func (s *AssessmentSession) Results() ([]QuestionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitted {
		return nil, domain.ErrNotSubmitted
	}
	return s.resultsLocked(), nil
}

func (s *AssessmentSession) resultsLocked() []QuestionResult {
	out := make([]QuestionResult, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, s.resultLocked(q))
	}
	return out
}

func (s *AssessmentSession) resultLocked(q domain.Question) QuestionResult {
	selected := s.answers[q.Index]
	return QuestionResult{
		Index:       q.Index,
		Selected:    selected,
		Correct:     q.CorrectOption,
		IsCorrect:   isCorrect(q, selected),
		Explanation: q.Explanation,
	}
}

// View snapshots the session for rendering.
func (s *AssessmentSession) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		ID:        s.id,
		Topic:     s.topic,
		State:     s.state.String(),
		Available: len(s.questions) > 0,
		Answered:  len(s.answers),
		Total:     len(s.questions),
		CanSubmit: s.canSubmitLocked(),
		Questions: make([]QuestionView, 0, len(s.questions)),
		Answers:   make(map[int]string, len(s.answers)),
	}
	for _, q := range s.questions {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		view.Questions = append(view.Questions, QuestionView{Index: q.Index, Prompt: q.Prompt, Options: opts})
	}
	for k, v := range s.answers {
		view.Answers[k] = v
	}
	if score, ok := s.scoreLocked(); ok {
		view.Score = &score
	}
	if s.state == StateSubmitted {
		view.Results = s.resultsLocked()
	}
	return view
}

func (s *AssessmentSession) question(index int) (domain.Question, bool) {
	for _, q := range s.questions {
		if q.Index == index {
			return q, true
		}
	}
	return domain.Question{}, false
}
