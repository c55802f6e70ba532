package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dsa-mentor-service/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionRepository abstracts where live assessment sessions are kept (in-memory, Redis, etc).
// Saving a session replaces the learner's previous attempt.
type SessionRepository interface {
	Save(session *AssessmentSession)
	Get(sessionID string) (*AssessmentSession, bool)
	Delete(sessionID string)
}

// QuestionRepository loads the question set of a topic (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, topic string) ([]domain.Question, error)
}

// ProgressStore persists progress records and returns the full history of a learner.
type ProgressStore interface {
	ProgressRecorder
	History(ctx context.Context, learnerID string) ([]domain.ProgressRecord, error)
}

// ContentProvider produces lesson text and tutor answers.
type ContentProvider interface {
	Lesson(ctx context.Context, topic string) (string, error)
	AnswerDoubt(ctx context.Context, doubt, topic string) (string, error)
}

// MentorService contains the learner-facing use cases.
type MentorService struct {
	sessions  SessionRepository
	questions QuestionRepository
	progress  ProgressStore
	content   ContentProvider
	roadmap   domain.Roadmap
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string
}

func NewMentorService(sessions SessionRepository, questions QuestionRepository, progress ProgressStore, content ContentProvider, roadmap domain.Roadmap, log zerolog.Logger) *MentorService {
	return &MentorService{
		sessions:  sessions,
		questions: questions,
		progress:  progress,
		content:   content,
		roadmap:   roadmap,
		log:       log.With().Str("component", "mentor_service").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Roadmap returns the configured topic order.
func (s *MentorService) Roadmap() domain.Roadmap {
	return s.roadmap
}

// DailyLesson picks the learner's next roadmap topic, makes sure it has a progress entry,
// and returns the lesson for it.
func (s *MentorService) DailyLesson(ctx context.Context, learnerID string) (domain.Lesson, error) {
	history, err := s.progress.History(ctx, learnerID)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("load history: %w", err)
	}
	topic := s.roadmap.NextTopic(history)
	if topic == "" {
		return domain.Lesson{}, domain.ErrTopicNotFound
	}

	if !hasTopic(history, topic) {
		rec := domain.ProgressRecord{Topic: topic, Status: domain.StatusNotStarted, RecordedAt: s.now()}
		if err := s.progress.Record(ctx, learnerID, rec); err != nil {
			// the lesson is still useful without the marker
			s.log.Warn().Err(err).Str("topic", topic).Msg("failed to record not_started entry")
		}
	}

	content, err := s.content.Lesson(ctx, topic)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("generate lesson: %w", err)
	}
	return domain.Lesson{Topic: topic, Content: content}, nil
}

// Questions returns the sanitized question set of a roadmap topic.
func (s *MentorService) Questions(ctx context.Context, topic string) ([]domain.Question, error) {
	if !s.roadmap.Contains(topic) {
		return nil, domain.ErrTopicNotFound
	}
	questions, err := s.questions.GetQuestions(ctx, topic)
	if err != nil && !errors.Is(err, domain.ErrEmptyQuestionSet) {
		return nil, err
	}
	return questions, nil
}

// StartAssessment opens a new attempt for topic, replacing the learner's previous one.
// A topic without questions yields an unavailable session rather than an error.
func (s *MentorService) StartAssessment(ctx context.Context, learnerID, topic string) (*AssessmentSession, error) {
	questions, err := s.Questions(ctx, topic)
	if err != nil {
		return nil, err
	}
	session := NewAssessmentSessionWithClock(s.newID(), learnerID, topic, questions, s.now)
	s.sessions.Save(session)
	s.log.Info().
		Str("session_id", session.ID()).
		Str("learner_id", learnerID).
		Str("topic", topic).
		Int("questions", len(questions)).
		Msg("assessment started")
	return session, nil
}

// Session looks up a live attempt.
func (s *MentorService) Session(_ context.Context, sessionID string) (*AssessmentSession, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SelectAnswer records an answer and returns the updated view.
func (s *MentorService) SelectAnswer(ctx context.Context, sessionID string, index int, letter string) (SessionView, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.SelectAnswer(index, strings.ToUpper(strings.TrimSpace(letter))); err != nil {
		return session.View(), err
	}
	return session.View(), nil
}

// Submit scores the attempt and persists its record. On a persistence failure the view
// still carries the computed score.
func (s *MentorService) Submit(ctx context.Context, sessionID string) (SessionView, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	score, err := session.Submit(ctx, s.progress)
	if err != nil {
		if errors.Is(err, domain.ErrPersistenceFailure) {
			s.log.Error().Err(err).Str("session_id", sessionID).Int("score", score).Msg("progress save failed")
		}
		return session.View(), err
	}
	s.log.Info().Str("session_id", sessionID).Str("topic", session.Topic()).Int("score", score).Msg("assessment submitted")
	return session.View(), nil
}

// Discard drops an attempt, e.g. when its connection goes away. An in-flight submission
// finishes on its own and its outcome is not reported anywhere.
func (s *MentorService) Discard(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// RecordProgress stores an explicit status for a roadmap topic.
func (s *MentorService) RecordProgress(ctx context.Context, learnerID, topic string, status domain.ProgressStatus, score *int) error {
	if !s.roadmap.Contains(topic) {
		return domain.ErrTopicNotFound
	}
	rec := domain.ProgressRecord{
		AttemptID:  s.newID(),
		Topic:      topic,
		Status:     status,
		Score:      score,
		RecordedAt: s.now(),
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := s.progress.Record(ctx, learnerID, rec); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// History returns every stored record of the learner.
func (s *MentorService) History(ctx context.Context, learnerID string) ([]domain.ProgressRecord, error) {
	return s.progress.History(ctx, learnerID)
}

// Summary aggregates the learner's full history against the roadmap length.
func (s *MentorService) Summary(ctx context.Context, learnerID string) (domain.ProgressSummary, error) {
	history, err := s.progress.History(ctx, learnerID)
	if err != nil {
		return domain.ProgressSummary{}, err
	}
	return Aggregate(history, s.roadmap.Len()), nil
}

// AskDoubt forwards a learner question to the tutor.
func (s *MentorService) AskDoubt(ctx context.Context, doubt, topic string) (string, error) {
	doubt = strings.TrimSpace(doubt)
	if doubt == "" {
		return "", domain.ErrEmptyDoubt
	}
	return s.content.AnswerDoubt(ctx, doubt, strings.TrimSpace(topic))
}

func hasTopic(history []domain.ProgressRecord, topic string) bool {
	for _, r := range history {
		if r.Topic == topic {
			return true
		}
	}
	return false
}
