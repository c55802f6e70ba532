package content

import (
	"context"
	"errors"

	"dsa-mentor-service/internal/domain"
	"github.com/rs/zerolog"
)

// Loader fetches the raw question set of a topic.
type Loader interface {
	LoadQuestions(ctx context.Context, topic string) ([]domain.Question, error)
}

// Chain tries loaders in order and returns the first non-empty set.
type Chain struct {
	loaders []Loader
	log     zerolog.Logger
}

func NewChain(log zerolog.Logger, loaders ...Loader) *Chain {
	return &Chain{loaders: loaders, log: log.With().Str("component", "question_chain").Logger()}
}

func (c *Chain) LoadQuestions(ctx context.Context, topic string) ([]domain.Question, error) {
	lastErr := domain.ErrEmptyQuestionSet
	for i, l := range c.loaders {
		questions, err := l.LoadQuestions(ctx, topic)
		if err == nil && len(questions) > 0 {
			return questions, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, domain.ErrTopicNotFound) {
				c.log.Warn().Err(err).Int("loader", i).Str("topic", topic).Msg("question loader failed")
			}
			lastErr = err
		}
	}
	if errors.Is(lastErr, domain.ErrTopicNotFound) {
		return nil, domain.ErrEmptyQuestionSet
	}
	return nil, lastErr
}

// Validated sanitizes every set coming out of a loader, logging the dropped entries.
type Validated struct {
	next Loader
	log  zerolog.Logger
}

func NewValidated(next Loader, log zerolog.Logger) *Validated {
	return &Validated{next: next, log: log.With().Str("component", "question_validation").Logger()}
}

func (v *Validated) LoadQuestions(ctx context.Context, topic string) ([]domain.Question, error) {
	raw, err := v.next.LoadQuestions(ctx, topic)
	if err != nil {
		return nil, err
	}
	questions, problems := domain.SanitizeQuestions(raw)
	for _, p := range problems {
		v.log.Warn().Str("topic", topic).Err(p).Msg("dropped malformed question")
	}
	return questions, nil
}
