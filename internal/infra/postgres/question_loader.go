package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dsa-mentor-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads curated question sets (JSONB) from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, topic string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE topic=$1`, topic).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTopicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal question set: %w", err)
	}
	return questions, nil
}

// SaveQuestions stores (or replaces) the curated set of a topic.
func (l *QuestionLoader) SaveQuestions(ctx context.Context, topic string, questions []domain.Question) error {
	payload, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO question_sets (topic, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (topic) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		topic, payload)
	if err != nil {
		return fmt.Errorf("save question set: %w", err)
	}
	return nil
}
