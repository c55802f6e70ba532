package postgres

import (
	"context"
	"fmt"
	"time"

	"dsa-mentor-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProgressStore persists progress records in Postgres.
// Records append; a repeated non-empty attempt_id is ignored by the unique index.
type ProgressStore struct {
	pool *pgxpool.Pool
}

func NewProgressStore(pool *pgxpool.Pool) *ProgressStore {
	return &ProgressStore{pool: pool}
}

func (s *ProgressStore) Record(ctx context.Context, learnerID string, record domain.ProgressRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	var attemptID *string
	if record.AttemptID != "" {
		attemptID = &record.AttemptID
	}
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO progress_records (learner_id, attempt_id, topic, status, score, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (learner_id, attempt_id) DO NOTHING`,
		learnerID, attemptID, record.Topic, string(record.Status), record.Score, recordedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert progress record: %w", err)
	}
	return nil
}

func (s *ProgressStore) History(ctx context.Context, learnerID string) ([]domain.ProgressRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT COALESCE(attempt_id, ''), topic, status, score, recorded_at
		FROM progress_records
		WHERE learner_id = $1
		ORDER BY recorded_at, id`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []domain.ProgressRecord
	for rows.Next() {
		var (
			rec    domain.ProgressRecord
			status string
			score  *int32
		)
		if err := rows.Scan(&rec.AttemptID, &rec.Topic, &status, &score, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		rec.Status = domain.ProgressStatus(status)
		if score != nil {
			v := int(*score)
			rec.Score = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
