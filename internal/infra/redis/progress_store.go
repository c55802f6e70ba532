package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"dsa-mentor-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ProgressStore keeps learner history in Redis when no Postgres is configured.
// History is a list: RPUSH progress:{learner} {record-json}
// Seen attempts are a set: SADD progress:{learner}:attempts {attemptID}
// The attempt mark and the append run as one script, so a seen attempt always has its record.
type ProgressStore struct {
	client *redis.Client
}

// KEYS[1] history, KEYS[2] attempts; ARGV[1] attempt id (may be empty), ARGV[2] record.
var recordScript = redis.NewScript(`
if ARGV[1] ~= '' and redis.call('SADD', KEYS[2], ARGV[1]) == 0 then
	return 0
end
redis.call('RPUSH', KEYS[1], ARGV[2])
return 1
`)

func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

func (s *ProgressStore) Record(ctx context.Context, learnerID string, record domain.ProgressRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	keys := []string{s.historyKey(learnerID), s.attemptsKey(learnerID)}
	if err := recordScript.Run(ctx, s.client, keys, record.AttemptID, payload).Err(); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func (s *ProgressStore) History(ctx context.Context, learnerID string) ([]domain.ProgressRecord, error) {
	raw, err := s.client.LRange(ctx, s.historyKey(learnerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	out := make([]domain.ProgressRecord, 0, len(raw))
	for _, item := range raw {
		var rec domain.ProgressRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *ProgressStore) historyKey(learnerID string) string {
	return "progress:" + learnerID
}

func (s *ProgressStore) attemptsKey(learnerID string) string {
	return "progress:" + learnerID + ":attempts"
}
