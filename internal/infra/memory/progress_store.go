package memory

import (
	"context"
	"sync"

	"dsa-mentor-service/internal/domain"
)

// ProgressStore keeps progress history in process memory, in arrival order.
// A record whose AttemptID is already stored is accepted and ignored, so replays are safe.
type ProgressStore struct {
	mu       sync.RWMutex
	records  map[string][]domain.ProgressRecord
	attempts map[string]struct{}
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		records:  make(map[string][]domain.ProgressRecord),
		attempts: make(map[string]struct{}),
	}
}

func (s *ProgressStore) Record(_ context.Context, learnerID string, record domain.ProgressRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.AttemptID != "" {
		key := learnerID + "/" + record.AttemptID
		if _, seen := s.attempts[key]; seen {
			return nil
		}
		s.attempts[key] = struct{}{}
	}
	if record.Score != nil {
		score := *record.Score
		record.Score = &score
	}
	s.records[learnerID] = append(s.records[learnerID], record)
	return nil
}

func (s *ProgressStore) History(_ context.Context, learnerID string) ([]domain.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProgressRecord, len(s.records[learnerID]))
	copy(out, s.records[learnerID])
	return out, nil
}
