package redis

import (
	"context"
	"time"

	"dsa-mentor-service/internal/app"
	"dsa-mentor-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions themselves live in a local memory.SessionStore; their state machine
//     is not shared across instances.
//   - Redis holds a liveness marker per session and a learner -> session pointer, so
//     other instances can tell which attempt a learner currently owns.
//   - A session lives as long as its marker; local copies also expire after ttl idle.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	local  *memory.SessionStore
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		local:  memory.NewExpiringSessionStore(ttl, time.Now),
	}
}

func (s *SessionStore) Save(session *app.AssessmentSession) {
	ctx := context.Background()
	learnerKey := s.learnerKey(session.LearnerID())
	if prev, err := s.client.Get(ctx, learnerKey).Result(); err == nil && prev != session.ID() {
		_ = s.client.Del(ctx, s.key(prev)).Err()
	}
	s.local.Save(session)

	// best-effort liveness markers
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(session.ID()), session.LearnerID(), s.ttl)
	pipe.Set(ctx, learnerKey, session.ID(), s.ttl)
	_, _ = pipe.Exec(ctx)
}

// Get returns a local session whose liveness marker still exists and refreshes it.
// A session whose marker expired is evicted. Redis errors keep the local copy.
func (s *SessionStore) Get(sessionID string) (*app.AssessmentSession, bool) {
	session, ok := s.local.Get(sessionID)
	if !ok {
		return nil, false
	}
	alive, err := s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Result()
	if err == nil && !alive {
		s.local.Delete(sessionID)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(sessionID string) {
	ctx := context.Background()
	session, ok := s.local.Get(sessionID)
	s.local.Delete(sessionID)
	_ = s.client.Del(ctx, s.key(sessionID)).Err()
	if !ok {
		return
	}
	learnerKey := s.learnerKey(session.LearnerID())
	if owner, err := s.client.Get(ctx, learnerKey).Result(); err == nil && owner == sessionID {
		_ = s.client.Del(ctx, learnerKey).Err()
	}
}

func (s *SessionStore) key(sessionID string) string {
	return "assessment:session:" + sessionID
}

func (s *SessionStore) learnerKey(learnerID string) string {
	return "assessment:learner:" + learnerID
}
