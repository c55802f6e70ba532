package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"dsa-mentor-service/internal/domain"
	"dsa-mentor-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionRepository caches whole question sets in Redis and falls back to a loader on cache miss.
// Sets are stored as JSON: SET questions:{topic} [...] EX ttl
type QuestionRepository struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuestionRepository(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, topic string) ([]domain.Question, error) {
	if qs, ok := r.cached(ctx, topic); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(topic, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if qs, ok := r.cached(ctx, topic); ok {
			return qs, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, topic)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return nil, domain.ErrEmptyQuestionSet
		}

		payload, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		// best-effort: a failed write only costs a reload
		_ = r.client.Set(ctx, r.key(topic), payload, r.ttlWithJitter()).Err()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(ctx context.Context, topic string) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, r.key(topic)).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

// Invalidate drops the cached set of a topic.
func (r *QuestionRepository) Invalidate(ctx context.Context, topic string) error {
	return r.client.Del(ctx, r.key(topic)).Err()
}

func (r *QuestionRepository) key(topic string) string {
	return "questions:" + topic
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
