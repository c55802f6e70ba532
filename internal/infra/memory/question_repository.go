package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"dsa-mentor-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the question set of a topic from a backing store or generator.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, topic string) ([]domain.Question, error)
}

// QuestionRepository caches question sets with TTL so a topic is generated/loaded once per window.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, topic string) ([]domain.Question, error) {
	if qs, ok := r.lookup(topic, r.clock()); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(topic, func() (interface{}, error) {
		now := r.clock()
		if qs, ok := r.lookup(topic, now); ok {
			return qs, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, topic)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			// empty sets are not cached so a later load can fill them
			return []domain.Question(nil), domain.ErrEmptyQuestionSet
		}

		r.mu.Lock()
		r.cache[topic] = cachedSet{
			questions: questions,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(result.([]domain.Question)), nil
}

func (r *QuestionRepository) lookup(topic string, now time.Time) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[topic]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return clone(entry.questions), true
}

// StaticQuestionLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewStaticQuestionLoader(sets map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{sets: sets}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, topic string) ([]domain.Question, error) {
	if qs, ok := l.sets[topic]; ok {
		return clone(qs), nil
	}
	return nil, domain.ErrTopicNotFound
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func clone(in []domain.Question) []domain.Question {
	if in == nil {
		return nil
	}
	out := make([]domain.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
