package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"dsa-mentor-service/internal/domain"
	"dsa-mentor-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"Recursion Fundamentals": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(client, loader, time.Minute)

	qs, err := repo.GetQuestions(context.Background(), "Recursion Fundamentals")
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.count())
	}
	if !mr.Exists("questions:Recursion Fundamentals") {
		t.Fatalf("expected question set cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetQuestions(context.Background(), "Recursion Fundamentals")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.count())
	}
	if cached[0].Prompt != qs[0].Prompt || cached[0].CorrectOption != "B" || len(cached[0].Options) != 4 {
		t.Fatalf("cached set does not round trip: %+v", cached[0])
	}

	if err := repo.Invalidate(context.Background(), "Recursion Fundamentals"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.GetQuestions(context.Background(), "Recursion Fundamentals")
	if loader.count() != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.count())
	}
}

func TestQuestionRepositoryPassesLoaderErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := memory.NewStaticQuestionLoader(map[string][]domain.Question{"empty": {}})
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	if _, err := repo.GetQuestions(context.Background(), "unknown"); err != domain.ErrTopicNotFound {
		t.Fatalf("expected topic not found, got %v", err)
	}
	if _, err := repo.GetQuestions(context.Background(), "empty"); err != domain.ErrEmptyQuestionSet {
		t.Fatalf("expected empty set, got %v", err)
	}
	if mr.Exists("questions:empty") {
		t.Fatalf("empty set must not be cached")
	}
}

type countingLoader struct {
	memory.QuestionLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, topic string) ([]domain.Question, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuestionLoader.LoadQuestions(ctx, topic)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Index:         0,
			Prompt:        "What is the base case of factorial(n)?",
			Options:       []string{"1", "n == 0", "n == 1 only", "none"},
			CorrectOption: "B",
			Explanation:   "factorial(0) is 1.",
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
