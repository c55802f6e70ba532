package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dsa-mentor-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"Recursion Fundamentals": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestions(context.Background(), "Recursion Fundamentals"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	qs, err := repo.GetQuestions(context.Background(), "Recursion Fundamentals")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}

	// callers get their own copy
	qs[0].Options[0] = "mutated"
	again, _ := repo.GetQuestions(context.Background(), "Recursion Fundamentals")
	if again[0].Options[0] != "1" {
		t.Fatalf("cache entry was mutated through a returned slice")
	}
}

func TestQuestionRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{"t": sampleQuestions()}),
	}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuestions(context.Background(), "t")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuestions(context.Background(), "t")
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, got %d loads", loader.count())
	}
}

func TestQuestionRepositoryDoesNotCacheEmptySets(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{"empty": {}}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := repo.GetQuestions(context.Background(), "empty"); !errors.Is(err, domain.ErrEmptyQuestionSet) {
			t.Fatalf("expected empty set error, got %v", err)
		}
	}
	if loader.count() != 2 {
		t.Fatalf("expected empty set to be reloaded, got %d loads", loader.count())
	}
}

type countingLoader struct {
	QuestionLoader
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
