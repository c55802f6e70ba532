package content

import (
	"context"
	"fmt"

	"dsa-mentor-service/internal/domain"
)

type mcqTemplate struct {
	prompt      string
	options     [4]string
	correct     string
	explanation string
}

var fallbackTemplates = []mcqTemplate{
	{"What is a key feature of %s?", [4]string{"Efficient performance", "Easy to understand", "Widely used", "All of the above"}, "D",
		"All of these are important characteristics of %s."},
	{"How would you implement %s in Java?", [4]string{"Using arrays", "Using linked lists", "Using hash tables", "Depends on the use case"}, "D",
		"The implementation of %s depends on the use case; each structure trades performance against memory."},
	{"What is the time complexity of %s operations?", [4]string{"O(1)", "O(n)", "O(log n)", "Depends on implementation"}, "D",
		"The cost of %s operations varies with the implementation and the operation."},
	{"When should you use %s?", [4]string{"Always", "For small datasets", "When you need fast lookups", "Never"}, "C",
		"%s pays off when you need fast lookups or specific performance characteristics."},
	{"What is a limitation of %s?", [4]string{"It's too fast", "Memory overhead", "Difficult to implement", "Cannot store data"}, "B",
		"Like most data structures, %s has memory overhead."},
	{"How does Java handle %s?", [4]string{"Built-in classes", "Custom implementation only", "Through collections framework", "Both A and C"}, "D",
		"Java ships built-in classes for common forms of %s and you can also write your own."},
	{"What is the best practice for %s?", [4]string{"Always use it", "Never use it", "Choose based on requirements", "Use randomly"}, "C",
		"Pick %s only when it fits the requirements best."},
	{"Can %s handle concurrent operations?", [4]string{"Yes, always", "No, never", "Depends on implementation", "Only in Java 8+"}, "C",
		"Thread safety of %s depends on the implementation."},
	{"What interview question about %s is most common?", [4]string{"How to implement it", "When to use it", "Time complexity", "All of the above"}, "D",
		"Interviewers ask about implementation, use cases and performance of %s."},
	{"How do you optimize %s in Java?", [4]string{"Use larger data structures", "Reduce memory usage", "Optimize access patterns", "Add more methods"}, "C",
		"Optimizing %s usually means improving access patterns."},
}

// FallbackQuestions builds the templated set used when no curated or generated set exists.
func FallbackQuestions(topic string) []domain.Question {
	out := make([]domain.Question, len(fallbackTemplates))
	for i, t := range fallbackTemplates {
		out[i] = domain.Question{
			Index:         i,
			Prompt:        fmt.Sprintf(t.prompt, topic),
			Options:       append([]string(nil), t.options[:]...),
			CorrectOption: t.correct,
			Explanation:   fmt.Sprintf(t.explanation, topic),
		}
	}
	return out
}

// FallbackLoader serves FallbackQuestions for any topic.
type FallbackLoader struct{}

func (FallbackLoader) LoadQuestions(_ context.Context, topic string) ([]domain.Question, error) {
	return FallbackQuestions(topic), nil
}

// OfflineProvider answers lesson and doubt requests when no LLM is configured.
type OfflineProvider struct{}

func (OfflineProvider) Lesson(_ context.Context, topic string) (string, error) {
	return fmt.Sprintf("# %s\n\nLesson generation is not configured. Study %s from your course notes, "+
		"then take the assessment.", topic, topic), nil
}

func (OfflineProvider) AnswerDoubt(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: tutor is not configured", domain.ErrContentUnavailable)
}
