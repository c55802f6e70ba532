package content

import (
	"context"
	"encoding/json"
	"fmt"

	"dsa-mentor-service/internal/domain"
)

// DefaultQuestionCount is how many questions a generated set asks for.
const DefaultQuestionCount = 10

// Generator produces lessons, question sets and tutor answers through a chat Client.
type Generator struct {
	client *Client
	count  int
}

func NewGenerator(client *Client, questionCount int) *Generator {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	return &Generator{client: client, count: questionCount}
}

// Lesson returns markdown lesson text for topic.
func (g *Generator) Lesson(ctx context.Context, topic string) (string, error) {
	return g.client.complete(ctx, completion{
		System:      lessonSystem,
		User:        lessonPrompt(topic),
		Temperature: 0.7,
		MaxTokens:   2000,
	})
}

// AnswerDoubt answers a learner question, optionally scoped to a topic.
func (g *Generator) AnswerDoubt(ctx context.Context, doubt, topic string) (string, error) {
	return g.client.complete(ctx, completion{
		System:      doubtSystem,
		User:        doubtPrompt(doubt, topic),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
}

type generatedMCQ struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation"`
}

// LoadQuestions generates a question set. Entries failing the schema are dropped;
// a reply with none left is an empty set.
func (g *Generator) LoadQuestions(ctx context.Context, topic string) ([]domain.Question, error) {
	reply, err := g.client.complete(ctx, completion{
		System:      mcqSystem,
		User:        mcqPrompt(topic, g.count),
		Temperature: 0.5,
		MaxTokens:   3000,
	})
	if err != nil {
		return nil, err
	}
	items, err := decodeMCQs(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
	}
	out := make([]domain.Question, 0, len(items))
	for _, item := range items {
		var mcq generatedMCQ
		if err := json.Unmarshal(item, &mcq); err != nil {
			continue
		}
		out = append(out, domain.Question{
			Index:         len(out),
			Prompt:        mcq.Question,
			Options:       mcq.Options,
			CorrectOption: mcq.Correct,
			Explanation:   mcq.Explanation,
		})
	}
	return out, nil
}
