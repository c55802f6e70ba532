package http

import (
	"context"
	"time"

	"dsa-mentor-service/internal/app"
	"dsa-mentor-service/internal/domain"
	"dsa-mentor-service/internal/infra/memory"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type stubContent struct{}

func (stubContent) Lesson(_ context.Context, topic string) (string, error) {
	return "# " + topic, nil
}

func (stubContent) AnswerDoubt(_ context.Context, doubt, _ string) (string, error) {
	return "answer to " + doubt, nil
}

type testEnv struct {
	router   *gin.Engine
	service  *app.MentorService
	progress *memory.ProgressStore
}

func newTestEnv() testEnv {
	gin.SetMode(gin.TestMode)
	loader := memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"Arrays": sampleQuestions(),
		"Graphs": {},
	})
	progress := memory.NewProgressStore()
	service := app.NewMentorService(
		memory.NewSessionStore(),
		memory.NewQuestionRepository(loader, time.Minute),
		progress,
		stubContent{},
		domain.NewRoadmap([]string{"Arrays", "Graphs"}),
		zerolog.Nop(),
	)
	router := NewRouter(service, RouterConfig{DefaultLearner: "default", Log: zerolog.Nop()})
	return testEnv{router: router, service: service, progress: progress}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Index: 0, Prompt: "Index of the first element?", Options: []string{"0", "1", "-1", "n"}, CorrectOption: "A", Explanation: "Java arrays are zero based."},
		{Index: 1, Prompt: "Access cost by index?", Options: []string{"O(n)", "O(1)", "O(log n)", "O(n^2)"}, CorrectOption: "B", Explanation: "Random access is constant time."},
	}
}
