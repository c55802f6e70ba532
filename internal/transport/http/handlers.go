package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dsa-mentor-service/internal/app"
	"dsa-mentor-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// LearnerHeader names the learner a request acts for. Authentication is out of scope.
const LearnerHeader = "X-Learner-ID"

// Handler serves the REST endpoints.
type Handler struct {
	service        *app.MentorService
	defaultLearner string
}

func (h *Handler) learner(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(LearnerHeader)); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.Query("learner")); id != "" {
		return id
	}
	return h.defaultLearner
}

// GET /roadmap
func (h *Handler) Roadmap(c *gin.Context) {
	success(c, http.StatusOK, gin.H{"topics": h.service.Roadmap().Topics()})
}

// GET /daily
func (h *Handler) DailyLesson(c *gin.Context) {
	lesson, err := h.service.DailyLesson(c.Request.Context(), h.learner(c))
	if err != nil {
		failFromError(c, err)
		return
	}
	success(c, http.StatusOK, lesson)
}

// GET /mcqs?topic=
func (h *Handler) Questions(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	if topic == "" {
		failWithFields(c, map[string]string{"topic": "topic is a required field"})
		return
	}
	questions, err := h.service.Questions(c.Request.Context(), topic)
	if err != nil {
		failFromError(c, err)
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	success(c, http.StatusOK, gin.H{"topic": topic, "mcqs": questions})
}

type startAssessmentRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// POST /assessments
func (h *Handler) StartAssessment(c *gin.Context) {
	var req startAssessmentRequest
	if fields := bind(c, &req); fields != nil {
		failWithFields(c, fields)
		return
	}
	session, err := h.service.StartAssessment(c.Request.Context(), h.learner(c), strings.TrimSpace(req.Topic))
	if err != nil {
		failFromError(c, err)
		return
	}
	success(c, http.StatusCreated, session.View())
}

// GET /assessments/:id
func (h *Handler) GetAssessment(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	success(c, http.StatusOK, session.View())
}

type selectAnswerRequest struct {
	Letter string `json:"letter" binding:"required,len=1,alpha"`
}

// PUT /assessments/:id/answers/:index
func (h *Handler) SelectAnswer(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		failWithFields(c, map[string]string{"index": "index must be a number"})
		return
	}
	var req selectAnswerRequest
	if fields := bind(c, &req); fields != nil {
		failWithFields(c, fields)
		return
	}
	view, err := h.service.SelectAnswer(c.Request.Context(), session.ID(), index, req.Letter)
	if err != nil {
		failFromError(c, err)
		return
	}
	success(c, http.StatusOK, view)
}

// POST /assessments/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	view, err := h.service.Submit(c.Request.Context(), session.ID())
	if err != nil {
		if errors.Is(err, domain.ErrPersistenceFailure) {
			// the score is still shown; the client may retry
			successWithError(c, http.StatusServiceUnavailable, view, ErrPersistence, domain.ErrPersistenceFailure.Error())
			return
		}
		failFromError(c, err)
		return
	}
	success(c, http.StatusOK, view)
}

func (h *Handler) ownedSession(c *gin.Context) (*app.AssessmentSession, bool) {
	session, err := h.service.Session(c.Request.Context(), c.Param("id"))
	if err == nil && session.LearnerID() != h.learner(c) {
		err = domain.ErrSessionNotFound
	}
	if err != nil {
		failFromError(c, err)
		return nil, false
	}
	return session, true
}

// GET /progress
func (h *Handler) History(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), h.learner(c))
	if err != nil {
		failFromError(c, err)
		return
	}
	if history == nil {
		history = []domain.ProgressRecord{}
	}
	success(c, http.StatusOK, gin.H{"records": history})
}

// GET /progress/summary
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), h.learner(c))
	if err != nil {
		failFromError(c, err)
		return
	}
	success(c, http.StatusOK, summary)
}

type recordProgressRequest struct {
	Topic  string `json:"topic" binding:"required"`
	Status string `json:"status" binding:"required,oneof=not_started completed"`
	Score  *int   `json:"score" binding:"omitempty,gte=0,lte=100"`
}

// POST /progress
func (h *Handler) RecordProgress(c *gin.Context) {
	var req recordProgressRequest
	if fields := bind(c, &req); fields != nil {
		failWithFields(c, fields)
		return
	}
	err := h.service.RecordProgress(c.Request.Context(), h.learner(c), req.Topic, domain.ProgressStatus(req.Status), req.Score)
	if err != nil {
		failFromError(c, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"message": "Progress updated"})
}

type doubtRequest struct {
	Doubt string `json:"doubt" binding:"required"`
	Topic string `json:"topic"`
}

// POST /doubt
func (h *Handler) AskDoubt(c *gin.Context) {
	var req doubtRequest
	if fields := bind(c, &req); fields != nil {
		failWithFields(c, fields)
		return
	}
	answer, err := h.service.AskDoubt(c.Request.Context(), req.Doubt, req.Topic)
	if err != nil {
		failFromError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"answer": answer})
}
