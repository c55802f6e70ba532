package http

import (
	"errors"
	"net/http"
	"time"

	"dsa-mentor-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrCode identifies an API error independent of its message.
type ErrCode string

const (
	ErrValidation         ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload     ErrCode = "INVALID_PAYLOAD"
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrTopicNotFound      ErrCode = "TOPIC_NOT_FOUND"
	ErrSessionNotFound    ErrCode = "SESSION_NOT_FOUND"
	ErrInvalidOption      ErrCode = "INVALID_OPTION"
	ErrIncompleteAnswers  ErrCode = "INCOMPLETE_ANSWERS"
	ErrSubmissionLocked   ErrCode = "SUBMISSION_LOCKED"
	ErrNotSubmitted       ErrCode = "NOT_SUBMITTED"
	ErrNoQuestions        ErrCode = "NO_QUESTIONS"
	ErrPersistence        ErrCode = "PERSISTENCE_FAILED"
	ErrContentUnavailable ErrCode = "CONTENT_UNAVAILABLE"
	ErrInternal           ErrCode = "INTERNAL_ERROR"
)

// ContextKeyRequestID is the gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// Response is the envelope of every REST reply.
type Response struct {
	Data     interface{} `json:"data"`
	Error    *ErrorBody  `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// RequestIDMiddleware tags each request with X-Request-ID, reusing the caller's when given.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Data: data, Metadata: metadata(c)})
}

// successWithError reports a domain failure while still returning data, e.g. the session
// view carrying a kept score after a failed save.
func successWithError(c *gin.Context, status int, data interface{}, code ErrCode, message string) {
	c.JSON(status, Response{
		Data:     data,
		Error:    &ErrorBody{Code: code, Message: message},
		Metadata: metadata(c),
	})
}

func fail(c *gin.Context, status int, code ErrCode, message string) {
	c.JSON(status, Response{
		Error:    &ErrorBody{Code: code, Message: message},
		Metadata: metadata(c),
	})
}

func failWithFields(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, Response{
		Error:    &ErrorBody{Code: ErrValidation, Message: "validation failed", Fields: fields},
		Metadata: metadata(c),
	})
}

// failFromError maps domain errors to status codes.
func failFromError(c *gin.Context, err error) {
	status, code := classify(err)
	message := err.Error()
	if code == ErrInternal {
		message = "internal server error"
	}
	fail(c, status, code, message)
}

func classify(err error) (int, ErrCode) {
	switch {
	case errors.Is(err, domain.ErrTopicNotFound):
		return http.StatusNotFound, ErrTopicNotFound
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, ErrSessionNotFound
	case errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound, ErrNotFound
	case errors.Is(err, domain.ErrInvalidOption):
		return http.StatusBadRequest, ErrInvalidOption
	case errors.Is(err, domain.ErrInvalidRecord), errors.Is(err, domain.ErrEmptyDoubt):
		return http.StatusBadRequest, ErrValidation
	case errors.Is(err, domain.ErrIncompleteAnswers):
		return http.StatusConflict, ErrIncompleteAnswers
	case errors.Is(err, domain.ErrSubmissionLocked):
		return http.StatusConflict, ErrSubmissionLocked
	case errors.Is(err, domain.ErrNotSubmitted):
		return http.StatusConflict, ErrNotSubmitted
	case errors.Is(err, domain.ErrEmptyQuestionSet):
		return http.StatusConflict, ErrNoQuestions
	case errors.Is(err, domain.ErrPersistenceFailure):
		return http.StatusServiceUnavailable, ErrPersistence
	case errors.Is(err, domain.ErrContentUnavailable):
		return http.StatusBadGateway, ErrContentUnavailable
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}

func metadata(c *gin.Context) Metadata {
	id := c.GetString(ContextKeyRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	return Metadata{
		RequestID: id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
