package http

import (
	"net/http"
	"time"

	"dsa-mentor-service/internal/app"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterConfig carries the transport settings.
type RouterConfig struct {
	AllowedOrigins []string
	DefaultLearner string
	Log            zerolog.Logger
}

// NewRouter wires the REST endpoints and the assessment websocket.
func NewRouter(service *app.MentorService, cfg RouterConfig) *gin.Engine {
	setupValidator()

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", LearnerHeader, "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(RequestIDMiddleware())
	router.Use(requestLogger(cfg.Log))

	h := &Handler{service: service, defaultLearner: cfg.DefaultLearner}
	ws := NewWSHandler(service, cfg.DefaultLearner, cfg.AllowedOrigins, cfg.Log)

	router.GET("/healthz", func(c *gin.Context) {
		success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/roadmap", h.Roadmap)
	router.GET("/daily", h.DailyLesson)
	router.GET("/mcqs", h.Questions)

	assessments := router.Group("/assessments")
	{
		assessments.POST("", h.StartAssessment)
		assessments.GET("/:id", h.GetAssessment)
		assessments.PUT("/:id/answers/:index", h.SelectAnswer)
		assessments.POST("/:id/submit", h.Submit)
	}

	progress := router.Group("/progress")
	{
		progress.GET("", h.History)
		progress.GET("/summary", h.Summary)
		progress.POST("", h.RecordProgress)
	}

	router.POST("/doubt", h.AskDoubt)
	router.GET("/ws", gin.WrapF(ws.ServeWS))
	return router
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString(ContextKeyRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
