package cli

import (
	"context"
	"fmt"
	"time"

	"dsa-mentor-service/internal/app"
	"dsa-mentor-service/internal/config"
	"dsa-mentor-service/internal/content"
	"dsa-mentor-service/internal/domain"
	"dsa-mentor-service/internal/infra/memory"
	"dsa-mentor-service/internal/infra/postgres"
	redisinfra "dsa-mentor-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// backends holds the connections opened from config. Either may be nil.
type backends struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return b, nil
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// progressStore prefers Postgres, then Redis, then process memory.
func (b *backends) progressStore() app.ProgressStore {
	switch {
	case b.pool != nil:
		return postgres.NewProgressStore(b.pool)
	case b.redis != nil:
		return redisinfra.NewProgressStore(b.redis)
	default:
		return memory.NewProgressStore()
	}
}

func (b *backends) sessionStore(ttl time.Duration) app.SessionRepository {
	if b.redis != nil {
		return redisinfra.NewSessionStore(b.redis, ttl)
	}
	return memory.NewExpiringSessionStore(ttl, time.Now)
}

// questionRepository builds curated -> generated -> templated loading behind validation and a cache.
func (b *backends) questionRepository(cfg config.Config, generator *content.Generator, log zerolog.Logger) app.QuestionRepository {
	var loaders []content.Loader
	if b.pool != nil {
		loaders = append(loaders, postgres.NewQuestionLoader(b.pool))
	}
	if generator != nil {
		loaders = append(loaders, generator)
	}
	loaders = append(loaders, content.FallbackLoader{})
	loader := content.NewValidated(content.NewChain(log, loaders...), log)

	ttl := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if b.redis != nil {
		return redisinfra.NewQuestionRepository(b.redis, loader, ttl)
	}
	return memory.NewQuestionRepository(loader, ttl)
}

// newGenerator returns nil when no LLM key is configured.
func newGenerator(cfg config.Config, log zerolog.Logger) *content.Generator {
	client, err := content.NewClient(content.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		log.Warn().Err(err).Msg("llm disabled; using offline lessons and templated questions")
		return nil
	}
	return content.NewGenerator(client, cfg.Quiz.QuestionCount)
}

func newService(ctx context.Context, cfg config.Config, log zerolog.Logger) (*app.MentorService, *backends, error) {
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	generator := newGenerator(cfg, log)
	var provider app.ContentProvider = content.OfflineProvider{}
	if generator != nil {
		provider = generator
	}
	service := app.NewMentorService(
		b.sessionStore(config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)),
		b.questionRepository(cfg, generator, log),
		b.progressStore(),
		provider,
		domain.NewRoadmap(cfg.Roadmap.Topics),
		log,
	)
	return service, b, nil
}
