package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"dsa-mentor-service/internal/app"
	"dsa-mentor-service/internal/content"
	"dsa-mentor-service/internal/domain"
	"dsa-mentor-service/internal/infra/postgres"
	pgmigrations "dsa-mentor-service/internal/infra/postgres/migrations"
	infraredis "dsa-mentor-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestAssessmentEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	runMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	curated := postgres.NewQuestionLoader(pool)
	if err := curated.SaveQuestions(ctx, "Arrays", sampleQuestions()); err != nil {
		t.Fatalf("seed questions: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	log := zerolog.Nop()
	loader := content.NewValidated(content.NewChain(log, curated, content.FallbackLoader{}), log)
	progress := postgres.NewProgressStore(pool)
	service := app.NewMentorService(
		infraredis.NewSessionStore(redisClient, 5*time.Minute),
		infraredis.NewQuestionRepository(redisClient, loader, 5*time.Minute),
		progress,
		content.OfflineProvider{},
		domain.NewRoadmap([]string{"Arrays", "Strings"}),
		log,
	)

	session, err := service.StartAssessment(ctx, "u1", "Arrays")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.View().Total != 3 {
		t.Fatalf("expected curated set of 3, got %d", session.View().Total)
	}
	for i, letter := range []string{"A", "B", "A"} {
		if _, err := service.SelectAnswer(ctx, session.ID(), i, letter); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
	}
	view, err := service.Submit(ctx, session.ID())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if view.Score == nil || *view.Score != 67 {
		t.Fatalf("expected score 67, got %v", view.Score)
	}

	// replaying the same record is ignored
	if err := progress.Record(ctx, "u1", domain.CompletedRecord(session.ID(), "Arrays", 67, time.Now())); err != nil {
		t.Fatalf("replay: %v", err)
	}

	// a topic without a curated set falls back to the templated questions
	other, err := service.StartAssessment(ctx, "u1", "Strings")
	if err != nil {
		t.Fatalf("start fallback: %v", err)
	}
	if other.View().Total != len(content.FallbackQuestions("Strings")) {
		t.Fatalf("expected fallback set, got %d questions", other.View().Total)
	}

	history, err := service.History(ctx, "u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].AttemptID != session.ID() {
		t.Fatalf("expected a single stored record, got %+v", history)
	}

	summary, err := service.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := domain.ProgressSummary{CompletedCount: 1, TotalTopics: 2, CompletionPercentage: 50, AverageScore: 67}
	if summary != want {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "mentor", "POSTGRES_PASSWORD": "mentorpass", "POSTGRES_DB": "mentordb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://mentor:mentorpass@%s:%s/mentordb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func runMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Index: 0, Prompt: "Default value of an int[] element?", Options: []string{"0", "null", "-1", "undefined"}, CorrectOption: "A", Explanation: "Numeric arrays are zero-filled."},
		{Index: 1, Prompt: "Length field of an array?", Options: []string{"size()", "length", "count", "len()"}, CorrectOption: "B", Explanation: "Arrays expose a final length field."},
		{Index: 2, Prompt: "Copy an array?", Options: []string{"a = b", "Arrays.copyOf", "a.clone() only", "new int[]"}, CorrectOption: "B", Explanation: "Arrays.copyOf returns a new array."},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
