package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"basegenius-quiz-service/internal/app"
	"basegenius-quiz-service/internal/badge"
	"basegenius-quiz-service/internal/domain"
	pgcatalog "basegenius-quiz-service/internal/infra/postgres"
	pgmigrations "basegenius-quiz-service/internal/infra/postgres/migrations"
	infraredis "basegenius-quiz-service/internal/infra/redis"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

const (
	signerKey  = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testWallet = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
)

func TestQuizFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCatalog(t, ctx, pgURL, sampleCatalog())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgcatalog.NewCatalogLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	catalogRepo := infraredis.NewCatalogRepository(redisClient, loader, 5*time.Minute)
	issuance := infraredis.NewIssuanceLog(redisClient, time.Hour)

	signer, err := badge.NewSigner(signerKey)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	service := app.NewQuizService(catalogRepo, signer, issuance, rand.New(rand.NewSource(1)))

	page, err := service.Questions(ctx, "", nil)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if page.WeekNumber != 7 || len(page.Questions) != 5 {
		t.Fatalf("unexpected page: week %d, %d questions", page.WeekNumber, len(page.Questions))
	}

	// Answer everything correctly straight from the seeded catalog.
	catalog := sampleCatalog()
	submissions := make([]domain.AnswerSubmission, 0, len(page.Questions))
	for _, view := range page.Questions {
		q, ok := catalog.FindQuestion(view.ID)
		if !ok {
			t.Fatalf("served question %d not in seeded catalog", view.ID)
		}
		submissions = append(submissions, domain.AnswerSubmission{QuestionID: q.ID, SelectedIndex: q.CorrectIndex})
	}

	grading, outcome, week, err := service.SubmitAnswers(ctx, submissions, testWallet)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !grading.IsPerfectScore || week != 7 {
		t.Fatalf("expected perfect week-7 score, got %+v week %d", grading, week)
	}
	if !outcome.CanMint || outcome.Signature == "" {
		t.Fatalf("expected mint authorization, got %+v", outcome)
	}

	signerAddr, _ := signer.Address()
	recovered, err := badge.RecoverMinter(common.HexToAddress(testWallet), week, outcome.Signature)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if recovered != signerAddr {
		t.Fatalf("signature recovers to %s, want %s", recovered, signerAddr)
	}

	// Issuance audit entry lands in redis.
	issued, err := redisClient.HGet(ctx, "mint:issued:7", common.HexToAddress(testWallet).Hex()).Result()
	if err != nil || issued == "" {
		t.Fatalf("expected issuance record, got %q err %v", issued, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
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
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
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

func seedCatalog(t *testing.T, ctx context.Context, dsn string, catalog domain.Catalog) {
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

	data, err := json.Marshal(catalog)
	if err != nil {
		t.Fatalf("marshal catalog: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO question_catalogs (week_number, data) VALUES (?, ?::jsonb) ON CONFLICT (week_number) DO UPDATE SET data=EXCLUDED.data`, catalog.WeekNumber, string(data)); err != nil {
		t.Fatalf("insert catalog: %v", err)
	}
}

func sampleCatalog() domain.Catalog {
	questions := make([]domain.Question, 0, 6)
	for i := 1; i <= 6; i++ {
		questions = append(questions, domain.Question{
			ID:           i,
			Question:     fmt.Sprintf("Sample question %d", i),
			Options:      []string{"right", "wrong", "wrong", "wrong"},
			CorrectIndex: 0,
			SourceURL:    "https://example.com/cast",
			Explanation:  "The first option is right",
			Difficulty:   domain.DifficultyEasy,
			Category:     "general",
		})
	}
	return domain.Catalog{WeekNumber: 7, TotalQuestions: len(questions), Questions: questions}
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
