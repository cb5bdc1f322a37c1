package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basegenius-quiz-service/internal/app"
	"basegenius-quiz-service/internal/badge"
	"basegenius-quiz-service/internal/config"
	"basegenius-quiz-service/internal/domain"
	"basegenius-quiz-service/internal/infra/file"
	"basegenius-quiz-service/internal/infra/memory"
	pgcatalog "basegenius-quiz-service/internal/infra/postgres"
	rediscatalog "basegenius-quiz-service/internal/infra/redis"
	transport "basegenius-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.CatalogLoader
	switch {
	case pool != nil:
		loader = pgcatalog.NewCatalogLoader(pool)
	case cfg.Quiz.CatalogPath != "":
		loader = file.NewCatalogLoader(cfg.Quiz.CatalogPath)
	default:
		log.Printf("no catalog source configured, serving built-in sample questions")
		loader = memory.NewStaticCatalogLoader(sampleCatalog())
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = rediscatalog.NewCatalogRepository(redisClient, loader, quizTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, quizTTL)
	}

	var issuance app.IssuanceLog
	if redisClient != nil {
		issuanceTTL := config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour)
		issuance = rediscatalog.NewIssuanceLog(redisClient, issuanceTTL)
	} else {
		issuance = memory.NewIssuanceLog()
	}

	signer, err := badge.NewSigner(cfg.Signer.PrivateKey)
	if err != nil {
		return err
	}
	if signer.Ready() {
		addr, _ := signer.Address()
		log.Printf("mint signer ready: %s (chain %s)", addr.Hex(), cfg.Chain.ID)
	} else {
		log.Printf("no signer key configured, minting disabled")
	}

	service := app.NewQuizService(catalogRepo, signer, issuance, nil)
	handler := transport.NewQuizHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleCatalog provides a minimal question set so the server runs without a
// catalog document; swap in the weekly generated file for real deployments.
func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		LastUpdated: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		WeekNumber:  1,
		Questions: []domain.Question{
			{
				ID:           1,
				Question:     "Which network is the weekly badge contract deployed to?",
				Options:      []string{"Base", "Ethereum mainnet", "Optimism", "Arbitrum"},
				CorrectIndex: 0,
				SourceURL:    "https://base.org",
				SourceCast:   "@base",
				Explanation:  "The badge contract lives on Base.",
				Difficulty:   domain.DifficultyEasy,
				Category:     "ecosystem",
			},
			{
				ID:           2,
				Question:     "What earns you a mint signature?",
				Options:      []string{"Any submission", "A perfect score", "Three correct answers", "Holding a badge"},
				CorrectIndex: 1,
				SourceURL:    "https://base.org",
				SourceCast:   "@base",
				Explanation:  "Only a perfect score is signed.",
				Difficulty:   domain.DifficultyEasy,
				Category:     "quiz",
			},
		},
	}
}
