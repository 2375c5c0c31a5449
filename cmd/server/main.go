// Command server starts the resume relevance HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-relevance/internal/adapter/ai/openai"
	"github.com/fairyhunter13/resume-relevance/internal/adapter/ai/stub"
	"github.com/fairyhunter13/resume-relevance/internal/adapter/cache"
	"github.com/fairyhunter13/resume-relevance/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-relevance/internal/adapter/nlp/prosenlp"
	"github.com/fairyhunter13/resume-relevance/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-relevance/internal/app"
	"github.com/fairyhunter13/resume-relevance/internal/config"
	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/observability"
	"github.com/fairyhunter13/resume-relevance/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	observability.NewLogger(cfg.LogLevel, cfg.IsDev())
	metrics := observability.NewMetrics(nil)

	ctx := context.Background()

	// Postgres is optional; without it evaluations are not persisted.
	var repo domain.EvaluationRepository
	var pool postgres.PgxPool
	if cfg.DatabaseURL != "" {
		pgPool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pgPool.Close()
		if err := postgres.EnsureSchema(ctx, pgPool); err != nil {
			slog.Error("db schema failed", slog.Any("error", err))
			os.Exit(1)
		}
		pool = pgPool
		repo = postgres.NewEvaluationsRepo(pgPool)
	}

	// Redis is optional; without it every request runs the full pipeline.
	var resultCache domain.ResultCache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		resultCache = cache.New(rdb)
	}

	// AI backends: the real client when configured, the deterministic stub
	// in development so the semantic tier stays exercised offline.
	var embedding domain.EmbeddingBackend
	var llm domain.LLMBackend
	if aiClient := openai.New(cfg, metrics); aiClient.Available() {
		embedding = aiClient
		llm = aiClient
		slog.Info("ai backend configured", slog.String("base_url", cfg.AIBaseURL))
	} else if cfg.IsDev() {
		stubClient := stub.New()
		embedding = stubClient
		llm = stubClient
		slog.Info("ai backend stubbed for development")
	} else {
		slog.Warn("ai backend not configured, semantic tier disabled")
	}

	evalSvc := usecase.NewEvaluateService(usecase.Options{
		NLP:        prosenlp.New(),
		Embedding:  embedding,
		LLM:        llm,
		Repo:       repo,
		Cache:      resultCache,
		Metrics:    metrics,
		Weights:    cfg.Weights,
		Thresholds: cfg.Thresholds,
		Workers:    cfg.WorkerCount,
		Timeout:    cfg.EvaluateTimeout,
		CacheTTL:   cfg.CacheTTL,
	})

	dbCheck, redisCheck := app.BuildReadinessChecks(pool, rdb)
	srv := httpserver.NewServer(cfg, evalSvc, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv, metrics)

	srvHTTP := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.EvaluateTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port), slog.String("env", cfg.AppEnv))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
