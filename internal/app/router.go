// Package app assembles the HTTP surface: router, middleware chain and
// readiness checks.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-relevance/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-relevance/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-relevance/internal/config"
	"github.com/fairyhunter13/resume-relevance/internal/observability"
)

// BuildRouter constructs the HTTP handler with all middleware and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server, metrics *observability.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(cfg.EvaluateTimeout + 5*time.Second))
	r.Use(httpserver.AccessLog())
	r.Use(httpserver.MetricsMiddleware(metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limit the mutating endpoint only.
	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))
		wr.Post("/v1/evaluate", srv.EvaluateHandler())
	})
	r.Get("/v1/evaluations", srv.ListHandler())
	r.Get("/v1/evaluations/{id}", srv.GetHandler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", srv.ReadyzHandler())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return httpserver.SecurityHeaders(r)
}

func allowedOrigins(cfg config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

// BuildReadinessChecks returns probes for the optional backing stores. A nil
// probe means the store is not configured.
func BuildReadinessChecks(pool postgres.PgxPool, rdb *redis.Client) (dbCheck, redisCheck func(context.Context) error) {
	if pool != nil {
		dbCheck = func(ctx context.Context) error {
			_, err := pool.Exec(ctx, "SELECT 1")
			return err
		}
	}
	if rdb != nil {
		redisCheck = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return dbCheck, redisCheck
}
