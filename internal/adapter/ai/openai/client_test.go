package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-relevance/internal/config"
	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/internal/observability"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AIBaseURL:       baseURL,
		AIAPIKey:        "test-key",
		EmbeddingsModel: "text-embedding-3-small",
		ChatModel:       "gpt-4o-mini",
		AITimeout:       2 * time.Second,
		AIMaxRetries:    1,
	}
}

func TestEmbedSuccessCountsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.1, 0.2}},
				{"embedding": []float64{0.3, 0.4}},
			},
		})
	}))
	defer srv.Close()

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	c := New(testConfig(srv.URL), metrics)

	vecs, err := c.Embed(context.Background(), []string{"python", "golang"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.InDelta(t, 0.1, float64(vecs[0][0]), 1e-6)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BackendCallsTotal.WithLabelValues("embed", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.BackendCallsTotal.WithLabelValues("embed", "error")))
}

func TestEmbedPermanentFailureCountsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	c := New(testConfig(srv.URL), metrics)

	_, err := c.Embed(context.Background(), []string{"python"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BackendCallsTotal.WithLabelValues("embed", "error")))
}

func TestGenerateSuccessCountsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "a solid candidate"}},
			},
		})
	}))
	defer srv.Close()

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	c := New(testConfig(srv.URL), metrics)

	out, err := c.Generate(context.Background(), "assess this candidate", 100, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "a solid candidate", out)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BackendCallsTotal.WithLabelValues("generate", "ok")))
}

func TestUnconfiguredClient(t *testing.T) {
	c := New(config.Config{}, nil)
	assert.False(t, c.Available())

	_, err := c.Embed(context.Background(), []string{"python"})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)

	_, err = c.Generate(context.Background(), "prompt", 10, 0)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
