package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerRoundTrip(t *testing.T) {
	lg := slog.Default().With("component", "test")
	ctx := ContextWithLogger(context.Background(), lg)
	require.Same(t, lg, LoggerFromContext(ctx))
}

func TestLoggerFallback(t *testing.T) {
	assert.NotNil(t, LoggerFromContext(context.Background()))
	assert.NotNil(t, LoggerFromContext(nil)) //nolint:staticcheck
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestRequestIDEmptyIgnored(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithRequestID(ctx, ""))
}

func TestNewMetricsRegisters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	require.NotNil(t, m)
	m.EvaluationsTotal.WithLabelValues("High").Inc()
	m.ObserveStage("extract", 0)
}
