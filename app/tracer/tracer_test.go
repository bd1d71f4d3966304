package tracer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracingAndMetricsServesPrometheus(t *testing.T) {
	ctx := context.Background()
	tel, err := InitTracingAndMetrics(ctx, "car-catalog-test", "", slog.Default())
	require.NoError(t, err)
	defer func() { assert.NoError(t, tel.Shutdown(ctx)) }()

	counter, err := otel.Meter("test").Int64Counter("test_hits_total")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	rec := httptest.NewRecorder()
	tel.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "test_hits_total")
}
