package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := SetupLogger("production", &buf)
	l.Info("hello", slog.String("k", "v"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

func TestSetupLoggerProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := SetupLogger("production", &buf)
	l.Debug("noisy")
	assert.Empty(t, buf.String())
}

func TestStructuredLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	h := StructuredLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cars", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Request completed", entry["msg"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "/api/cars", entry["path"])
}
