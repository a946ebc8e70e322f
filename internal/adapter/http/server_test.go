package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/nws-forecast-service/internal/adapter/http"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockBatches struct {
	batch []domain.HourlySummary
}

func (m *mockBatches) LatestBatch() []domain.HourlySummary { return m.batch }

func newTestServer(readyErr error, batch []domain.HourlySummary) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, &mockBatches{batch: batch}, logger)
}

func get(t *testing.T, srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(fmt.Errorf("pipeline has not published a forecast yet"), nil), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "pipeline has not published a forecast yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSchemaEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/schema")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var schema struct {
		Schema     string                     `json:"$schema"`
		Title      string                     `json:"title"`
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))

	assert.Empty(t, schema.Schema)
	assert.Equal(t, "HourlySummary", schema.Title)
	assert.Equal(t, "object", schema.Type)
	for _, name := range []string{"id", "run_id", "start_time", "short_forecast", "icon_url", "temperature", "weather"} {
		assert.Contains(t, schema.Properties, name)
	}
	assert.Contains(t, schema.Required, "short_forecast")
	assert.NotContains(t, schema.Required, "temperature")
	assert.Contains(t, string(schema.Properties["temperature"]), "degrees Celsius")
}

func TestForecastEndpoint(t *testing.T) {
	t.Run("no batch yet", func(t *testing.T) {
		rec := get(t, newTestServer(nil, nil), "/forecast/hourly")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("latest batch", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)
		batch := []domain.HourlySummary{
			{ID: "BOU-1", RunID: "run-1", WFO: "BOU", StartTime: start, ShortForecast: "Sunny"},
			{ID: "BOU-2", RunID: "run-1", WFO: "BOU", StartTime: start.Add(time.Hour), ShortForecast: "Mostly Sunny"},
		}
		rec := get(t, newTestServer(nil, batch), "/forecast/hourly")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			RunID     string                 `json:"run_id"`
			Count     int                    `json:"count"`
			Summaries []domain.HourlySummary `json:"summaries"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "run-1", body.RunID)
		assert.Equal(t, 2, body.Count)
		require.Len(t, body.Summaries, 2)
		assert.Equal(t, "Mostly Sunny", body.Summaries[1].ShortForecast)
		assert.True(t, start.Add(time.Hour).Equal(body.Summaries[1].StartTime))
	})
}

func TestUnknownMethodRejected(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/forecast/hourly", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
