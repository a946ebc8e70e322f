package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/invopop/jsonschema"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

// BatchProvider exposes the most recently published hourly summaries.
type BatchProvider interface {
	LatestBatch() []domain.HourlySummary
}

// Server exposes health, readiness, metrics, schema and forecast endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, /schema
// and /forecast/hourly routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, batches BatchProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /schema", handleSchema(summarySchema()))
	mux.HandleFunc("GET /forecast/hourly", handleForecast(batches))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// summarySchema describes the JSON records published for each forecast hour.
func summarySchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.Reflect(&domain.HourlySummary{})
	schema.Version = ""
	schema.Title = "HourlySummary"
	return schema
}

func handleSchema(schema *jsonschema.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		sharedobs.WriteJSON(w, http.StatusOK, schema)
	}
}

func handleForecast(batches BatchProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		batch := batches.LatestBatch()
		if len(batch) == 0 {
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "no forecast published yet",
			})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
			"run_id":    batch[0].RunID,
			"count":     len(batch),
			"summaries": batch,
		})
	}
}
