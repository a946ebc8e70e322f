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

	httpadapter "github.com/couchcryptid/nws-forecast-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/nws-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/config"
	"github.com/couchcryptid/nws-forecast-service/internal/observability"
	"github.com/couchcryptid/nws-forecast-service/internal/pipeline"
	"github.com/couchcryptid/nws-forecast-service/internal/simple"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := nws.NewClient(cfg.NWSUserID, cfg.NWSTimeout, cfg.NWSRateLimit, metrics, logger)
	client.SetBaseURL(cfg.NWSBaseURL)

	source := simple.New(client, cfg.Latitude, cfg.Longitude,
		simple.WithLogger(logger),
		simple.WithPointResolver(nws.NewCachedPoints(client, cfg.NWSCacheSize, metrics)),
	)
	logger.Info("forecasting location",
		"lat", cfg.Latitude, "lon", cfg.Longitude,
		"hours", cfg.ForecastHours, "poll_interval", cfg.PollInterval)

	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(source, writer, logger, metrics, pipeline.Options{
		PollInterval:  cfg.PollInterval,
		ForecastHours: cfg.ForecastHours,
		Station:       cfg.Station,
		Retry: nws.RetryPolicy{
			Interval: cfg.RetryInterval,
			Stop:     cfg.RetryStop,
			OnRetry: func(err error, wait time.Duration) {
				logger.Warn("nws request failed, retrying", "error", err, "wait", wait)
			},
		},
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
