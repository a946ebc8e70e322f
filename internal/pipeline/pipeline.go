package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
	"github.com/couchcryptid/nws-forecast-service/internal/observability"
	"github.com/couchcryptid/nws-forecast-service/internal/simple"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Source is the single-location forecast state the poller refreshes.
// It is implemented by *simple.NWS.
type Source interface {
	Points(ctx context.Context) (domain.GridPoint, error)
	SetStation(ctx context.Context, station string) error
	Station() string
	UpdateObservation(ctx context.Context, limit int, start time.Time, raiseNoData bool) error
	Observation() *simple.Observation
	UpdateForecastHourly(ctx context.Context, raiseNoData bool) error
	UpdateDetailedForecast(ctx context.Context) error
	DetailedForecast() *domain.DetailedForecast
	HourlySnapshots(start time.Time, hours int) ([]domain.Snapshot, error)
	UpdateAlertsAllZones(ctx context.Context) ([]nws.Alert, error)
}

// BatchLoader writes one run's hourly summaries to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, summaries []domain.HourlySummary) error
}

// Options tune the poll loop.
type Options struct {
	PollInterval  time.Duration
	ForecastHours int
	// Station is the observation station; empty selects the nearest one.
	Station string
	Retry   nws.RetryPolicy
	Clock   clockwork.Clock
}

// Pipeline polls NWS for one location and publishes hourly summaries.
type Pipeline struct {
	source  Source
	loader  BatchLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
	clock   clockwork.Clock
	ready   atomic.Bool

	mu     sync.RWMutex
	latest []domain.HourlySummary
}

// New creates a Pipeline with the given source, sink and observability.
func New(source Source, loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:  source,
		loader:  loader,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
		clock:   clock,
	}
}

// CheckReadiness returns nil once a batch has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published a forecast yet")
	}
	return nil
}

// LatestBatch returns a copy of the most recently published summaries.
func (p *Pipeline) LatestBatch() []domain.HourlySummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.latest)
}

// Run polls every PollInterval until the context is cancelled. A failed poll
// is retried with exponential backoff instead of waiting for the next tick.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"poll_interval", p.opts.PollInterval,
		"forecast_hours", p.opts.ForecastHours,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := p.clock.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	backoff := initialBackoff
	for {
		if err := p.poll(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			p.logger.Error("poll failed", "error", err, "backoff", backoff)
			if !sharedretry.SleepWithContext(ctx, backoff) {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			backoff = sharedretry.NextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = initialBackoff

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// poll runs one fetch-summarize-publish cycle.
func (p *Pipeline) poll(ctx context.Context) error {
	start := p.clock.Now()
	runID := ulid.Make().String()
	logger := p.logger.With("run_id", runID)

	grid, err := p.source.Points(ctx)
	if err != nil {
		return err
	}

	if err := nws.Retry(ctx, p.opts.Retry, p.source.UpdateDetailedForecast); err != nil {
		return fmt.Errorf("update detailed forecast: %w", err)
	}
	if f := p.source.DetailedForecast(); f != nil {
		p.metrics.ForecastUpdateTime.Set(float64(f.UpdateTime().Unix()))
	}

	hourlyPolicy := p.opts.Retry
	hourlyPolicy.RetryNoData = true
	err = nws.Retry(ctx, hourlyPolicy, func(ctx context.Context) error {
		return p.source.UpdateForecastHourly(ctx, true)
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Day and night fall back to local clock hours.
		logger.Warn("hourly forecast unavailable", "error", err)
	}

	snaps, err := p.source.HourlySnapshots(start, p.opts.ForecastHours)
	if err != nil {
		return fmt.Errorf("hourly snapshots: %w", err)
	}
	summaries := p.transform(grid, snaps, runID, logger)
	if len(summaries) == 0 {
		return errors.New("no hourly summaries built")
	}
	p.metrics.BatchSize.Observe(float64(len(summaries)))

	if err := p.loader.LoadBatch(ctx, summaries); err != nil {
		return fmt.Errorf("load batch: %w", err)
	}
	p.metrics.SummariesPublished.Add(float64(len(summaries)))
	p.metrics.BatchProcessingDuration.Observe(p.clock.Since(start).Seconds())

	p.mu.Lock()
	p.latest = summaries
	p.mu.Unlock()
	p.ready.Store(true)

	logger.Info("forecast published",
		"wfo", grid.WFO,
		"grid_x", grid.X,
		"grid_y", grid.Y,
		"count", len(summaries),
	)

	p.refreshObservation(ctx, logger)
	p.refreshAlerts(ctx, logger)
	return nil
}

// refreshObservation logs the latest station conditions. Failures only warn.
func (p *Pipeline) refreshObservation(ctx context.Context, logger *slog.Logger) {
	if p.source.Station() == "" {
		if err := p.source.SetStation(ctx, p.opts.Station); err != nil {
			logger.Warn("station unavailable", "error", err)
			return
		}
	}
	if err := p.source.UpdateObservation(ctx, 1, time.Time{}, false); err != nil {
		logger.Warn("observation update failed", "station", p.source.Station(), "error", err)
		return
	}
	obs := p.source.Observation()
	if obs == nil {
		return
	}
	attrs := []any{"station", p.source.Station(), "description", obs.TextDescription}
	if obs.Temperature != nil {
		attrs = append(attrs, "temperature_c", *obs.Temperature)
	}
	logger.Info("current conditions", attrs...)
}

// refreshAlerts logs and counts alerts first seen in this cycle.
func (p *Pipeline) refreshAlerts(ctx context.Context, logger *slog.Logger) {
	alerts, err := p.source.UpdateAlertsAllZones(ctx)
	if err != nil {
		logger.Warn("alerts update failed", "error", err)
		return
	}
	p.metrics.NewAlerts.Add(float64(len(alerts)))
	for _, a := range alerts {
		logger.Info("new alert",
			"alert_id", a.ID,
			"event", a.Event,
			"severity", a.Severity,
			"headline", a.Headline,
		)
	}
}
