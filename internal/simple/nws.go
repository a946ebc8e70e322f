// Package simple keeps the NWS data for one location: its grid cell and
// zones, an observation station, the latest observations, forecasts and
// alerts. It turns raw API responses into unit-converted values.
//
// An NWS value is not safe for concurrent use. The service gives it a single
// owner goroutine.
package simple

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

var (
	// ErrStationRequired is returned by observation updates before a station
	// is set.
	ErrStationRequired = errors.New("station is required: call SetStation first")

	// ErrPointsUnavailable means NWS has no grid cell for the location.
	ErrPointsUnavailable = errors.New("grid point unavailable for location")
)

// Client is the part of the NWS API the façade reads from.
type Client interface {
	domain.PointResolver
	GridpointStations(ctx context.Context, wfo string, x, y int) ([]string, error)
	StationObservations(ctx context.Context, station string, limit int, start time.Time) ([]nws.Observation, error)
	DetailedForecast(ctx context.Context, wfo string, x, y int) (*domain.DetailedForecast, error)
	GridpointForecast(ctx context.Context, wfo string, x, y int, units nws.Units) (nws.Forecast, error)
	GridpointForecastHourly(ctx context.Context, wfo string, x, y int, units nws.Units) (nws.Forecast, error)
	ActiveAlertsForZone(ctx context.Context, zone string) ([]nws.Alert, error)
}

// NWS holds the latest data for one coordinate.
type NWS struct {
	client         Client
	points         domain.PointResolver
	lat, lon       float64
	units          nws.Units
	filterForecast bool
	clock          clockwork.Clock
	logger         *slog.Logger

	grid     domain.GridPoint
	station  string
	stations []string

	observations []nws.Observation
	metars       []*domain.METAR

	forecast           []nws.Period
	forecastMeta       Metadata
	forecastHourly     []nws.Period
	forecastHourlyMeta Metadata
	detailed           *domain.DetailedForecast

	alertsForecastZone    []nws.Alert
	alertsCountyZone      []nws.Alert
	alertsFireWeatherZone []nws.Alert
	alertsAllZones        []nws.Alert
	allZones              []string
}

// Option configures an NWS.
type Option func(*NWS)

// WithFilterForecast controls whether forecast periods that already ended
// are dropped. Filtering is on by default.
func WithFilterForecast(filter bool) Option {
	return func(n *NWS) { n.filterForecast = filter }
}

// WithClock sets the time source used to filter ended periods.
func WithClock(c clockwork.Clock) Option {
	return func(n *NWS) { n.clock = c }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(n *NWS) { n.logger = l }
}

// WithPointResolver resolves the grid point through r instead of the client,
// typically a cache in front of it.
func WithPointResolver(r domain.PointResolver) Option {
	return func(n *NWS) { n.points = r }
}

// WithUnits selects the unit system requested for textual forecasts.
func WithUnits(u nws.Units) Option {
	return func(n *NWS) { n.units = u }
}

// New creates a façade for the coordinate lat, lon.
func New(client Client, lat, lon float64, opts ...Option) *NWS {
	n := &NWS{
		client:         client,
		points:         client,
		lat:            lat,
		lon:            lon,
		units:          nws.UnitsUS,
		filterForecast: true,
		clock:          clockwork.NewRealClock(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Points resolves and remembers the grid cell and zones for the location.
func (n *NWS) Points(ctx context.Context) (domain.GridPoint, error) {
	if n.grid.Valid() {
		return n.grid, nil
	}
	grid, err := n.points.Points(ctx, n.lat, n.lon)
	if err != nil {
		return domain.GridPoint{}, fmt.Errorf("resolve points: %w", err)
	}
	if !grid.Valid() {
		return domain.GridPoint{}, fmt.Errorf("%w: %.4f,%.4f", ErrPointsUnavailable, n.lat, n.lon)
	}
	n.grid = grid
	return grid, nil
}

// Grid returns the resolved grid point, or a zero value before Points.
func (n *NWS) Grid() domain.GridPoint {
	return n.grid
}

// SetStation selects the observation station. An empty station picks the
// first (nearest) station listed for the grid cell.
func (n *NWS) SetStation(ctx context.Context, station string) error {
	if station != "" {
		n.station = station
		if len(n.stations) == 0 {
			n.stations = []string{station}
		}
		return nil
	}

	if len(n.stations) == 0 {
		grid, err := n.Points(ctx)
		if err != nil {
			return err
		}
		stations, err := n.client.GridpointStations(ctx, grid.WFO, grid.X, grid.Y)
		if err != nil {
			return fmt.Errorf("list stations: %w", err)
		}
		if len(stations) == 0 {
			return fmt.Errorf("list stations: %w", nws.ErrNoData)
		}
		n.stations = stations
	}
	n.station = n.stations[0]
	return nil
}

// Station returns the selected station id.
func (n *NWS) Station() string {
	return n.station
}

// Stations returns the known stations, nearest first.
func (n *NWS) Stations() []string {
	return n.stations
}

func noData(what string) error {
	return fmt.Errorf("%s received with no data: %w", what, nws.ErrNoData)
}
