package nws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/nws-forecast-service/internal/domain"
	"github.com/couchcryptid/nws-forecast-service/internal/observability"
)

const (
	// DefaultBaseURL is the root of the public NWS API.
	DefaultBaseURL = "https://api.weather.gov"

	acceptGeoJSON = "application/geo+json"
)

// Client talks to api.weather.gov. It implements domain.PointResolver.
type Client struct {
	userAgent  string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an NWS API client. NWS asks callers to identify
// themselves, so userID (ideally a contact email) is sent in the User-Agent.
// rps bounds the request rate; zero disables limiting.
func NewClient(userID string, timeout time.Duration, rps float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		userAgent: userAgent(userID),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: DefaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

// SetBaseURL points the client at another API root, such as a test server.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

func userAgent(userID string) string {
	return fmt.Sprintf("nws-forecast-service (%s)", userID)
}

// Points resolves a coordinate to its forecast office, grid cell and zones.
// A response without properties yields a zero GridPoint and no error.
func (c *Client) Points(ctx context.Context, lat, lon float64) (domain.GridPoint, error) {
	path := fmt.Sprintf("/points/%s,%s", formatCoord(lat), formatCoord(lon))

	var resp feature[*pointsProperties]
	if err := c.doRequest(ctx, "points", path, nil, &resp); err != nil {
		return domain.GridPoint{}, err
	}
	p := resp.Properties
	if p == nil || p.CWA == "" {
		return domain.GridPoint{}, nil
	}
	return domain.GridPoint{
		Geo:             domain.Geo{Lat: lat, Lon: lon},
		WFO:             p.CWA,
		X:               p.GridX,
		Y:               p.GridY,
		ForecastZone:    lastSegment(p.ForecastZone),
		CountyZone:      lastSegment(p.County),
		FireWeatherZone: lastSegment(p.FireWeatherZone),
		TimeZone:        p.TimeZone,
	}, nil
}

// GridpointStations lists observation station identifiers for a grid cell,
// nearest first.
func (c *Client) GridpointStations(ctx context.Context, wfo string, x, y int) ([]string, error) {
	var resp featureCollection[stationProperties]
	if err := c.doRequest(ctx, "stations", gridpointPath(wfo, x, y)+"/stations", nil, &resp); err != nil {
		return nil, err
	}
	stations := make([]string, 0, len(resp.Features))
	for _, f := range resp.Features {
		stations = append(stations, f.Properties.StationIdentifier)
	}
	return stations, nil
}

// StationObservations returns recent observations for station, newest first.
// limit <= 0 and a zero start are omitted from the request.
func (c *Client) StationObservations(ctx context.Context, station string, limit int, start time.Time) ([]Observation, error) {
	params, err := requestParams(limit, start, "")
	if err != nil {
		return nil, err
	}

	var resp featureCollection[Observation]
	path := "/stations/" + url.PathEscape(station) + "/observations/"
	if err := c.doRequest(ctx, "observations", path, params, &resp); err != nil {
		return nil, err
	}
	obs := make([]Observation, 0, len(resp.Features))
	for _, f := range resp.Features {
		obs = append(obs, f.Properties)
	}
	slices.SortStableFunc(obs, func(a, b Observation) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return obs, nil
}

// LatestObservation returns the most recent observation for station.
func (c *Client) LatestObservation(ctx context.Context, station string) (Observation, error) {
	var resp feature[Observation]
	path := "/stations/" + url.PathEscape(station) + "/observations/latest"
	if err := c.doRequest(ctx, "observations_latest", path, nil, &resp); err != nil {
		return Observation{}, err
	}
	return resp.Properties, nil
}

// DetailedForecast fetches the raw gridpoint layers for a grid cell.
func (c *Client) DetailedForecast(ctx context.Context, wfo string, x, y int) (*domain.DetailedForecast, error) {
	var resp feature[json.RawMessage]
	if err := c.doRequest(ctx, "gridpoints", gridpointPath(wfo, x, y), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Properties) == 0 || bytes.Equal(resp.Properties, []byte("null")) {
		return nil, fmt.Errorf("gridpoint %s/%d,%d: %w", wfo, x, y, ErrNoData)
	}
	f, err := domain.NewDetailedForecast(resp.Properties)
	if err != nil {
		return nil, fmt.Errorf("gridpoint %s/%d,%d: %w", wfo, x, y, err)
	}
	return f, nil
}

// GridpointForecast fetches the twelve-hour textual forecast.
func (c *Client) GridpointForecast(ctx context.Context, wfo string, x, y int, units Units) (Forecast, error) {
	return c.forecast(ctx, "forecast", gridpointPath(wfo, x, y)+"/forecast", units)
}

// GridpointForecastHourly fetches the hourly textual forecast.
func (c *Client) GridpointForecastHourly(ctx context.Context, wfo string, x, y int, units Units) (Forecast, error) {
	return c.forecast(ctx, "forecast_hourly", gridpointPath(wfo, x, y)+"/forecast/hourly", units)
}

func (c *Client) forecast(ctx context.Context, endpoint, path string, units Units) (Forecast, error) {
	params, err := requestParams(0, time.Time{}, units)
	if err != nil {
		return Forecast{}, err
	}
	var resp feature[Forecast]
	if err := c.doRequest(ctx, endpoint, path, params, &resp); err != nil {
		return Forecast{}, err
	}
	return resp.Properties, nil
}

// ActiveAlertsForZone lists alerts currently in effect for a zone id such as
// "COZ039".
func (c *Client) ActiveAlertsForZone(ctx context.Context, zone string) ([]Alert, error) {
	var resp featureCollection[Alert]
	if err := c.doRequest(ctx, "alerts", "/alerts/active/zone/"+url.PathEscape(zone), nil, &resp); err != nil {
		return nil, err
	}
	alerts := make([]Alert, 0, len(resp.Features))
	for _, f := range resp.Features {
		alerts = append(alerts, f.Properties)
	}
	return alerts, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", acceptGeoJSON)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.NWSAPIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.NWSRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("nws response", "url", fullURL, "status", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.NWSRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.NWSRequests.WithLabelValues(endpoint, "error").Inc()
		return &StatusError{StatusCode: resp.StatusCode, URL: fullURL, Body: string(body)}
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		c.metrics.NWSRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s response from %s is not a JSON object", endpoint, fullURL)
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.NWSRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	c.metrics.NWSRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func requestParams(limit int, start time.Time, units Units) (url.Values, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if !start.IsZero() {
		params.Set("start", start.Format(time.RFC3339))
	}
	if !units.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnits, units)
	}
	if units != "" {
		params.Set("units", string(units))
	}
	return params, nil
}

func gridpointPath(wfo string, x, y int) string {
	return fmt.Sprintf("/gridpoints/%s/%d,%d", url.PathEscape(wfo), x, y)
}

// NWS redirects requests with more than four decimal places.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}
