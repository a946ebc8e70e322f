package pipeline_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/observability"
	"github.com/couchcryptid/nws-forecast-service/internal/pipeline"
	"github.com/couchcryptid/nws-forecast-service/internal/simple"
)

var denverResponses = map[string]string{
	"/points/39.7456,-104.9994": `{
  "properties": {
    "cwa": "BOU", "gridX": 62, "gridY": 60,
    "forecastZone": "https://api.weather.gov/zones/forecast/COZ039",
    "county": "https://api.weather.gov/zones/county/COC031",
    "fireWeatherZone": "https://api.weather.gov/zones/fire/COZ239",
    "timeZone": "America/Denver"
  }
}`,
	"/gridpoints/BOU/62,60": `{
  "properties": {
    "updateTime": "2024-01-02T18:30:00+00:00",
    "temperature": {"uom": "wmoUnit:degF", "values": [{"validTime": "2024-01-02T18:00:00+00:00/PT12H", "value": 50}]},
    "skyCover": {"uom": "wmoUnit:percent", "values": [{"validTime": "2024-01-02T18:00:00+00:00/PT12H", "value": 80}]},
    "probabilityOfPrecipitation": {"uom": "wmoUnit:percent", "values": [{"validTime": "2024-01-02T20:00:00+00:00/PT3H", "value": 42}]},
    "windSpeed": {"uom": "wmoUnit:km_h-1", "values": [{"validTime": "2024-01-02T18:00:00+00:00/PT12H", "value": 10}]},
    "weather": {"values": [
      {"validTime": "2024-01-02T20:00:00+00:00/PT1H", "value": [{"coverage": "chance", "weather": "rain", "intensity": "light"}]},
      {"validTime": "2024-01-02T21:00:00+00:00/PT9H", "value": [{"coverage": null, "weather": null, "intensity": null}]}
    ]}
  }
}`,
	"/gridpoints/BOU/62,60/forecast/hourly": `{
  "properties": {
    "updateTime": "2024-01-02T18:30:00+00:00",
    "periods": [
      {"number": 1, "startTime": "2024-01-02T13:00:00-07:00", "endTime": "2024-01-02T14:00:00-07:00",
       "isDaytime": true, "temperature": 50, "temperatureUnit": "F",
       "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": 42},
       "windSpeed": "6 mph", "windDirection": "N", "shortForecast": "Chance Light Rain"}
    ]
  }
}`,
	"/gridpoints/BOU/62,60/stations": `{
  "features": [{"properties": {"stationIdentifier": "KDEN"}}]
}`,
	"/stations/KDEN/observations/": `{
  "features": [
    {"properties": {"station": "KDEN", "timestamp": "2024-01-02T19:53:00+00:00",
      "rawMessage": "KDEN 021953Z 36005KT 10SM BKN060 10/M02 A3001",
      "temperature": {"unitCode": "wmoUnit:degC", "value": null}}}
  ]
}`,
	"/alerts/active/zone/COZ039": `{
  "features": [{"properties": {"id": "urn:oid:1", "event": "Wind Advisory", "severity": "Moderate"}}]
}`,
	"/alerts/active/zone/COC031": `{"features": []}`,
	"/alerts/active/zone/COZ239": `{"features": []}`,
}

type recordingNWS struct {
	mu    sync.Mutex
	paths []string
}

func (f *recordingNWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	body, ok := denverResponses[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = io.WriteString(w, body)
}

func (f *recordingNWS) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.paths {
		if p == path {
			n++
		}
	}
	return n
}

func TestPipeline_WithNWSSource(t *testing.T) {
	fake := &recordingNWS{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	metrics := observability.NewMetricsForTesting()
	logger := discardLogger()
	clock := clockwork.NewFakeClockAt(testNow)

	client := nws.NewClient("ops@example.com", 5*time.Second, 0, metrics, logger)
	client.SetBaseURL(srv.URL)

	source := simple.New(client, 39.7456, -104.9994,
		simple.WithClock(clock),
		simple.WithLogger(logger),
		simple.WithPointResolver(nws.NewCachedPoints(client, 16, metrics)),
	)

	loader := newMockLoader()
	opts := testOptions(clock)
	opts.ForecastHours = 3
	p := pipeline.New(source, loader, logger, metrics, opts)

	runPipeline(t, p)
	batch := loader.next(t)
	require.Len(t, batch, 3)

	first := batch[0]
	assert.Equal(t, "BOU", first.WFO)
	assert.True(t, first.IsDaytime)
	assert.Equal(t, "Chance Light Rain", first.ShortForecast)
	assert.Equal(t, "https://api.weather.gov/icons/land/day/rain,40?size=small", first.IconURL)
	require.NotNil(t, first.Temperature)
	assert.InDelta(t, 10.0, *first.Temperature, 1e-9)
	require.Len(t, first.Weather, 1)
	assert.Equal(t, "rain", first.Weather[0].Weather)

	// 21Z has no hourly period; 14:00 in Denver is day. Its 42% POP has no
	// weather to attach to.
	second := batch[1]
	assert.True(t, second.IsDaytime)
	assert.Equal(t, "Mostly Cloudy", second.ShortForecast)
	assert.Equal(t, "https://api.weather.gov/icons/land/day/bkn?size=small", second.IconURL)
	assert.Empty(t, second.Weather)

	assert.InDelta(t, float64(time.Date(2024, 1, 2, 18, 30, 0, 0, time.UTC).Unix()),
		testutil.ToFloat64(metrics.ForecastUpdateTime), 0)

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.NewAlerts) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, fake.count("/points/39.7456,-104.9994"))
	assert.Equal(t, 1, fake.count("/stations/KDEN/observations/"))
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.NWSRequests.WithLabelValues("gridpoints", "success")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.PointsCache.WithLabelValues("miss")), 0)
}
