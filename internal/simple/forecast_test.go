package simple

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

var forecastNow = time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)

func period(number int, start, end time.Time) nws.Period {
	return nws.Period{Number: number, StartTime: start, EndTime: end, TemperatureUnit: "F"}
}

func TestForecast_Filtering(t *testing.T) {
	expired := period(1, forecastNow.Add(-2*time.Hour), forecastNow.Add(-time.Hour))
	current := period(2, forecastNow.Add(-time.Hour), forecastNow.Add(2*time.Hour))
	open := period(3, forecastNow.Add(2*time.Hour), time.Time{})

	client := &fakeClient{
		grid: denver,
		forecast: nws.Forecast{
			UpdateTime:  "2024-01-02T19:00:00+00:00",
			GeneratedAt: "2024-01-02T19:30:00+00:00",
			ValidTimes:  "2024-01-02T13:00:00+00:00/P7DT12H",
			Periods:     []nws.Period{expired, current, open},
		},
	}

	t.Run("filtered", func(t *testing.T) {
		n := newTestNWS(client, WithClock(clockwork.NewFakeClockAt(forecastNow)))
		require.NoError(t, n.UpdateForecast(context.Background(), true))

		got := n.Forecast()
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Number)
		assert.Equal(t, "2024-01-02T19:00:00+00:00", n.ForecastMetadata().UpdateTime)
		assert.Equal(t, nws.UnitsUS, client.lastUnits)
	})

	t.Run("unfiltered", func(t *testing.T) {
		n := newTestNWS(client,
			WithClock(clockwork.NewFakeClockAt(forecastNow)),
			WithFilterForecast(false),
			WithUnits(nws.UnitsSI),
		)
		require.NoError(t, n.UpdateForecast(context.Background(), true))
		assert.Len(t, n.Forecast(), 3)
		assert.Equal(t, nws.UnitsSI, client.lastUnits)
	})
}

func TestForecast_NoCurrentPeriods(t *testing.T) {
	clock := clockwork.NewFakeClockAt(forecastNow)
	client := &fakeClient{
		grid:   denver,
		hourly: nws.Forecast{Periods: []nws.Period{period(1, forecastNow, forecastNow.Add(time.Hour))}},
	}
	n := newTestNWS(client, WithClock(clock))
	require.NoError(t, n.UpdateForecastHourly(context.Background(), true))
	require.Len(t, n.ForecastHourly(), 1)

	client.hourly = nws.Forecast{Periods: []nws.Period{period(2, forecastNow.Add(-2*time.Hour), forecastNow.Add(-time.Hour))}}

	err := n.UpdateForecastHourly(context.Background(), true)
	assert.ErrorIs(t, err, nws.ErrNoData)

	require.NoError(t, n.UpdateForecastHourly(context.Background(), false))
	got := n.ForecastHourly()
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Number, "previous forecast kept")

	clock.Advance(2 * time.Hour)
	assert.Empty(t, n.ForecastHourly())
}

func TestConvertPeriod(t *testing.T) {
	temp := 41.0
	p := nws.Period{
		Number:                     1,
		Name:                       "Tonight",
		IsDaytime:                  false,
		Temperature:                &temp,
		TemperatureUnit:            "F",
		ProbabilityOfPrecipitation: nws.QuantitativeValue{UnitCode: "wmoUnit:percent"},
		Dewpoint:                   qv(2.6, "wmoUnit:degC"),
		RelativeHumidity:           qv(67.5, "wmoUnit:percent"),
		WindSpeed:                  "7 to 10 mph",
		WindDirection:              "NW",
		Icon:                       "https://api.weather.gov/icons/land/night/tsra,40/ovc?size=medium",
	}

	fp := convertPeriod(p)

	require.NotNil(t, fp.Temperature)
	assert.Equal(t, 41, *fp.Temperature)
	assert.Zero(t, fp.ProbabilityOfPrecipitation)
	require.NotNil(t, fp.Dewpoint)
	assert.Equal(t, 37, *fp.Dewpoint)
	require.NotNil(t, fp.RelativeHumidity)
	assert.Equal(t, 67, *fp.RelativeHumidity)
	requireFloat(t, 8.5, fp.WindSpeedAvg)
	requireFloat(t, 315, fp.WindBearing)

	forty := 40
	assert.Equal(t, "night", fp.IconTime)
	assert.Equal(t, []domain.IconWeather{
		{Code: "Thunderstorm (high cloud cover)", Chance: &forty},
		{Code: "Overcast"},
	}, fp.IconWeather)
}

func TestPeriodValue(t *testing.T) {
	tests := []struct {
		name     string
		value    nws.QuantitativeValue
		tempUnit string
		want     *int
	}{
		{name: "null", value: nws.QuantitativeValue{UnitCode: "wmoUnit:degC"}, tempUnit: "F"},
		{name: "celsius to fahrenheit", value: qv(5, "wmoUnit:degC"), tempUnit: "F", want: intPtr(41)},
		{name: "fahrenheit to celsius", value: qv(50, "wmoUnit:degF"), tempUnit: "C", want: intPtr(10)},
		{name: "same scale", value: qv(12.9, "wmoUnit:degC"), tempUnit: "C", want: intPtr(12)},
		{name: "percent truncated", value: qv(20.7, "wmoUnit:percent"), tempUnit: "F", want: intPtr(20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, periodValue(tt.value, tt.tempUnit))
		})
	}
}

func TestWindHelpers(t *testing.T) {
	tests := []struct {
		speed   string
		wantAvg *float64
	}{
		{speed: "10 mph", wantAvg: floatPtr(10)},
		{speed: "7 to 10 mph", wantAvg: floatPtr(8.5)},
		{speed: "15 to 25 km/h", wantAvg: floatPtr(20)},
		{speed: "calm"},
		{speed: ""},
	}
	for _, tt := range tests {
		t.Run("speed "+tt.speed, func(t *testing.T) {
			assert.Equal(t, tt.wantAvg, windSpeedAverage(tt.speed))
		})
	}

	assert.Equal(t, floatPtr(0), windBearing("N"))
	assert.Equal(t, floatPtr(22.5), windBearing("NNE"))
	assert.Equal(t, floatPtr(180), windBearing("S"))
	assert.Nil(t, windBearing("VAR"))
}

const snapshotGridpoint = `{
  "updateTime": "2024-01-02T18:00:00+00:00",
  "temperature": {
    "uom": "wmoUnit:degC",
    "values": [{"validTime": "2024-01-02T18:00:00+00:00/PT12H", "value": 10}]
  },
  "skyCover": {
    "uom": "wmoUnit:percent",
    "values": [{"validTime": "2024-01-02T18:00:00+00:00/PT12H", "value": 0}]
  },
  "probabilityOfPrecipitation": {
    "uom": "wmoUnit:percent",
    "values": [{"validTime": "2024-01-02T18:00:00+00:00/PT12H", "value": 0}]
  }
}`

func TestHourlySnapshots(t *testing.T) {
	detailed, err := domain.NewDetailedForecast([]byte(snapshotGridpoint))
	require.NoError(t, err)

	night := period(1, forecastNow, forecastNow.Add(time.Hour))
	night.IsDaytime = false

	client := &fakeClient{
		grid:     denver,
		detailed: detailed,
		hourly:   nws.Forecast{Periods: []nws.Period{night}},
	}
	n := newTestNWS(client, WithClock(clockwork.NewFakeClockAt(forecastNow)))
	_, err = n.Points(context.Background())
	require.NoError(t, err)
	require.NoError(t, n.UpdateDetailedForecast(context.Background()))
	require.NoError(t, n.UpdateForecastHourly(context.Background(), true))

	snaps, err := n.HourlySnapshots(forecastNow, 6)
	require.NoError(t, err)
	require.Len(t, snaps, 6)

	// 20Z is covered by the hourly period
	assert.Equal(t, false, snaps[0][domain.IsDaytime])
	assert.Equal(t, "Clear", snaps[0][domain.ShortForecast])
	assert.Equal(t, "https://api.weather.gov/icons/land/night/skc?size=small", snaps[0][domain.IconURL])

	// 21Z is 14:00 in Denver
	assert.Equal(t, true, snaps[1][domain.IsDaytime])
	assert.Equal(t, "Sunny", snaps[1][domain.ShortForecast])
	assert.Equal(t, "https://api.weather.gov/icons/land/day/skc?size=small", snaps[1][domain.IconURL])

	// 01Z is 18:00 in Denver
	assert.Equal(t, false, snaps[5][domain.IsDaytime])
	assert.Equal(t, 10.0, snaps[5][domain.Temperature])
}

func TestHourlySnapshots_NoDetailedForecast(t *testing.T) {
	n := newTestNWS(&fakeClient{grid: denver})
	_, err := n.HourlySnapshots(forecastNow, 3)
	assert.ErrorIs(t, err, nws.ErrNoData)

	err = n.UpdateDetailedForecast(context.Background())
	assert.ErrorIs(t, err, nws.ErrNoData)
	assert.Nil(t, n.DetailedForecast())
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
