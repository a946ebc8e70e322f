package simple

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

var windDirections = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Metadata describes when a textual forecast was issued.
type Metadata struct {
	UpdateTime  string
	GeneratedAt string
	ValidTimes  string
}

// ForecastPeriod is a textual forecast period with its values converted to
// the period's temperature unit and its icon decoded.
type ForecastPeriod struct {
	Number           int
	Name             string
	StartTime        time.Time
	EndTime          time.Time
	IsDaytime        bool
	Temperature      *int
	TemperatureUnit  string
	TemperatureTrend string

	// ProbabilityOfPrecipitation is 0 when NWS reports none.
	ProbabilityOfPrecipitation int
	Dewpoint                   *int
	RelativeHumidity           *int

	WindSpeed     string
	WindSpeedAvg  *float64
	WindDirection string
	WindBearing   *float64

	Icon        string
	IconTime    string
	IconWeather []domain.IconWeather

	ShortForecast    string
	DetailedForecast string
}

// UpdateForecast fetches the twelve-hour forecast. A response with no
// current periods keeps the previous forecast, or fails with nws.ErrNoData
// when raiseNoData is set.
func (n *NWS) UpdateForecast(ctx context.Context, raiseNoData bool) error {
	grid, err := n.Points(ctx)
	if err != nil {
		return err
	}
	fc, err := n.client.GridpointForecast(ctx, grid.WFO, grid.X, grid.Y, n.units)
	if err != nil {
		return err
	}
	if len(n.filterPeriods(fc.Periods)) == 0 {
		if raiseNoData {
			return noData("forecast")
		}
		return nil
	}
	n.forecast = fc.Periods
	n.forecastMeta = metadataOf(fc)
	return nil
}

// UpdateForecastHourly fetches the hourly forecast, with the same no-data
// handling as UpdateForecast.
func (n *NWS) UpdateForecastHourly(ctx context.Context, raiseNoData bool) error {
	grid, err := n.Points(ctx)
	if err != nil {
		return err
	}
	fc, err := n.client.GridpointForecastHourly(ctx, grid.WFO, grid.X, grid.Y, n.units)
	if err != nil {
		return err
	}
	if len(n.filterPeriods(fc.Periods)) == 0 {
		if raiseNoData {
			return noData("forecast hourly")
		}
		return nil
	}
	n.forecastHourly = fc.Periods
	n.forecastHourlyMeta = metadataOf(fc)
	return nil
}

// UpdateDetailedForecast fetches the gridpoint layers for the location.
func (n *NWS) UpdateDetailedForecast(ctx context.Context) error {
	grid, err := n.Points(ctx)
	if err != nil {
		return err
	}
	f, err := n.client.DetailedForecast(ctx, grid.WFO, grid.X, grid.Y)
	if err != nil {
		return err
	}
	n.detailed = f
	return nil
}

// Forecast returns the twelve-hour periods from the last UpdateForecast,
// converted and, when filtering is on, without periods that already ended.
func (n *NWS) Forecast() []ForecastPeriod {
	return convertPeriods(n.filterPeriods(n.forecast))
}

// ForecastMetadata describes the forecast returned by Forecast.
func (n *NWS) ForecastMetadata() Metadata {
	return n.forecastMeta
}

// ForecastHourly is Forecast for the hourly periods.
func (n *NWS) ForecastHourly() []ForecastPeriod {
	return convertPeriods(n.filterPeriods(n.forecastHourly))
}

// ForecastHourlyMetadata describes the forecast returned by ForecastHourly.
func (n *NWS) ForecastHourlyMetadata() Metadata {
	return n.forecastHourlyMeta
}

// DetailedForecast returns the last fetched gridpoint layers, or nil.
func (n *NWS) DetailedForecast() *domain.DetailedForecast {
	return n.detailed
}

// HourlySnapshots returns one snapshot per hour from start, each carrying
// isDaytime, shortForecast and iconUrl in addition to the gridpoint layers.
// isDaytime comes from the hourly forecast period covering the hour; when no
// period covers it, 06:00 to 18:00 local time counts as day.
func (n *NWS) HourlySnapshots(start time.Time, hours int) ([]domain.Snapshot, error) {
	if n.detailed == nil {
		return nil, noData("detailed forecast")
	}
	seq, err := n.detailed.DetailsByHour(start, hours)
	if err != nil {
		return nil, err
	}

	loc := n.location(start)
	out := make([]domain.Snapshot, 0, hours)
	for s := range seq {
		hour, err := time.Parse(time.RFC3339, s[domain.StartTime].(string))
		if err != nil {
			return nil, fmt.Errorf("parse snapshot start: %w", err)
		}
		s[domain.IsDaytime] = n.isDaytime(hour, loc)
		s[domain.ShortForecast] = domain.CreateShortForecast(s)
		s[domain.IconURL] = domain.CreateIconURL(s, true)
		out = append(out, s)
	}
	return out, nil
}

func (n *NWS) isDaytime(t time.Time, loc *time.Location) bool {
	for _, p := range n.forecastHourly {
		if !t.Before(p.StartTime) && t.Before(p.EndTime) {
			return p.IsDaytime
		}
	}
	h := t.In(loc).Hour()
	return h >= 6 && h < 18
}

func (n *NWS) location(fallback time.Time) *time.Location {
	if n.grid.TimeZone != "" {
		if loc, err := time.LoadLocation(n.grid.TimeZone); err == nil {
			return loc
		}
		n.logger.Debug("unknown time zone", "time_zone", n.grid.TimeZone)
	}
	return fallback.Location()
}

// filterPeriods drops periods that ended before now when filtering is on.
// Periods without an end time are always dropped by the filter.
func (n *NWS) filterPeriods(periods []nws.Period) []nws.Period {
	if !n.filterForecast || len(periods) == 0 {
		return periods
	}
	now := n.clock.Now()
	out := make([]nws.Period, 0, len(periods))
	for _, p := range periods {
		if p.EndTime.IsZero() || now.After(p.EndTime) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func metadataOf(fc nws.Forecast) Metadata {
	return Metadata{UpdateTime: fc.UpdateTime, GeneratedAt: fc.GeneratedAt, ValidTimes: fc.ValidTimes}
}

func convertPeriods(periods []nws.Period) []ForecastPeriod {
	out := make([]ForecastPeriod, 0, len(periods))
	for _, p := range periods {
		out = append(out, convertPeriod(p))
	}
	return out
}

func convertPeriod(p nws.Period) ForecastPeriod {
	fp := ForecastPeriod{
		Number:           p.Number,
		Name:             p.Name,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		IsDaytime:        p.IsDaytime,
		TemperatureUnit:  p.TemperatureUnit,
		TemperatureTrend: p.TemperatureTrend,
		Dewpoint:         periodValue(p.Dewpoint, p.TemperatureUnit),
		RelativeHumidity: periodValue(p.RelativeHumidity, p.TemperatureUnit),
		WindSpeed:        p.WindSpeed,
		WindSpeedAvg:     windSpeedAverage(p.WindSpeed),
		WindDirection:    p.WindDirection,
		WindBearing:      windBearing(p.WindDirection),
		Icon:             p.Icon,

		ShortForecast:    p.ShortForecast,
		DetailedForecast: p.DetailedForecast,
	}
	if p.Temperature != nil {
		t := int(*p.Temperature)
		fp.Temperature = &t
	}
	if pop := periodValue(p.ProbabilityOfPrecipitation, p.TemperatureUnit); pop != nil {
		fp.ProbabilityOfPrecipitation = *pop
	}
	if p.Icon != "" {
		if timeOfDay, weather, err := domain.ParseIconURL(p.Icon); err == nil {
			fp.IconTime = timeOfDay
			fp.IconWeather = domain.DescribeIconWeather(weather)
		}
	}
	return fp
}

// periodValue converts temperatures reported in the other scale to tempUnit
// ("F" or "C"), rounding half to even. Other values are truncated.
func periodValue(q nws.QuantitativeValue, tempUnit string) *int {
	if q.Value == nil {
		return nil
	}
	v := *q.Value
	switch {
	case strings.HasSuffix(q.UnitCode, "degC") && tempUnit == "F":
		v = math.RoundToEven(v*1.8 + 32)
	case strings.HasSuffix(q.UnitCode, "degF") && tempUnit == "C":
		v = math.RoundToEven((v - 32) / 1.8)
	}
	i := int(v)
	return &i
}

// windBearing maps a 16-point compass direction to degrees.
func windBearing(dir string) *float64 {
	for i, d := range windDirections {
		if d == dir {
			b := float64(i) * 360 / 16
			return &b
		}
	}
	return nil
}

// windSpeedAverage reads "7 mph" or "7 to 10 mph" and returns the mean of
// the numbers.
func windSpeedAverage(speed string) *float64 {
	fields := strings.Fields(speed)
	if len(fields) == 0 {
		return nil
	}
	var sum float64
	var count int
	for i := 0; i < len(fields); i += 2 {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			if count == 0 {
				return nil
			}
			break
		}
		sum += float64(v)
		count++
	}
	avg := sum / float64(count)
	return &avg
}
