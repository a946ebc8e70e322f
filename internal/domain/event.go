package domain

import "time"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GridPoint is the NWS forecast grid cell and zones covering a coordinate,
// as returned by the points endpoint.
type GridPoint struct {
	Geo             Geo    `json:"geo"`
	WFO             string `json:"wfo"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	ForecastZone    string `json:"forecast_zone,omitempty"`
	CountyZone      string `json:"county_zone,omitempty"`
	FireWeatherZone string `json:"fire_weather_zone,omitempty"`
	TimeZone        string `json:"time_zone,omitempty"`
}

// Valid reports whether the grid cell is populated.
func (g GridPoint) Valid() bool {
	return g.WFO != ""
}

// HourlySummary is one hour of detailed forecast reduced to the values a
// consumer displays, plus the NWS-style phrase and icon for that hour.
type HourlySummary struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	WFO       string    `json:"wfo"`
	GridX     int       `json:"grid_x"`
	GridY     int       `json:"grid_y"`
	Geo       Geo       `json:"geo"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsDaytime bool      `json:"is_daytime"`

	ShortForecast string `json:"short_forecast"`
	IconURL       string `json:"icon_url"`

	Temperature                *float64 `json:"temperature,omitempty" jsonschema:"description=degrees Celsius"`
	Dewpoint                   *float64 `json:"dewpoint,omitempty" jsonschema:"description=degrees Celsius"`
	ApparentTemperature        *float64 `json:"apparent_temperature,omitempty" jsonschema:"description=degrees Celsius"`
	RelativeHumidity           *float64 `json:"relative_humidity,omitempty" jsonschema:"description=percent"`
	SkyCover                   *float64 `json:"sky_cover,omitempty" jsonschema:"description=percent"`
	WindSpeed                  *float64 `json:"wind_speed,omitempty" jsonschema:"description=km/h"`
	WindGust                   *float64 `json:"wind_gust,omitempty" jsonschema:"description=km/h"`
	WindDirection              *float64 `json:"wind_direction,omitempty" jsonschema:"description=degrees"`
	ProbabilityOfPrecipitation *float64 `json:"probability_of_precipitation,omitempty" jsonschema:"description=percent"`
	QuantitativePrecipitation  *float64 `json:"quantitative_precipitation,omitempty" jsonschema:"description=millimetres"`

	Weather []WeatherCondition `json:"weather,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}
