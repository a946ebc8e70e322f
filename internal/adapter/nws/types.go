package nws

import "time"

// Units selects the unit system of textual forecasts.
type Units string

const (
	UnitsUS Units = "us"
	UnitsSI Units = "si"
)

// Valid reports whether u is a unit system the API accepts. Empty means the
// API default.
func (u Units) Valid() bool {
	return u == "" || u == UnitsUS || u == UnitsSI
}

// QuantitativeValue is the API's {"value": ..., "unitCode": ...} pair.
// Value is nil when the API reports null.
type QuantitativeValue struct {
	Value    *float64 `json:"value"`
	UnitCode string   `json:"unitCode"`
}

// Observation is the properties object of one station observation.
type Observation struct {
	Station         string    `json:"station"`
	Timestamp       time.Time `json:"timestamp"`
	RawMessage      string    `json:"rawMessage"`
	TextDescription string    `json:"textDescription"`
	Icon            string    `json:"icon"`

	Elevation                 QuantitativeValue `json:"elevation"`
	Temperature               QuantitativeValue `json:"temperature"`
	Dewpoint                  QuantitativeValue `json:"dewpoint"`
	WindDirection             QuantitativeValue `json:"windDirection"`
	WindSpeed                 QuantitativeValue `json:"windSpeed"`
	WindGust                  QuantitativeValue `json:"windGust"`
	BarometricPressure        QuantitativeValue `json:"barometricPressure"`
	SeaLevelPressure          QuantitativeValue `json:"seaLevelPressure"`
	Visibility                QuantitativeValue `json:"visibility"`
	MaxTemperatureLast24Hours QuantitativeValue `json:"maxTemperatureLast24Hours"`
	MinTemperatureLast24Hours QuantitativeValue `json:"minTemperatureLast24Hours"`
	PrecipitationLastHour     QuantitativeValue `json:"precipitationLastHour"`
	PrecipitationLast3Hours   QuantitativeValue `json:"precipitationLast3Hours"`
	PrecipitationLast6Hours   QuantitativeValue `json:"precipitationLast6Hours"`
	RelativeHumidity          QuantitativeValue `json:"relativeHumidity"`
	WindChill                 QuantitativeValue `json:"windChill"`
	HeatIndex                 QuantitativeValue `json:"heatIndex"`
}

// Period is one entry of a textual (daily or hourly) forecast.
type Period struct {
	Number           int       `json:"number"`
	Name             string    `json:"name"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	IsDaytime        bool      `json:"isDaytime"`
	Temperature      *float64  `json:"temperature"`
	TemperatureUnit  string    `json:"temperatureUnit"`
	TemperatureTrend string    `json:"temperatureTrend"`

	ProbabilityOfPrecipitation QuantitativeValue `json:"probabilityOfPrecipitation"`
	Dewpoint                   QuantitativeValue `json:"dewpoint"`
	RelativeHumidity           QuantitativeValue `json:"relativeHumidity"`

	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	Icon             string `json:"icon"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

// Forecast is the properties object of a textual forecast.
type Forecast struct {
	UpdateTime  string   `json:"updateTime"`
	GeneratedAt string   `json:"generatedAt"`
	ValidTimes  string   `json:"validTimes"`
	Periods     []Period `json:"periods"`
}

// Alert is the properties object of one active alert.
type Alert struct {
	ID          string    `json:"id"`
	AreaDesc    string    `json:"areaDesc"`
	Sent        time.Time `json:"sent"`
	Effective   time.Time `json:"effective"`
	Onset       time.Time `json:"onset"`
	Expires     time.Time `json:"expires"`
	Ends        time.Time `json:"ends"`
	Status      string    `json:"status"`
	MessageType string    `json:"messageType"`
	Category    string    `json:"category"`
	Severity    string    `json:"severity"`
	Certainty   string    `json:"certainty"`
	Urgency     string    `json:"urgency"`
	Event       string    `json:"event"`
	SenderName  string    `json:"senderName"`
	Headline    string    `json:"headline"`
	Description string    `json:"description"`
	Instruction string    `json:"instruction"`
	Response    string    `json:"response"`
}

// API response envelopes.

type feature[P any] struct {
	Properties P `json:"properties"`
}

type featureCollection[P any] struct {
	Features []feature[P] `json:"features"`
}

type pointsProperties struct {
	CWA             string `json:"cwa"`
	GridX           int    `json:"gridX"`
	GridY           int    `json:"gridY"`
	ForecastZone    string `json:"forecastZone"`
	County          string `json:"county"`
	FireWeatherZone string `json:"fireWeatherZone"`
	TimeZone        string `json:"timeZone"`
}

type stationProperties struct {
	StationIdentifier string `json:"stationIdentifier"`
}
