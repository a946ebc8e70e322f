package domain

import "fmt"

// Detail identifies one forecast layer in a gridpoint payload, or one of the
// synthetic fields attached to hourly snapshots.
type Detail string

// Synthetic details attached to snapshots.
const (
	StartTime     Detail = "startTime"
	EndTime       Detail = "endTime"
	IsDaytime     Detail = "isDaytime"
	ShortForecast Detail = "shortForecast"
	IconURL       Detail = "iconUrl"
)

// Gridpoint layers.
const (
	Temperature                      Detail = "temperature"
	Dewpoint                         Detail = "dewpoint"
	MaxTemperature                   Detail = "maxTemperature"
	MinTemperature                   Detail = "minTemperature"
	RelativeHumidity                 Detail = "relativeHumidity"
	ApparentTemperature              Detail = "apparentTemperature"
	HeatIndex                        Detail = "heatIndex"
	WindChill                        Detail = "windChill"
	SkyCover                         Detail = "skyCover"
	WindDirection                    Detail = "windDirection"
	WindSpeed                        Detail = "windSpeed"
	WindGust                         Detail = "windGust"
	Weather                          Detail = "weather"
	Hazards                          Detail = "hazards"
	ProbabilityOfPrecipitation       Detail = "probabilityOfPrecipitation"
	QuantitativePrecipitation        Detail = "quantitativePrecipitation"
	IceAccumulation                  Detail = "iceAccumulation"
	SnowfallAmount                   Detail = "snowfallAmount"
	SnowLevel                        Detail = "snowLevel"
	CeilingHeight                    Detail = "ceilingHeight"
	Visibility                       Detail = "visibility"
	TransportWindSpeed               Detail = "transportWindSpeed"
	TransportWindDirection           Detail = "transportWindDirection"
	MixingHeight                     Detail = "mixingHeight"
	HainesIndex                      Detail = "hainesIndex"
	LightningActivityLevel           Detail = "lightningActivityLevel"
	TwentyFootWindSpeed              Detail = "twentyFootWindSpeed"
	TwentyFootWindDirection          Detail = "twentyFootWindDirection"
	WaveHeight                       Detail = "waveHeight"
	WavePeriod                       Detail = "wavePeriod"
	WaveDirection                    Detail = "waveDirection"
	PrimarySwellHeight               Detail = "primarySwellHeight"
	PrimarySwellDirection            Detail = "primarySwellDirection"
	SecondarySwellHeight             Detail = "secondarySwellHeight"
	SecondarySwellDirection          Detail = "secondarySwellDirection"
	WavePeriod2                      Detail = "wavePeriod2"
	WindWaveHeight                   Detail = "windWaveHeight"
	DispersionIndex                  Detail = "dispersionIndex"
	Pressure                         Detail = "pressure"
	ProbabilityOfTropicalStormWinds  Detail = "probabilityOfTropicalStormWinds"
	ProbabilityOfHurricaneWinds      Detail = "probabilityOfHurricaneWinds"
	PotentialOf15mphWinds            Detail = "potentialOf15mphWinds"
	PotentialOf25mphWinds            Detail = "potentialOf25mphWinds"
	PotentialOf35mphWinds            Detail = "potentialOf35mphWinds"
	PotentialOf45mphWinds            Detail = "potentialOf45mphWinds"
	PotentialOf20mphWindGusts        Detail = "potentialOf20mphWindGusts"
	PotentialOf30mphWindGusts        Detail = "potentialOf30mphWindGusts"
	PotentialOf40mphWindGusts        Detail = "potentialOf40mphWindGusts"
	PotentialOf50mphWindGusts        Detail = "potentialOf50mphWindGusts"
	PotentialOf60mphWindGusts        Detail = "potentialOf60mphWindGusts"
	GrasslandFireDangerIndex         Detail = "grasslandFireDangerIndex"
	ProbabilityOfThunder             Detail = "probabilityOfThunder"
	DavisStabilityIndex              Detail = "davisStabilityIndex"
	AtmosphericDispersionIndex       Detail = "atmosphericDispersionIndex"
	LowVisibilityOccurrenceRiskIndex Detail = "lowVisibilityOccurrenceRiskIndex"
	Stability                        Detail = "stability"
	RedFlagThreatIndex               Detail = "redFlagThreatIndex"
)

var knownDetails = map[Detail]struct{}{
	StartTime: {}, EndTime: {}, IsDaytime: {}, ShortForecast: {}, IconURL: {},
	Temperature: {}, Dewpoint: {}, MaxTemperature: {}, MinTemperature: {},
	RelativeHumidity: {}, ApparentTemperature: {}, HeatIndex: {}, WindChill: {},
	SkyCover: {}, WindDirection: {}, WindSpeed: {}, WindGust: {}, Weather: {},
	Hazards: {}, ProbabilityOfPrecipitation: {}, QuantitativePrecipitation: {},
	IceAccumulation: {}, SnowfallAmount: {}, SnowLevel: {}, CeilingHeight: {},
	Visibility: {}, TransportWindSpeed: {}, TransportWindDirection: {},
	MixingHeight: {}, HainesIndex: {}, LightningActivityLevel: {},
	TwentyFootWindSpeed: {}, TwentyFootWindDirection: {}, WaveHeight: {},
	WavePeriod: {}, WaveDirection: {}, PrimarySwellHeight: {},
	PrimarySwellDirection: {}, SecondarySwellHeight: {},
	SecondarySwellDirection: {}, WavePeriod2: {}, WindWaveHeight: {},
	DispersionIndex: {}, Pressure: {}, ProbabilityOfTropicalStormWinds: {},
	ProbabilityOfHurricaneWinds: {}, PotentialOf15mphWinds: {},
	PotentialOf25mphWinds: {}, PotentialOf35mphWinds: {},
	PotentialOf45mphWinds: {}, PotentialOf20mphWindGusts: {},
	PotentialOf30mphWindGusts: {}, PotentialOf40mphWindGusts: {},
	PotentialOf50mphWindGusts: {}, PotentialOf60mphWindGusts: {},
	GrasslandFireDangerIndex: {}, ProbabilityOfThunder: {},
	DavisStabilityIndex: {}, AtmosphericDispersionIndex: {},
	LowVisibilityOccurrenceRiskIndex: {}, Stability: {}, RedFlagThreatIndex: {},
}

// Valid reports whether d is a recognized detail identifier.
func (d Detail) Valid() bool {
	_, ok := knownDetails[d]
	return ok
}

// ParseDetail converts a layer name into a Detail.
func ParseDetail(s string) (Detail, error) {
	d := Detail(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDetail, s)
	}
	return d, nil
}

// WeatherCondition is one entry of the weather layer for a time interval.
type WeatherCondition struct {
	Weather   string `json:"weather"`
	Intensity string `json:"intensity"`
	Coverage  string `json:"coverage"`
}

// Snapshot holds the detail values valid at a single instant. Numeric layers
// hold float64 in canonical units, the weather layer holds []WeatherCondition.
type Snapshot map[Detail]any

// Float returns a numeric detail. ok is false when the detail is absent,
// null, or not numeric.
func (s Snapshot) Float(d Detail) (float64, bool) {
	v, ok := s[d].(float64)
	return v, ok
}

// FloatOr returns a numeric detail or def when it is unavailable.
func (s Snapshot) FloatOr(d Detail, def float64) float64 {
	if v, ok := s.Float(d); ok {
		return v
	}
	return def
}

// Conditions returns the weather layer, or nil.
func (s Snapshot) Conditions() []WeatherCondition {
	w, _ := s[Weather].([]WeatherCondition)
	return w
}

// Daytime reports the isDaytime detail. Gridpoint data never carries it, so
// a snapshot that was not enriched with it reads as night.
func (s Snapshot) Daytime() bool {
	v, _ := s[IsDaytime].(bool)
	return v
}
