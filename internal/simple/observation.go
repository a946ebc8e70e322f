package simple

import (
	"context"
	"time"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

// Observation is the merged view of recent station observations. Numeric
// values are in canonical units (°C, km/h, m, Pa, mm, percent, degrees);
// nil means no observation or METAR carried the value.
type Observation struct {
	Station         string
	Timestamp       time.Time
	TextDescription string
	Icon            string

	Temperature               *float64
	Dewpoint                  *float64
	RelativeHumidity          *float64
	WindDirection             *float64
	WindSpeed                 *float64
	WindGust                  *float64
	BarometricPressure        *float64
	SeaLevelPressure          *float64
	Visibility                *float64
	Elevation                 *float64
	MaxTemperatureLast24Hours *float64
	MinTemperatureLast24Hours *float64
	PrecipitationLastHour     *float64
	PrecipitationLast3Hours   *float64
	PrecipitationLast6Hours   *float64
	WindChill                 *float64
	HeatIndex                 *float64

	IconTime    string
	IconWeather []domain.IconWeather
}

type observationField struct {
	name   string
	source func(*nws.Observation) nws.QuantitativeValue
	target func(*Observation) **float64
	metar  func(*domain.METAR) *float64 // nil: no METAR fallback
}

var observationFields = []observationField{
	{
		name:   "temperature",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.Temperature },
		target: func(o *Observation) **float64 { return &o.Temperature },
		metar:  func(m *domain.METAR) *float64 { return m.Temperature },
	},
	{
		name:   "barometricPressure",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.BarometricPressure },
		target: func(o *Observation) **float64 { return &o.BarometricPressure },
	},
	{
		name:   "seaLevelPressure",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.SeaLevelPressure },
		target: func(o *Observation) **float64 { return &o.SeaLevelPressure },
		metar:  func(m *domain.METAR) *float64 { return m.SeaLevelPressure },
	},
	{
		name:   "relativeHumidity",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.RelativeHumidity },
		target: func(o *Observation) **float64 { return &o.RelativeHumidity },
	},
	{
		name:   "windSpeed",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.WindSpeed },
		target: func(o *Observation) **float64 { return &o.WindSpeed },
		metar:  func(m *domain.METAR) *float64 { return m.WindSpeed },
	},
	{
		name:   "windDirection",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.WindDirection },
		target: func(o *Observation) **float64 { return &o.WindDirection },
		metar:  func(m *domain.METAR) *float64 { return m.WindDirection },
	},
	{
		name:   "visibility",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.Visibility },
		target: func(o *Observation) **float64 { return &o.Visibility },
		metar:  func(m *domain.METAR) *float64 { return m.Visibility },
	},
	{
		name:   "elevation",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.Elevation },
		target: func(o *Observation) **float64 { return &o.Elevation },
	},
	{
		name:   "dewpoint",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.Dewpoint },
		target: func(o *Observation) **float64 { return &o.Dewpoint },
	},
	{
		name:   "windGust",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.WindGust },
		target: func(o *Observation) **float64 { return &o.WindGust },
	},
	{
		name:   "maxTemperatureLast24Hours",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.MaxTemperatureLast24Hours },
		target: func(o *Observation) **float64 { return &o.MaxTemperatureLast24Hours },
	},
	{
		name:   "minTemperatureLast24Hours",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.MinTemperatureLast24Hours },
		target: func(o *Observation) **float64 { return &o.MinTemperatureLast24Hours },
	},
	{
		name:   "precipitationLastHour",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.PrecipitationLastHour },
		target: func(o *Observation) **float64 { return &o.PrecipitationLastHour },
	},
	{
		name:   "precipitationLast3Hours",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.PrecipitationLast3Hours },
		target: func(o *Observation) **float64 { return &o.PrecipitationLast3Hours },
	},
	{
		name:   "precipitationLast6Hours",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.PrecipitationLast6Hours },
		target: func(o *Observation) **float64 { return &o.PrecipitationLast6Hours },
	},
	{
		name:   "windChill",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.WindChill },
		target: func(o *Observation) **float64 { return &o.WindChill },
	},
	{
		name:   "heatIndex",
		source: func(o *nws.Observation) nws.QuantitativeValue { return o.HeatIndex },
		target: func(o *Observation) **float64 { return &o.HeatIndex },
	},
}

// UpdateObservation fetches recent observations for the selected station.
// An empty response keeps the previous observations, or fails with
// nws.ErrNoData when raiseNoData is set.
func (n *NWS) UpdateObservation(ctx context.Context, limit int, start time.Time, raiseNoData bool) error {
	if n.station == "" {
		return ErrStationRequired
	}
	obs, err := n.client.StationObservations(ctx, n.station, limit, start)
	if err != nil {
		return err
	}
	if len(obs) == 0 {
		if raiseNoData {
			return noData("observation")
		}
		return nil
	}

	n.observations = obs
	n.metars = make([]*domain.METAR, len(obs))
	for i, o := range obs {
		n.metars[i] = n.decodeMETAR(o)
	}
	return nil
}

func (n *NWS) decodeMETAR(o nws.Observation) *domain.METAR {
	if o.RawMessage == "" {
		return nil
	}
	m, err := domain.DecodeMETAR(o.RawMessage)
	if err != nil {
		n.logger.Debug("metar not parsed", "station", o.Station, "error", err)
		return nil
	}
	return &m
}

// Observation merges the stored observations, newest first: each value comes
// from the first observation that reports it. Temperature, sea level
// pressure, wind and visibility fall back to the newest METAR. It returns nil
// before any observation was stored.
func (n *NWS) Observation() *Observation {
	if len(n.observations) == 0 {
		return nil
	}

	out := &Observation{}
	for i := range n.observations {
		o := &n.observations[i]
		if out.Station == "" {
			out.Station = o.Station
		}
		if out.Timestamp.IsZero() {
			out.Timestamp = o.Timestamp
		}
		if out.TextDescription == "" {
			out.TextDescription = o.TextDescription
		}
		if out.Icon == "" {
			out.Icon = o.Icon
		}
	}

	var newest *domain.METAR
	if len(n.metars) > 0 {
		newest = n.metars[0]
	}

	for _, f := range observationFields {
		dst := f.target(out)
		for i := range n.observations {
			v, ok := n.convertObserved(f.name, f.source(&n.observations[i]))
			if ok {
				*dst = &v
				break
			}
		}
		if *dst == nil && f.metar != nil && newest != nil {
			if p := f.metar(newest); p != nil {
				v := *p
				*dst = &v
			}
		}
	}

	if out.Icon != "" {
		timeOfDay, weather, err := domain.ParseIconURL(out.Icon)
		if err != nil {
			n.logger.Debug("observation icon not parsed", "icon", out.Icon, "error", err)
		} else {
			out.IconTime = timeOfDay
			out.IconWeather = domain.DescribeIconWeather(weather)
		}
	}
	return out
}

// convertObserved converts one reported value. Values without a unit code
// are taken as-is; values in an unknown unit are skipped.
func (n *NWS) convertObserved(name string, q nws.QuantitativeValue) (float64, bool) {
	if q.Value == nil {
		return 0, false
	}
	if q.UnitCode == "" {
		return *q.Value, true
	}
	v, err := domain.ConvertUnit(q.UnitCode, *q.Value)
	if err != nil {
		n.logger.Debug("observation value skipped", "field", name, "error", err)
		return 0, false
	}
	return v, true
}
