package domain

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/goccy/go-json"
)

// TimeInterval is a half-open interval [Start, End) carrying one layer value.
type TimeInterval struct {
	Start time.Time
	End   time.Time
	Value any
}

// Contains reports whether t falls inside the interval.
func (i TimeInterval) Contains(t time.Time) bool {
	return !i.Start.After(t) && i.End.After(t)
}

// Layer is the ordered list of intervals for one detail.
type Layer struct {
	Unit      Unit
	Intervals []TimeInterval
}

// ValueAt returns the value of the first interval containing t.
func (l Layer) ValueAt(t time.Time) (any, bool) {
	for _, iv := range l.Intervals {
		if iv.Contains(t) {
			return iv.Value, true
		}
	}
	return nil, false
}

// DetailedForecast is the time-indexed form of a gridpoint payload. It is
// immutable after construction and safe for concurrent readers.
type DetailedForecast struct {
	updateTime time.Time
	layers     map[Detail]Layer
}

type rawLayer struct {
	Uom    string     `json:"uom"`
	Values []rawValue `json:"values"`
}

type rawValue struct {
	ValidTime string          `json:"validTime"`
	Value     json.RawMessage `json:"value"`
}

// NewDetailedForecast builds a DetailedForecast from the "properties" object
// of a gridpoint response. Unknown layer names are ignored; malformed
// validTime strings and unknown unit codes fail the whole payload.
func NewDetailedForecast(properties []byte) (*DetailedForecast, error) {
	var props map[string]json.RawMessage
	if err := json.Unmarshal(properties, &props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}

	rawUpdate, ok := props["updateTime"]
	if !ok {
		return nil, ErrMissingUpdate
	}
	var updateStr string
	if err := json.Unmarshal(rawUpdate, &updateStr); err != nil {
		return nil, fmt.Errorf("decode updateTime: %w", err)
	}
	updateTime, err := time.Parse(time.RFC3339, updateStr)
	if err != nil {
		return nil, fmt.Errorf("parse updateTime: %w", err)
	}

	f := &DetailedForecast{
		updateTime: updateTime,
		layers:     make(map[Detail]Layer),
	}
	for name, msg := range props {
		d := Detail(name)
		if !d.Valid() {
			continue
		}
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(msg, &probe); err != nil {
			continue
		}
		if _, ok := probe["values"]; !ok {
			continue
		}
		layer, err := parseLayer(d, msg)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", name, err)
		}
		f.layers[d] = layer
	}
	return f, nil
}

func parseLayer(d Detail, msg json.RawMessage) (Layer, error) {
	var rl rawLayer
	if err := json.Unmarshal(msg, &rl); err != nil {
		return Layer{}, fmt.Errorf("decode layer: %w", err)
	}

	var layer Layer
	if rl.Uom != "" {
		u, err := ParseUnit(rl.Uom)
		if err != nil {
			return Layer{}, err
		}
		layer.Unit = u
	}

	layer.Intervals = make([]TimeInterval, 0, len(rl.Values))
	for _, rv := range rl.Values {
		start, end, err := ParseValidTime(rv.ValidTime)
		if err != nil {
			return Layer{}, err
		}
		value, err := decodeValue(d, layer.Unit, rv.Value)
		if err != nil {
			return Layer{}, err
		}
		layer.Intervals = append(layer.Intervals, TimeInterval{Start: start, End: end, Value: value})
	}
	return layer, nil
}

func decodeValue(d Detail, unit Unit, raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if d == Weather {
		var conds []WeatherCondition
		if err := json.Unmarshal(raw, &conds); err != nil {
			return nil, fmt.Errorf("decode weather: %w", err)
		}
		return conds, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	f, ok := v.(float64)
	if !ok || unit == "" {
		return v, nil
	}
	return unit.Convert(f)
}

// UpdateTime is the time the NWS last updated the gridpoint data.
func (f *DetailedForecast) UpdateTime() time.Time {
	return f.updateTime
}

// Details lists the layers present, sorted by name.
func (f *DetailedForecast) Details() []Detail {
	out := make([]Detail, 0, len(f.layers))
	for d := range f.layers {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Layer returns the raw intervals for d.
func (f *DetailedForecast) Layer(d Detail) (Layer, bool) {
	l, ok := f.layers[d]
	return l, ok
}

// DetailsForTime returns every detail valid at when. Details with no
// interval covering when are omitted.
func (f *DetailedForecast) DetailsForTime(when time.Time) (Snapshot, error) {
	if when.IsZero() {
		return nil, ErrInvalidTime
	}
	return f.snapshotAt(when.UTC()), nil
}

// DetailForTime returns the value of one detail at when, or nil when no
// interval covers it.
func (f *DetailedForecast) DetailForTime(d Detail, when time.Time) (any, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetail, string(d))
	}
	if when.IsZero() {
		return nil, ErrInvalidTime
	}
	layer, ok := f.layers[d]
	if !ok {
		return nil, nil
	}
	v, _ := layer.ValueAt(when.UTC())
	return v, nil
}

// DetailsForTimes lazily maps each instant of times to its snapshot.
func (f *DetailedForecast) DetailsForTimes(times iter.Seq[time.Time]) iter.Seq2[Snapshot, error] {
	return func(yield func(Snapshot, error) bool) {
		for t := range times {
			if !yield(f.DetailsForTime(t)) {
				return
			}
		}
	}
}

// DetailsByHour yields one snapshot per hour starting at the top of the hour
// containing start. Each snapshot carries startTime and endTime in start's
// location.
func (f *DetailedForecast) DetailsByHour(start time.Time, hours int) (iter.Seq[Snapshot], error) {
	if start.IsZero() {
		return nil, ErrInvalidTime
	}
	if hours < 0 {
		return nil, fmt.Errorf("hours must not be negative, got %d", hours)
	}
	first := truncateToHour(start)
	return func(yield func(Snapshot) bool) {
		for i := range hours {
			hourStart := first.Add(time.Duration(i) * time.Hour)
			s := f.snapshotAt(hourStart.UTC())
			s[StartTime] = hourStart.Format(time.RFC3339)
			s[EndTime] = hourStart.Add(time.Hour).Format(time.RFC3339)
			if !yield(s) {
				return
			}
		}
	}, nil
}

func (f *DetailedForecast) snapshotAt(t time.Time) Snapshot {
	s := make(Snapshot, len(f.layers)+2)
	for d, layer := range f.layers {
		if v, ok := layer.ValueAt(t); ok {
			s[d] = v
		}
	}
	return s
}

func truncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
