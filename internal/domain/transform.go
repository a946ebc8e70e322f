package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// BuildHourlySummary reduces one hourly snapshot, as produced by
// DetailsByHour, to an HourlySummary for grid. Missing numeric layers stay
// nil. The short forecast and icon are derived when the snapshot does not
// already carry them.
func BuildHourlySummary(grid GridPoint, s Snapshot, runID string) (HourlySummary, error) {
	start, err := snapshotTime(s, StartTime)
	if err != nil {
		return HourlySummary{}, err
	}
	end, err := snapshotTime(s, EndTime)
	if err != nil {
		return HourlySummary{}, err
	}

	short, _ := s[ShortForecast].(string)
	if short == "" {
		short = CreateShortForecast(s)
	}
	icon, _ := s[IconURL].(string)
	if icon == "" {
		icon = CreateIconURL(s, true)
	}

	return HourlySummary{
		ID:            generateID(grid, start),
		RunID:         runID,
		WFO:           grid.WFO,
		GridX:         grid.X,
		GridY:         grid.Y,
		Geo:           grid.Geo,
		StartTime:     start,
		EndTime:       end,
		IsDaytime:     s.Daytime(),
		ShortForecast: short,
		IconURL:       icon,

		Temperature:                floatPtr(s, Temperature),
		Dewpoint:                   floatPtr(s, Dewpoint),
		ApparentTemperature:        floatPtr(s, ApparentTemperature),
		RelativeHumidity:           floatPtr(s, RelativeHumidity),
		SkyCover:                   floatPtr(s, SkyCover),
		WindSpeed:                  floatPtr(s, WindSpeed),
		WindGust:                   floatPtr(s, WindGust),
		WindDirection:              floatPtr(s, WindDirection),
		ProbabilityOfPrecipitation: floatPtr(s, ProbabilityOfPrecipitation),
		QuantitativePrecipitation:  floatPtr(s, QuantitativePrecipitation),

		Weather: activeConditions(s.Conditions()),

		ProcessedAt: clock.Now().UTC(),
	}, nil
}

func snapshotTime(s Snapshot, d Detail) (time.Time, error) {
	v, ok := s[d].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("snapshot has no %s", d)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", d, err)
	}
	return t, nil
}

func floatPtr(s Snapshot, d Detail) *float64 {
	v, ok := s.Float(d)
	if !ok {
		return nil
	}
	return &v
}

// generateID produces a deterministic ID for one grid cell and hour so that
// republishing the same hour overwrites rather than duplicates downstream.
func generateID(grid GridPoint, start time.Time) string {
	input := fmt.Sprintf("%s|%d|%d|%s", grid.WFO, grid.X, grid.Y, start.UTC().Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	return grid.WFO + "-" + hex.EncodeToString(hash[:8])
}
