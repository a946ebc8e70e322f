package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDetail(t *testing.T) {
	d, err := ParseDetail("probabilityOfPrecipitation")
	require.NoError(t, err)
	assert.Equal(t, ProbabilityOfPrecipitation, d)

	for _, synthetic := range []Detail{StartTime, EndTime, IsDaytime, ShortForecast, IconURL} {
		assert.True(t, synthetic.Valid(), synthetic)
	}

	_, err = ParseDetail("elevation")
	assert.ErrorIs(t, err, ErrUnknownDetail)
}

func TestSnapshotAccessors(t *testing.T) {
	s := Snapshot{
		Temperature: 4.5,
		Dewpoint:    nil,
		Weather:     []WeatherCondition{{Weather: "snow", Coverage: "likely"}},
		IsDaytime:   false,
	}

	v, ok := s.Float(Temperature)
	assert.True(t, ok)
	assert.InDelta(t, 4.5, v, 1e-9)

	_, ok = s.Float(Dewpoint)
	assert.False(t, ok)
	assert.InDelta(t, -1.0, s.FloatOr(Dewpoint, -1), 1e-9)
	assert.InDelta(t, 0.0, s.FloatOr(SkyCover, 0), 1e-9)

	assert.Len(t, s.Conditions(), 1)
	assert.False(t, s.Daytime())
	assert.False(t, Snapshot{}.Daytime())
	assert.True(t, Snapshot{IsDaytime: true}.Daytime())
	assert.Nil(t, Snapshot{}.Conditions())
}
