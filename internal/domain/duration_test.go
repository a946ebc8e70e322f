package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"PT1H", time.Hour},
		{"PT1H30M", 90 * time.Minute},
		{"P1W", 7 * 24 * time.Hour},
		{"P1DT6H", 30 * time.Hour},
		{"P2D", 48 * time.Hour},
		{"PT45S", 45 * time.Second},
		{"PT13H", 13 * time.Hour},
		{"P", 0},
		{"PT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, input := range []string{"", "1H", "PT1.5H", "P1Y", "P1M", "PT1D", "P1H", "pt1h", "PT-1H"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDuration(input)
			assert.ErrorIs(t, err, ErrInvalidDuration)
		})
	}
}

func TestParseValidTime(t *testing.T) {
	start, end, err := ParseValidTime("2024-01-02T03:00:00+00:00/PT2H")
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2*time.Hour, end.Sub(start))

	for _, input := range []string{
		"2024-01-02T03:00:00+00:00",
		"2024-01-02T03:00:00+00:00/PT1H/PT1H",
		"/PT1H",
	} {
		_, _, err := ParseValidTime(input)
		assert.ErrorIs(t, err, ErrInvalidValidTime, input)
	}
}
