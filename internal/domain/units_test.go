package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertUnit(t *testing.T) {
	tests := []struct {
		uom   string
		value float64
		want  float64
	}{
		{"wmoUnit:degC", 21.5, 21.5},
		{"wmoUnit:degF", 212, 100},
		{"wmoUnit:degF", 32, 0},
		{"wmoUnit:km_h-1", 30, 30},
		{"wmoUnit:m_s-1", 10, 36},
		{"wmoUnit:kn", 10, 18.52},
		{"wmoUnit:m", 1500, 1500},
		{"wmoUnit:mm", 2.54, 2.54},
		{"wmoUnit:cm", 3, 30},
		{"wmoUnit:in", 1, 25.4},
		{"wmoUnit:ft", 1000, 304.8},
		{"wmoUnit:Pa", 101325, 101325},
		{"wmoUnit:hPa", 1013.25, 101325},
		{"wmoUnit:percent", 40, 40},
		{"wmoUnit:degree_(angle)", 270, 270},
		{"nwsUnit:s", 8, 8},
		{"degF", 50, 10},
	}

	for _, tt := range tests {
		t.Run(tt.uom, func(t *testing.T) {
			got, err := ConvertUnit(tt.uom, tt.value)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("wmoUnit:degree_(angle)")
	require.NoError(t, err)
	assert.Equal(t, UnitDegreesAngle, u)

	_, err = ParseUnit("wmoUnit:furlong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownUnit)
	assert.Contains(t, err.Error(), "furlong")

	_, err = Unit("furlong").Convert(1)
	assert.ErrorIs(t, err, ErrUnknownUnit)
}
