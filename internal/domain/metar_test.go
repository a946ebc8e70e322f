package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValue(t *testing.T, want float64, got *float64) {
	t.Helper()
	require.NotNil(t, got)
	assert.InDelta(t, want, *got, 0.01)
}

func TestDecodeMETAR(t *testing.T) {
	t.Run("knots statute miles altimeter", func(t *testing.T) {
		m, err := DecodeMETAR("KDEN 021753Z 27015G25KT 10SM FEW080 M05/M12 A3012 RMK AO2 SLP201 T10501117")
		require.NoError(t, err)

		assert.Equal(t, "KDEN", m.Station)
		requireValue(t, 270, m.WindDirection)
		requireValue(t, 27.78, m.WindSpeed)
		requireValue(t, 46.3, m.WindGust)
		requireValue(t, 16093.44, m.Visibility)
		requireValue(t, -5, m.Temperature)
		requireValue(t, -12, m.Dewpoint)
		requireValue(t, 101998.04, m.SeaLevelPressure)
	})

	t.Run("variable wind and fractional visibility", func(t *testing.T) {
		m, err := DecodeMETAR("METAR KJFK 021751Z VRB03KT 1 1/2SM BR OVC004 12/11 A2992")
		require.NoError(t, err)

		assert.Equal(t, "KJFK", m.Station)
		assert.Nil(t, m.WindDirection)
		requireValue(t, 5.556, m.WindSpeed)
		assert.Nil(t, m.WindGust)
		requireValue(t, 2414.016, m.Visibility)
		requireValue(t, 12, m.Temperature)
		requireValue(t, 11, m.Dewpoint)
		requireValue(t, 101320.76, m.SeaLevelPressure)
	})

	t.Run("metres per second and QNH", func(t *testing.T) {
		m, err := DecodeMETAR("EGLL 021750Z 24008MPS 9999 FEW030 08/04 Q1013")
		require.NoError(t, err)

		requireValue(t, 240, m.WindDirection)
		requireValue(t, 28.8, m.WindSpeed)
		requireValue(t, 9999, m.Visibility)
		requireValue(t, 8, m.Temperature)
		requireValue(t, 4, m.Dewpoint)
		requireValue(t, 101300, m.SeaLevelPressure)
	})

	t.Run("missing dewpoint and calm wind", func(t *testing.T) {
		m, err := DecodeMETAR("SPECI KXYZ 021753Z 00000KT 1/4SM CLR 25/ A3000")
		require.NoError(t, err)

		requireValue(t, 0, m.WindDirection)
		requireValue(t, 0, m.WindSpeed)
		requireValue(t, 402.336, m.Visibility)
		requireValue(t, 25, m.Temperature)
		assert.Nil(t, m.Dewpoint)
	})

	t.Run("groups after remarks ignored", func(t *testing.T) {
		m, err := DecodeMETAR("KBOS 021754Z RMK 18010KT 10SM")
		require.NoError(t, err)
		assert.Nil(t, m.WindSpeed)
		assert.Nil(t, m.Visibility)
	})
}

func TestDecodeMETAR_Invalid(t *testing.T) {
	for _, raw := range []string{"", "KDEN", "METAR", "kden 021753Z", "12345 021753Z"} {
		_, err := DecodeMETAR(raw)
		assert.ErrorIs(t, err, ErrMETARParse, raw)
	}
}
