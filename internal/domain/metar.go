package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	metarStationRegex  = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)
	metarWindRegex     = regexp.MustCompile(`^(VRB|\d{3})(\d{2,3})(G(\d{2,3}))?(KT|MPS)$`)
	metarVisSMRegex    = regexp.MustCompile(`^M?(\d+)SM$`)
	metarVisFracRegex  = regexp.MustCompile(`^M?(\d+)/(\d+)SM$`)
	metarVisWholeRegex = regexp.MustCompile(`^\d$`)
	metarVisMRegex     = regexp.MustCompile(`^\d{4}$`)
	metarTempRegex     = regexp.MustCompile(`^(M?)(\d{2})/(M?)(\d{2})?$`)
	metarAltimRegex    = regexp.MustCompile(`^A(\d{4})$`)
	metarQNHRegex      = regexp.MustCompile(`^Q(\d{4})$`)
)

const (
	metersPerStatuteMile = 1609.344
	kmhPerKnot           = 1.852
	pascalsPerInHg       = 3386.389
)

// METAR holds the fields of a METAR report used to fill gaps in NWS
// observations, in the same units as converted observation values.
type METAR struct {
	Station          string
	Temperature      *float64 // °C
	Dewpoint         *float64 // °C
	WindDirection    *float64 // degrees, nil when variable
	WindSpeed        *float64 // km/h
	WindGust         *float64 // km/h
	Visibility       *float64 // m
	SeaLevelPressure *float64 // Pa
}

// DecodeMETAR extracts wind, visibility, temperature and pressure groups
// from a raw METAR. Groups after RMK are ignored.
func DecodeMETAR(raw string) (METAR, error) {
	tokens := strings.Fields(raw)
	if len(tokens) > 0 && (tokens[0] == "METAR" || tokens[0] == "SPECI") {
		tokens = tokens[1:]
	}
	if len(tokens) < 2 || !metarStationRegex.MatchString(tokens[0]) {
		return METAR{}, fmt.Errorf("%w: %q", ErrMETARParse, raw)
	}

	m := METAR{Station: tokens[0]}
	var wholeMiles float64
	for _, tok := range tokens[1:] {
		if tok == "RMK" {
			break
		}
		switch {
		case metarWindRegex.MatchString(tok):
			decodeWind(&m, metarWindRegex.FindStringSubmatch(tok))
		case metarVisWholeRegex.MatchString(tok):
			wholeMiles, _ = strconv.ParseFloat(tok, 64)
		case metarVisFracRegex.MatchString(tok):
			g := metarVisFracRegex.FindStringSubmatch(tok)
			num, _ := strconv.ParseFloat(g[1], 64)
			den, _ := strconv.ParseFloat(g[2], 64)
			if den > 0 {
				m.Visibility = ptr((wholeMiles + num/den) * metersPerStatuteMile)
			}
		case metarVisSMRegex.MatchString(tok):
			g := metarVisSMRegex.FindStringSubmatch(tok)
			miles, _ := strconv.ParseFloat(g[1], 64)
			m.Visibility = ptr(miles * metersPerStatuteMile)
		case metarVisMRegex.MatchString(tok) && m.Visibility == nil:
			meters, _ := strconv.ParseFloat(tok, 64)
			m.Visibility = ptr(meters)
		case metarTempRegex.MatchString(tok):
			g := metarTempRegex.FindStringSubmatch(tok)
			m.Temperature = signedTemp(g[1], g[2])
			m.Dewpoint = signedTemp(g[3], g[4])
		case metarAltimRegex.MatchString(tok):
			n, _ := strconv.ParseFloat(metarAltimRegex.FindStringSubmatch(tok)[1], 64)
			m.SeaLevelPressure = ptr(n / 100 * pascalsPerInHg)
		case metarQNHRegex.MatchString(tok):
			n, _ := strconv.ParseFloat(metarQNHRegex.FindStringSubmatch(tok)[1], 64)
			m.SeaLevelPressure = ptr(n * 100)
		}
	}
	return m, nil
}

func decodeWind(m *METAR, g []string) {
	factor := kmhPerKnot
	if g[5] == "MPS" {
		factor = 3.6
	}
	if g[1] != "VRB" {
		dir, _ := strconv.ParseFloat(g[1], 64)
		m.WindDirection = ptr(dir)
	}
	speed, _ := strconv.ParseFloat(g[2], 64)
	m.WindSpeed = ptr(speed * factor)
	if g[4] != "" {
		gust, _ := strconv.ParseFloat(g[4], 64)
		m.WindGust = ptr(gust * factor)
	}
}

func signedTemp(sign, digits string) *float64 {
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	if sign == "M" {
		v = -v
	}
	return &v
}

func ptr[T any](v T) *T {
	return &v
}
