package domain

import (
	"fmt"
	"strings"
)

// Unit is an NWS unit code with any "wmoUnit:"/"nwsUnit:" prefix removed.
type Unit string

const (
	UnitCelsius         Unit = "degC"
	UnitFahrenheit      Unit = "degF"
	UnitKilometersPerHr Unit = "km_h-1"
	UnitMetersPerSecond Unit = "m_s-1"
	UnitKnots           Unit = "kn"
	UnitMeters          Unit = "m"
	UnitMillimeters     Unit = "mm"
	UnitCentimeters     Unit = "cm"
	UnitInches          Unit = "in"
	UnitFeet            Unit = "ft"
	UnitPascals         Unit = "Pa"
	UnitHectopascals    Unit = "hPa"
	UnitPercent         Unit = "percent"
	UnitDegreesAngle    Unit = "degree_(angle)"
	UnitSeconds         Unit = "s"
)

// Values are normalized to Celsius, km/h, metres, millimetres for
// precipitation depth, pascals, percent, degrees, and seconds.
var unitConversions = map[Unit]func(float64) float64{
	UnitCelsius:         identity,
	UnitFahrenheit:      func(x float64) float64 { return (x - 32) / 1.8 },
	UnitKilometersPerHr: identity,
	UnitMetersPerSecond: func(x float64) float64 { return x * 3.6 },
	UnitKnots:           func(x float64) float64 { return x * 1.852 },
	UnitMeters:          identity,
	UnitMillimeters:     identity,
	UnitCentimeters:     func(x float64) float64 { return x * 10 },
	UnitInches:          func(x float64) float64 { return x * 25.4 },
	UnitFeet:            func(x float64) float64 { return x * 0.3048 },
	UnitPascals:         identity,
	UnitHectopascals:    func(x float64) float64 { return x * 100 },
	UnitPercent:         identity,
	UnitDegreesAngle:    identity,
	UnitSeconds:         identity,
}

func identity(x float64) float64 { return x }

// ParseUnit strips the namespace prefix from a uom string and checks it
// against the conversion table.
func ParseUnit(uom string) (Unit, error) {
	code := uom
	if i := strings.LastIndex(uom, ":"); i >= 0 {
		code = uom[i+1:]
	}
	u := Unit(code)
	if _, ok := unitConversions[u]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, uom)
	}
	return u, nil
}

// Convert normalizes v from unit u into its canonical unit.
func (u Unit) Convert(v float64) (float64, error) {
	conv, ok := unitConversions[u]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, string(u))
	}
	return conv(v), nil
}

// ConvertUnit converts a value reported with a full uom string.
func ConvertUnit(uom string, v float64) (float64, error) {
	u, err := ParseUnit(uom)
	if err != nil {
		return 0, err
	}
	return u.Convert(v)
}
