package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
	"github.com/couchcryptid/nws-forecast-service/internal/simple"
)

var (
	labelColor   = color.New(color.FgCyan)
	timeColor    = color.New(color.FgGreen)
	sectionColor = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.Faint)

	coldColor = color.New(color.FgBlue)
	mildColor = color.New(color.FgWhite)
	hotColor  = color.New(color.FgRed)

	minorColor    = color.New(color.FgYellow)
	severeColor   = color.New(color.FgRed, color.Bold)
	advisoryColor = color.New(color.FgMagenta)
)

func printHeader(w io.Writer, grid domain.GridPoint) {
	sectionColor.Fprintf(w, "Forecast for %.4f,%.4f", grid.Geo.Lat, grid.Geo.Lon)
	dimColor.Fprintf(w, " (%s %d,%d)\n", grid.WFO, grid.X, grid.Y)
}

// formatSummary renders one hour as a single line in loc.
func formatSummary(s domain.HourlySummary, loc *time.Location) string {
	var sb strings.Builder

	timeColor.Fprint(&sb, s.StartTime.In(loc).Format("Mon 15:04"))
	sb.WriteString("  ")
	if s.Temperature != nil {
		tempColor(*s.Temperature).Fprint(&sb, formatTemp(*s.Temperature))
	} else {
		dimColor.Fprint(&sb, "     --    ")
	}
	sb.WriteString("  ")
	sb.WriteString(s.ShortForecast)

	var extra []string
	if s.ProbabilityOfPrecipitation != nil && *s.ProbabilityOfPrecipitation > 0 {
		extra = append(extra, fmt.Sprintf("%d%% precip", int(math.Round(*s.ProbabilityOfPrecipitation))))
	}
	if wind := formatWind(s.WindDirection, s.WindSpeed, s.WindGust); wind != "" {
		extra = append(extra, wind)
	}
	if len(extra) > 0 {
		dimColor.Fprint(&sb, "  ("+strings.Join(extra, ", ")+")")
	}
	return sb.String()
}

func formatObservation(o *simple.Observation, loc *time.Location) string {
	var sb strings.Builder
	sectionColor.Fprintln(&sb, "Current conditions")
	if o == nil {
		dimColor.Fprintln(&sb, "no observations")
		return sb.String()
	}

	line := func(label, value string) {
		if value == "" {
			return
		}
		labelColor.Fprintf(&sb, "%-12s", label+":")
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	line("Station", o.Station)
	if !o.Timestamp.IsZero() {
		line("Observed", o.Timestamp.In(loc).Format("2006-01-02 15:04 MST"))
	}
	line("Sky", o.TextDescription)
	if o.Temperature != nil {
		line("Temperature", tempColor(*o.Temperature).Sprint(formatTemp(*o.Temperature)))
	}
	if o.Dewpoint != nil {
		line("Dewpoint", formatTemp(*o.Dewpoint))
	}
	if o.RelativeHumidity != nil {
		line("Humidity", fmt.Sprintf("%.0f%%", *o.RelativeHumidity))
	}
	line("Wind", formatWind(o.WindDirection, o.WindSpeed, o.WindGust))
	if o.Visibility != nil {
		line("Visibility", fmt.Sprintf("%.1f km", *o.Visibility/1000))
	}
	if o.SeaLevelPressure != nil {
		line("Pressure", fmt.Sprintf("%.1f hPa", *o.SeaLevelPressure/100))
	}
	return sb.String()
}

func formatAlert(a nws.Alert, loc *time.Location) string {
	var sb strings.Builder
	alertColor(a.Severity).Fprint(&sb, a.Event)
	if a.Severity != "" {
		dimColor.Fprintf(&sb, " [%s]", a.Severity)
	}
	if !a.Expires.IsZero() {
		sb.WriteString(" until ")
		timeColor.Fprint(&sb, a.Expires.In(loc).Format("Mon 15:04"))
	}
	if a.AreaDesc != "" {
		sb.WriteString("\n  ")
		sb.WriteString(a.AreaDesc)
	}
	return sb.String()
}

// formatTemp shows a Celsius value in both scales.
func formatTemp(c float64) string {
	return fmt.Sprintf("%3.0f°F/%3.0f°C", c*9/5+32, c)
}

// formatWind renders km/h values as mph with a compass point.
func formatWind(dir, speed, gust *float64) string {
	if speed == nil {
		return ""
	}
	mph := *speed / 1.609344
	if mph < 0.5 {
		return "calm"
	}
	s := fmt.Sprintf("%.0f mph", mph)
	if dir != nil {
		s = compassPoint(*dir) + " " + s
	}
	if gust != nil && *gust > *speed {
		s += fmt.Sprintf(" gusting %.0f", *gust/1.609344)
	}
	return s
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

func compassPoint(deg float64) string {
	i := int(math.Round(math.Mod(deg+360, 360)/22.5)) % len(compassPoints)
	return compassPoints[i]
}

func tempColor(c float64) *color.Color {
	switch {
	case c <= 0:
		return coldColor
	case c >= 30:
		return hotColor
	default:
		return mildColor
	}
}

func alertColor(severity string) *color.Color {
	switch severity {
	case "Extreme", "Severe":
		return severeColor
	case "Moderate":
		return minorColor
	default:
		return advisoryColor
	}
}
