package domain

import (
	"fmt"
	"maps"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const iconBaseURL = "https://api.weather.gov/icons/land"

type iconRule struct {
	from []string
	to   string
}

// Converts first, then combines. Order matters: {rain, snow, fzra} must
// become {rain, snow_fzra}, not {rain_snow, fzra}.
var iconRules = []iconRule{
	{from: []string{"blowing_snow"}, to: "blizzard"},
	{from: []string{"freezing_fog"}, to: "fog"},
	{from: []string{"snow_showers"}, to: "snow"},
	{from: []string{"freezing_rain"}, to: "fzra"},
	{from: []string{"freezing_drizzle"}, to: "fzra"},
	{from: []string{"freezing_spray"}, to: "fzra"},
	{from: []string{"ice_pellets"}, to: "sleet"},
	{from: []string{"drizzle"}, to: "rain"},
	{from: []string{"blowing_dust"}, to: "dust"},
	{from: []string{"blowing_sand"}, to: "dust"},
	{from: []string{"snow", "fzra"}, to: "snow_fzra"},
	{from: []string{"rain", "fzra"}, to: "rain_fzra"},
	{from: []string{"rain", "snow"}, to: "rain_snow"},
	{from: []string{"rain_showers", "snow"}, to: "rain_snow"},
	{from: []string{"rain", "sleet"}, to: "rain_sleet"},
	{from: []string{"snow", "sleet"}, to: "snow_sleet"},
	{from: []string{"blizzard", "snow"}, to: "blizzard"},
	{from: []string{"rain", "rain_showers"}, to: "rain"},
}

var ignorableIconCodes = map[string]bool{
	"fog":          true,
	"freezing_fog": true,
}

// When several codes survive, the earliest entry wins. Unlisted codes lose to
// listed ones and tie lexicographically.
var iconPriority = []string{
	"blizzard",
	"snow_fzra",
	"rain_fzra",
	"fzra",
	"snow_sleet",
	"rain_sleet",
	"sleet",
	"rain_snow",
	"snow",
	"rain",
	"rain_showers",
}

// CreateIconURL reproduces the icon NWS shows for the hour described by s.
// When showPOP is set and the hour has weather, the rounded probability of
// precipitation is appended as ",NN" if it exceeds 10 percent. Sky cover
// icons never carry it.
func CreateIconURL(s Snapshot, showPOP bool) string {
	code, hasWeather := iconCode(s)
	if showPOP && hasWeather {
		if pop := roundPOP(s.FloatOr(ProbabilityOfPrecipitation, 0)); pop > 10 {
			code += "," + strconv.Itoa(pop)
		}
	}
	timeOfDay := "day"
	if !s.Daytime() {
		timeOfDay = "night"
	}
	return fmt.Sprintf("%s/%s/%s?size=small", iconBaseURL, timeOfDay, code)
}

// iconCode reports whether the code came from weather conditions rather than
// sky cover.
func iconCode(s Snapshot) (string, bool) {
	codes := make(map[string]bool)
	for _, c := range activeConditions(s.Conditions()) {
		codes[c.Weather] = true
	}
	sky := s.FloatOr(SkyCover, 0)

	if len(codes) == 0 {
		code := skyIconCode(sky)
		if s.FloatOr(WindSpeed, 0) > 32 {
			code = "wind_" + code
		}
		return code, false
	}

	if codes["thunderstorms"] {
		switch {
		case sky < 60:
			return "tsra_hi", true
		case sky < 75:
			return "tsra_sct", true
		default:
			return "tsra", true
		}
	}

	for _, rule := range iconRules {
		if !rule.matches(codes) {
			continue
		}
		for _, c := range rule.from {
			delete(codes, c)
		}
		codes[rule.to] = true
	}

	remaining := slices.Sorted(maps.Keys(codes))
	if len(remaining) > 1 {
		kept := slices.DeleteFunc(slices.Clone(remaining), func(c string) bool { return ignorableIconCodes[c] })
		if len(kept) > 0 {
			remaining = kept
		}
	}
	return pickIconCode(remaining), true
}

func (r iconRule) matches(codes map[string]bool) bool {
	for _, c := range r.from {
		if !codes[c] {
			return false
		}
	}
	return true
}

// pickIconCode expects codes sorted and non-empty.
func pickIconCode(codes []string) string {
	best, bestRank := codes[0], iconRank(codes[0])
	for _, c := range codes[1:] {
		if r := iconRank(c); r < bestRank {
			best, bestRank = c, r
		}
	}
	return best
}

func iconRank(code string) int {
	if i := slices.Index(iconPriority, code); i >= 0 {
		return i
	}
	return len(iconPriority)
}

func skyIconCode(sky float64) string {
	switch {
	case sky <= 5:
		return "skc"
	case sky <= 25:
		return "few"
	case sky <= 50:
		return "sct"
	case sky < 88:
		return "bkn"
	default:
		return "ovc"
	}
}

func roundPOP(pop float64) int {
	return int(math.RoundToEven(pop/10) * 10)
}

// IconWeather is one weather code parsed from an icon URL with its optional
// probability.
type IconWeather struct {
	Code   string `json:"code"`
	Chance *int   `json:"chance,omitempty"`
}

// ParseIconURL splits an NWS icon URL such as
// https://api.weather.gov/icons/land/day/skc/tsra,40?size=medium
// into its time of day and weather codes.
func ParseIconURL(icon string) (string, []IconWeather, error) {
	u, err := url.Parse(icon)
	if err != nil {
		return "", nil, fmt.Errorf("parse icon url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// icons/land/{day|night}/code[/code]
	if len(parts) < 4 {
		return "", nil, fmt.Errorf("icon url %q has no weather codes", icon)
	}

	weather := make([]IconWeather, 0, len(parts)-3)
	for _, p := range parts[3:] {
		code, chance, hasChance := strings.Cut(p, ",")
		w := IconWeather{Code: code}
		if hasChance {
			n, err := strconv.Atoi(chance)
			if err != nil {
				return "", nil, fmt.Errorf("icon url %q: bad chance %q", icon, chance)
			}
			w.Chance = &n
		}
		weather = append(weather, w)
	}
	return parts[2], weather, nil
}

var iconDescriptions = map[string]string{
	"skc":             "Fair/clear",
	"few":             "A few clouds",
	"sct":             "Partly cloudy",
	"bkn":             "Mostly cloudy",
	"ovc":             "Overcast",
	"wind_skc":        "Fair/clear and windy",
	"wind_few":        "A few clouds and windy",
	"wind_sct":        "Partly cloudy and windy",
	"wind_bkn":        "Mostly cloudy and windy",
	"wind_ovc":        "Overcast and windy",
	"snow":            "Snow",
	"rain_snow":       "Rain/snow",
	"rain_sleet":      "Rain/sleet",
	"snow_sleet":      "Snow/sleet",
	"fzra":            "Freezing rain",
	"rain_fzra":       "Rain/freezing rain",
	"snow_fzra":       "Freezing rain/snow",
	"sleet":           "Sleet",
	"rain":            "Rain",
	"rain_showers":    "Rain showers (high cloud cover)",
	"rain_showers_hi": "Rain showers (low cloud cover)",
	"tsra":            "Thunderstorm (high cloud cover)",
	"tsra_sct":        "Thunderstorm (medium cloud cover)",
	"tsra_hi":         "Thunderstorm (low cloud cover)",
	"tornado":         "Tornado",
	"hurricane":       "Hurricane conditions",
	"tropical_storm":  "Tropical storm conditions",
	"dust":            "Dust",
	"smoke":           "Smoke",
	"haze":            "Haze",
	"hot":             "Hot",
	"cold":            "Cold",
	"blizzard":        "Blizzard",
	"fog":             "Fog/mist",
}

// IconWeatherDescription returns readable text for an icon code, or the code
// itself when it is not known.
func IconWeatherDescription(code string) string {
	if d, ok := iconDescriptions[code]; ok {
		return d
	}
	return code
}

// DescribeIconWeather replaces each code with its readable description.
func DescribeIconWeather(weather []IconWeather) []IconWeather {
	out := make([]IconWeather, len(weather))
	for i, w := range weather {
		out[i] = IconWeather{Code: IconWeatherDescription(w.Code), Chance: w.Chance}
	}
	return out
}
