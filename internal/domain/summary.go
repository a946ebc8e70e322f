package domain

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Intensities that NWS prints in front of a single condition.
var allowedIntensities = map[string][]string{
	"rain": {"light", "heavy"},
	"snow": {"light", "heavy"},
}

var coverageRemap = map[string]string{
	"numerous": "chance",
	"areas":    "areas_of",
}

var coveragePrefixes = map[string]bool{
	"areas_of":      true,
	"chance":        true,
	"isolated":      true,
	"patchy":        true,
	"scattered":     true,
	"slight_chance": true,
}

var coverageSuffixes = map[string]bool{
	"likely": true,
}

// Highest priority first. Coverages not listed rank below all of these.
var coveragePriority = []string{
	"definite",
	"likely",
	"chance",
	"scattered",
	"patchy",
	"areas",
	"isolated",
	"slight_chance",
}

// Phrases NWS emits for specific condition sets, keyed by ConditionsKey.
var cannedForecasts = map[string]string{
	"blowing_snow--areas|snow--likely":                  "snow_likely_and_areas_of_blowing_snow",
	"blowing_snow--patchy|snow-light-likely":            "light_snow_likely_and_patchy_blowing_snow",
	"fog--areas|rain--chance":                           "chance_rain_and_areas_of_fog",
	"rain_showers--chance|thunderstorms--slight_chance": "chance_showers_and_thunderstorms",
}

type combinationRule struct {
	conditions []string
	result     string
}

// Applied in order. A rule fires when all of its conditions are present.
var combinationRules = []combinationRule{
	{conditions: []string{"rain", "freezing_rain"}, result: "freezing_rain"},
	{conditions: []string{"rain_showers", "snow_showers"}, result: "rain_and_snow_showers"},
	{conditions: []string{"rain_showers", "thunderstorms"}, result: "showers_and_thunderstorms"},
	{conditions: []string{"rain", "snow"}, result: "rain_and_snow"},
	{conditions: []string{"drizzle", "rain"}, result: "rain"},
}

// CreateShortForecast reproduces the short forecast phrase NWS shows for the
// hour described by s, e.g. "Chance Light Rain" or "Mostly Cloudy".
func CreateShortForecast(s Snapshot) string {
	conds := activeConditions(s.Conditions())

	var phrase string
	switch len(conds) {
	case 0:
		phrase = skyCoverPhrase(s)
	case 1:
		phrase = singleConditionPhrase(conds[0])
	default:
		phrase = multiConditionPhrase(conds)
	}
	return cases.Title(language.English).String(strings.ReplaceAll(phrase, "_", " "))
}

// ConditionsKey is the canonical form of a condition set: sorted
// "weather-intensity-coverage" tuples joined by "|".
func ConditionsKey(conds []WeatherCondition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, c.Weather+"-"+c.Intensity+"-"+c.Coverage)
	}
	slices.Sort(parts)
	return strings.Join(parts, "|")
}

func activeConditions(conds []WeatherCondition) []WeatherCondition {
	out := make([]WeatherCondition, 0, len(conds))
	for _, c := range conds {
		if c.Weather != "" {
			out = append(out, c)
		}
	}
	return out
}

func singleConditionPhrase(c WeatherCondition) string {
	name := c.Weather
	if slices.Contains(allowedIntensities[c.Weather], c.Intensity) {
		name = c.Intensity + "_" + name
	}
	return withCoverage(name, c.Coverage)
}

func multiConditionPhrase(conds []WeatherCondition) string {
	if canned, ok := cannedForecasts[ConditionsKey(conds)]; ok {
		return canned
	}

	coverage := make(map[string]string, len(conds))
	for _, c := range conds {
		if cur, ok := coverage[c.Weather]; !ok || outranks(c.Coverage, cur) {
			coverage[c.Weather] = c.Coverage
		}
	}

	for _, rule := range combinationRules {
		if !hasAll(coverage, rule.conditions) {
			continue
		}
		best, seen := "", false
		for _, w := range rule.conditions {
			if !seen || outranks(coverage[w], best) {
				best, seen = coverage[w], true
			}
			delete(coverage, w)
		}
		if cur, ok := coverage[rule.result]; ok && outranks(cur, best) {
			best = cur
		}
		coverage[rule.result] = best
	}

	names := slices.Sorted(maps.Keys(coverage))
	top := coverage[names[0]]
	for _, n := range names[1:] {
		if outranks(coverage[n], top) {
			top = coverage[n]
		}
	}
	return withCoverage(strings.Join(names, "_and_"), top)
}

func hasAll(coverage map[string]string, conditions []string) bool {
	for _, c := range conditions {
		if _, ok := coverage[c]; !ok {
			return false
		}
	}
	return true
}

func withCoverage(name, coverage string) string {
	if remapped, ok := coverageRemap[coverage]; ok {
		coverage = remapped
	}
	switch {
	case coveragePrefixes[coverage]:
		return coverage + "_" + name
	case coverageSuffixes[coverage]:
		return name + "_" + coverage
	}
	return name
}

func coverageRank(c string) int {
	if c == "" {
		return len(coveragePriority) + 1
	}
	if i := slices.Index(coveragePriority, c); i >= 0 {
		return i
	}
	return len(coveragePriority)
}

// outranks reports whether coverage a takes precedence over b.
func outranks(a, b string) bool {
	ra, rb := coverageRank(a), coverageRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

func skyCoverPhrase(s Snapshot) string {
	sky := s.FloatOr(SkyCover, 0)
	if s.Daytime() {
		switch {
		case sky <= 25:
			return "sunny"
		case sky <= 50:
			return "mostly_sunny"
		case sky <= 69:
			return "partly_sunny"
		}
	} else {
		switch {
		case sky <= 5:
			return "clear"
		case sky <= 25:
			return "mostly_clear"
		case sky <= 50:
			return "partly_cloudy"
		}
	}
	if sky <= 87 {
		return "mostly_cloudy"
	}
	return "cloudy"
}
