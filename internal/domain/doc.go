// Package domain models National Weather Service (NWS) gridpoint forecasts
// and the rules NWS uses to summarize them.
//
// # Data Source
//
// Gridpoint forecasts come from https://api.weather.gov/gridpoints/{wfo}/{x},{y}.
// The "properties" object holds one entry per forecast layer:
//
//	"temperature": {
//	  "uom": "wmoUnit:degC",
//	  "values": [
//	    {"validTime": "2024-01-02T03:00:00+00:00/PT2H", "value": 4.4},
//	    ...
//	  ]
//	}
//
// A layer without "values" (for example "updateTime" or "elevation") is not
// a forecast layer and is ignored.
//
// # Valid Times
//
// validTime is "<RFC 3339 instant>/<ISO 8601 duration>". Durations use only
// weeks, days, hours, minutes and seconds: "PT1H", "PT1H30M", "P1DT6H",
// "P1W". Each value covers the half-open interval [start, start+duration).
// A lookup at instant T returns the first interval in source order that
// contains T; intervals are not sorted.
//
// # Units
//
// "uom" carries a namespace prefix ("wmoUnit:", "nwsUnit:") which is
// stripped. Values are converted once at construction:
//
//	degF  -> degC      (x - 32) / 1.8
//	m_s-1 -> km_h-1    x * 3.6
//	kn    -> km_h-1    x * 1.852
//	in    -> mm        x * 25.4
//	ft    -> m         x * 0.3048
//	hPa   -> Pa        x * 100
//
// An unrecognized unit is an error rather than a silently wrong number.
//
// # Weather Conditions
//
// The "weather" layer's value is a list of conditions, each with a weather
// code ("rain", "thunderstorms", "snow_showers"), an intensity ("light",
// "heavy", "very_light") and a coverage ("chance", "likely", "areas",
// "slight_chance"). Empty codes appear for hours with no weather.
//
// # Short Forecasts
//
// [CreateShortForecast] rebuilds the phrase NWS displays for an hour:
//
//	rain light chance                       -> "Chance Light Rain"
//	rain_showers likely + thunderstorms likely -> "Showers And Thunderstorms Likely"
//	no weather, daytime, 20% sky cover      -> "Sunny"
//
// Multi-condition hours first consult a table of canned phrases keyed by
// [ConditionsKey], then merge condition pairs NWS reports as one phrase, and
// finally join the rest with "and" under the highest-priority coverage:
// definite > likely > chance > scattered > patchy > areas > isolated >
// slight_chance.
//
// # Icons
//
// [CreateIconURL] rebuilds https://api.weather.gov/icons/land/{day|night}/{code}.
// Thunderstorms pick tsra_hi, tsra_sct or tsra by sky cover (<60, <75,
// otherwise). Other codes pass through an ordered rewrite table
// (freezing_rain -> fzra, {snow, fzra} -> snow_fzra, ...). With no weather,
// sky cover selects skc/few/sct/bkn/ovc, prefixed with "wind_" above
// 32 km/h. Probability of precipitation is rounded half-to-even to the
// nearest ten and appended as ",NN" when above 10.
//
// # METAR Fallback
//
// Station observations sometimes omit values that the raw METAR carries.
// [DecodeMETAR] reads the wind, visibility, temperature and altimeter groups
// so observations can be completed:
//
//	KDEN 021753Z 27015G25KT 10SM FEW080 M05/M12 A3012 RMK AO2
//
// # ID Generation
//
// Hourly summaries carry a deterministic ID derived from the grid cell and
// the hour's start (SHA-256, first 8 bytes, hex), prefixed by the WFO.
package domain
