package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Gridpoint validTime durations only use weeks, days, hours, minutes and
// seconds. Years and months never appear and are rejected.
var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

var isoDurationUnits = [...]time.Duration{
	7 * 24 * time.Hour,
	24 * time.Hour,
	time.Hour,
	time.Minute,
	time.Second,
}

// ParseDuration parses an ISO 8601 duration of the form P[nW][nD][T[nH][nM][nS]].
func ParseDuration(s string) (time.Duration, error) {
	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	var d time.Duration
	for i, unit := range isoDurationUnits {
		part := m[i+1]
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		d += time.Duration(n) * unit
	}
	return d, nil
}

// ParseValidTime splits an NWS validTime ("2024-01-02T03:00:00+00:00/PT2H")
// into its start instant and exclusive end.
func ParseValidTime(s string) (time.Time, time.Time, error) {
	start, end, err := splitValidTime(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidValidTime, s, err)
	}
	d, err := ParseDuration(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidValidTime, s, err)
	}
	return t, t.Add(d), nil
}

func splitValidTime(s string) (string, string, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidValidTime, s)
	}
	return parts[0], parts[1], nil
}
