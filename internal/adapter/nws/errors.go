package nws

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData reports a successful response that carried nothing usable.
	ErrNoData = errors.New("no data returned")

	// ErrInvalidUnits rejects a units parameter other than UnitsUS or UnitsSI.
	ErrInvalidUnits = errors.New("units must be \"us\" or \"si\"")
)

// StatusError is returned for any non-2xx response from the NWS API.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nws API error: status %d: %s: %s", e.StatusCode, e.URL, e.Body)
}

// Temporary reports whether the server side failed and a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500
}
