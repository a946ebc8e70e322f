package domain

import "errors"

var (
	// ErrInvalidDuration rejects a validTime duration outside
	// P[nW][nD][T[nH][nM][nS]].
	ErrInvalidDuration = errors.New("invalid ISO 8601 duration")

	// ErrInvalidValidTime rejects a validTime that is not "start/duration".
	ErrInvalidValidTime = errors.New("invalid validTime")

	// ErrUnknownUnit is returned for a uom code with no converter.
	ErrUnknownUnit = errors.New("unit code not recognized")

	// ErrUnknownDetail is returned for a name that is not a forecast layer.
	ErrUnknownDetail = errors.New("unknown detail")

	// ErrInvalidTime rejects a zero lookup time.
	ErrInvalidTime = errors.New("time must be set")

	// ErrMissingUpdate means the gridpoint payload had no updateTime.
	ErrMissingUpdate = errors.New("updateTime is required")

	// ErrMETARParse is returned for a METAR too short to decode.
	ErrMETARParse = errors.New("unparseable METAR")
)
