package domain

import "context"

// PointResolver maps a coordinate onto its NWS forecast grid cell.
type PointResolver interface {
	Points(ctx context.Context, lat, lon float64) (GridPoint, error)
}
