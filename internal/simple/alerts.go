package simple

import (
	"context"
	"fmt"
	"slices"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

// UpdateAlertsForecastZone refreshes alerts for the forecast zone and returns
// those not present on the previous update.
func (n *NWS) UpdateAlertsForecastZone(ctx context.Context) ([]nws.Alert, error) {
	return n.updateZoneAlerts(ctx, "forecast", func(g domain.GridPoint) string { return g.ForecastZone }, &n.alertsForecastZone)
}

// UpdateAlertsCountyZone refreshes alerts for the county zone and returns
// those not present on the previous update.
func (n *NWS) UpdateAlertsCountyZone(ctx context.Context) ([]nws.Alert, error) {
	return n.updateZoneAlerts(ctx, "county", func(g domain.GridPoint) string { return g.CountyZone }, &n.alertsCountyZone)
}

// UpdateAlertsFireWeatherZone refreshes alerts for the fire weather zone and
// returns those not present on the previous update.
func (n *NWS) UpdateAlertsFireWeatherZone(ctx context.Context) ([]nws.Alert, error) {
	return n.updateZoneAlerts(ctx, "fire weather", func(g domain.GridPoint) string { return g.FireWeatherZone }, &n.alertsFireWeatherZone)
}

func (n *NWS) updateZoneAlerts(ctx context.Context, kind string, zoneOf func(domain.GridPoint) string, current *[]nws.Alert) ([]nws.Alert, error) {
	grid, err := n.Points(ctx)
	if err != nil {
		return nil, err
	}
	zone := zoneOf(grid)
	if zone == "" {
		return nil, fmt.Errorf("%w: no %s zone", ErrPointsUnavailable, kind)
	}
	alerts, err := n.client.ActiveAlertsForZone(ctx, zone)
	if err != nil {
		return nil, err
	}
	fresh := newAlerts(alerts, *current)
	*current = alerts
	return fresh, nil
}

// UpdateAlertsAllZones refreshes alerts across the forecast, county and fire
// weather zones, de-duplicated by id, and returns those not present on the
// previous update.
func (n *NWS) UpdateAlertsAllZones(ctx context.Context) ([]nws.Alert, error) {
	grid, err := n.Points(ctx)
	if err != nil {
		return nil, err
	}
	if grid.ForecastZone == "" {
		return nil, fmt.Errorf("%w: no forecast zone", ErrPointsUnavailable)
	}
	if len(n.allZones) == 0 {
		n.allZones = uniqueZones(grid.ForecastZone, grid.CountyZone, grid.FireWeatherZone)
	}

	var alerts []nws.Alert
	seen := make(map[string]bool)
	for _, zone := range n.allZones {
		zoneAlerts, err := n.client.ActiveAlertsForZone(ctx, zone)
		if err != nil {
			return nil, err
		}
		for _, a := range zoneAlerts {
			if !seen[a.ID] {
				seen[a.ID] = true
				alerts = append(alerts, a)
			}
		}
	}

	fresh := newAlerts(alerts, n.alertsAllZones)
	n.alertsAllZones = alerts
	return fresh, nil
}

// AlertsForecastZone returns every alert from the last forecast zone update,
// not only the new ones.
func (n *NWS) AlertsForecastZone() []nws.Alert { return n.alertsForecastZone }

// AlertsCountyZone returns every alert from the last county zone update.
func (n *NWS) AlertsCountyZone() []nws.Alert { return n.alertsCountyZone }

// AlertsFireWeatherZone returns every alert from the last fire weather zone
// update.
func (n *NWS) AlertsFireWeatherZone() []nws.Alert { return n.alertsFireWeatherZone }

// AlertsAllZones returns every alert from the last all-zone update.
func (n *NWS) AlertsAllZones() []nws.Alert { return n.alertsAllZones }

// AllZones lists the distinct zones UpdateAlertsAllZones queries.
func (n *NWS) AllZones() []string { return n.allZones }

func newAlerts(alerts, current []nws.Alert) []nws.Alert {
	known := make(map[string]bool, len(current))
	for _, a := range current {
		known[a.ID] = true
	}
	var fresh []nws.Alert
	for _, a := range alerts {
		if !known[a.ID] {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

func uniqueZones(zones ...string) []string {
	out := make([]string, 0, len(zones))
	for _, z := range zones {
		if z != "" && !slices.Contains(out, z) {
			out = append(out, z)
		}
	}
	return out
}
