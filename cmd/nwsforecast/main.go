// Command nwsforecast prints the hourly forecast, current conditions and
// active alerts for one location, and can save the hourly summaries as a
// JSON fixture.
//
// Usage:
//
//	go run ./cmd/nwsforecast -lat 39.7456 -lon -104.9994 \
//	  -user ops@example.com -hours 12 -current -alerts \
//	  -json testdata/denver_hourly.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"

	"github.com/couchcryptid/nws-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/nws-forecast-service/internal/config"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
	"github.com/couchcryptid/nws-forecast-service/internal/observability"
	"github.com/couchcryptid/nws-forecast-service/internal/simple"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	lat := flag.Float64("lat", 0, "latitude of the location")
	lon := flag.Float64("lon", 0, "longitude of the location")
	user := flag.String("user", sharedcfg.EnvOrDefault("NWS_USER_ID", ""), "contact sent in the NWS User-Agent")
	baseURL := flag.String("base-url", nws.DefaultBaseURL, "NWS API root")
	hours := flag.Int("hours", 12, "number of forecast hours to show")
	station := flag.String("station", "", "observation station (default: nearest)")
	current := flag.Bool("current", false, "show current conditions")
	alerts := flag.Bool("alerts", false, "show active alerts")
	jsonOut := flag.String("json", "", "write the hourly summaries to this file")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	verbose := flag.Bool("v", false, "log NWS requests")
	noColor := flag.Bool("no-color", false, "disable color output")
	flag.Parse()

	if *user == "" {
		flag.Usage()
		return errors.New("missing required flag: -user (or NWS_USER_ID)")
	}
	if *hours < 1 || *hours > config.MaxForecastHours {
		return fmt.Errorf("-hours must be between 1 and %d", config.MaxForecastHours)
	}
	if *noColor {
		color.NoColor = true
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := nws.NewClient(*user, *timeout, 5, observability.NewUnregisteredMetrics(), logger)
	client.SetBaseURL(*baseURL)
	n := simple.New(client, *lat, *lon, simple.WithLogger(logger))

	grid, err := n.Points(ctx)
	if err != nil {
		return err
	}

	retry := nws.RetryPolicy{Interval: 2 * time.Second, Stop: 20 * time.Second}
	if err := nws.Retry(ctx, retry, n.UpdateDetailedForecast); err != nil {
		return fmt.Errorf("detailed forecast: %w", err)
	}
	if err := n.UpdateForecastHourly(ctx, false); err != nil {
		logger.Warn("hourly forecast unavailable, using local hours for day and night", "error", err)
	}

	snaps, err := n.HourlySnapshots(time.Now(), *hours)
	if err != nil {
		return fmt.Errorf("hourly snapshots: %w", err)
	}
	runID := ulid.Make().String()
	summaries := make([]domain.HourlySummary, 0, len(snaps))
	for _, s := range snaps {
		summary, err := domain.BuildHourlySummary(grid, s, runID)
		if err != nil {
			logger.Warn("skipping hour", "error", err)
			continue
		}
		summaries = append(summaries, summary)
	}

	loc := gridLocation(grid)
	out := color.Output
	printHeader(out, grid)
	for _, s := range summaries {
		fmt.Fprintln(out, formatSummary(s, loc))
	}

	if *current {
		if err := printCurrent(ctx, out, n, *station, loc); err != nil {
			logger.Warn("current conditions unavailable", "error", err)
		}
	}
	if *alerts {
		active, err := n.UpdateAlertsAllZones(ctx)
		if err != nil {
			return fmt.Errorf("alerts: %w", err)
		}
		printAlerts(out, active, loc)
	}

	if *jsonOut != "" {
		if err := writeJSON(*jsonOut, summaries); err != nil {
			return fmt.Errorf("writing summaries: %w", err)
		}
		log.Printf("wrote %d summaries: %s", len(summaries), *jsonOut)
	}
	return nil
}

func printCurrent(ctx context.Context, w io.Writer, n *simple.NWS, station string, loc *time.Location) error {
	if err := n.SetStation(ctx, station); err != nil {
		return err
	}
	if err := n.UpdateObservation(ctx, 3, time.Time{}, true); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, formatObservation(n.Observation(), loc))
	return nil
}

func printAlerts(w io.Writer, alerts []nws.Alert, loc *time.Location) {
	fmt.Fprintln(w)
	if len(alerts) == 0 {
		sectionColor.Fprintln(w, "No active alerts")
		return
	}
	for _, a := range alerts {
		fmt.Fprintln(w, formatAlert(a, loc))
	}
}

func gridLocation(grid domain.GridPoint) *time.Location {
	if grid.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(grid.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644) //nolint:gosec // fixture output is not sensitive
}
