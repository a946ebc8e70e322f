package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

// transform reduces each hourly snapshot to a summary. Snapshots that cannot
// be summarized are skipped and counted.
func (p *Pipeline) transform(grid domain.GridPoint, snaps []domain.Snapshot, runID string, logger *slog.Logger) []domain.HourlySummary {
	out := make([]domain.HourlySummary, 0, len(snaps))
	for _, s := range snaps {
		summary, err := domain.BuildHourlySummary(grid, s, runID)
		if err != nil {
			logger.Warn("summarize failed, skipping hour",
				"error", err,
				"start_time", s[domain.StartTime],
			)
			p.metrics.TransformErrors.Inc()
			continue
		}
		out = append(out, summary)
	}
	p.metrics.SummariesBuilt.Add(float64(len(out)))
	return out
}
