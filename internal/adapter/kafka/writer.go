package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/nws-forecast-service/internal/config"
	"github.com/couchcryptid/nws-forecast-service/internal/domain"
)

// Writer produces hourly summaries to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes a run's summaries in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, summaries []domain.HourlySummary) error {
	if len(summaries) == 0 {
		return nil
	}
	generatedAt := time.Now().UTC()
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(summaries[i], generatedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d summaries: %w", len(msgs), err)
	}
	w.logger.Debug("batch written", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// messageKey groups all runs for one grid hour: {wfo}/{x},{y}/{startTime}.
func messageKey(s domain.HourlySummary) string {
	return fmt.Sprintf("%s/%d,%d/%s", s.WFO, s.GridX, s.GridY, s.StartTime.UTC().Format(time.RFC3339))
}

// serializeToMessage marshals an HourlySummary into a Kafka message.
func serializeToMessage(s domain.HourlySummary, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize hourly summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(s)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(s.RunID)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
