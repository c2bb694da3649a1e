package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/suitability-map/internal/config"
	"github.com/couchcryptid/suitability-map/internal/dashboard"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes map sweeps to a Kafka topic, one message per region.
// It implements dashboard.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sweep topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSweepTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// regionMessage is the wire form of one region within a sweep.
type regionMessage struct {
	dashboard.Assessment
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// PublishSweep serializes every assessment in the sweep and writes them in a
// single WriteMessages call. Messages are keyed by region code so a region
// always lands on the same partition.
func (w *Writer) PublishSweep(ctx context.Context, sweep dashboard.Sweep) error {
	if len(sweep.Regions) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(sweep.Regions))
	for i := range sweep.Regions {
		msg, err := serializeToMessage(sweep, sweep.Regions[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write sweep messages: %w", err)
	}
	w.logger.Debug("sweep written", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one region's assessment into a Kafka message.
func serializeToMessage(sweep dashboard.Sweep, a dashboard.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(regionMessage{
		Assessment: a,
		Generation: sweep.Generation,
		LoadedAt:   sweep.LoadedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment for %s: %w", a.Region.Code, err)
	}
	return kafkago.Message{
		Key:   []byte(a.Region.Code),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "day", Value: []byte(strconv.Itoa(a.Day))},
			{Key: "preference", Value: []byte(a.Preference)},
			{Key: "tier", Value: []byte(a.Category.Tier)},
		},
	}, nil
}
