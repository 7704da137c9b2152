package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ookrx/wx-reporter/internal/config"
	"github.com/ookrx/wx-reporter/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes accepted observations to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured observation topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Load publishes obs keyed by sender callsign, so reports from one station
// stay ordered within a partition.
func (w *Writer) Load(ctx context.Context, obs domain.Observation) error {
	msg, err := serializeToMessage(obs)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish observation: %w", err)
	}
	w.logger.Debug("observation published", "topic", w.writer.Topic, "sender", obs.Sender)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Observation into a Kafka message.
func serializeToMessage(obs domain.Observation) (kafkago.Message, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(obs.Sender),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "sender", Value: []byte(obs.Sender)},
			{Key: "received_at", Value: []byte(obs.ReceivedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
