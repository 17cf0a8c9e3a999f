// Package kafka publishes applied interventions to an event stream so
// downstream consumers (dashboards, analytics) can follow heat development
// without polling the simulation state.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/config"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces intervention events to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and writes one intervention event.
func (p *Publisher) Publish(ctx context.Context, event domain.InterventionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an InterventionEvent into a Kafka message,
// keyed by intervention type so per-type consumers see ordered streams.
func serializeToMessage(event domain.InterventionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize intervention event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Type),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "intervention_type", Value: []byte(event.Type)},
			{Key: "applied_at", Value: []byte(event.AppliedAt.Format(time.RFC3339))},
		},
	}, nil
}
