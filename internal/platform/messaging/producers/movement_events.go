package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/config"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// MovementEventProducer writes movement change events to Kafka, keyed by movement id
// so every change of one movement lands on the same partition in order.
type MovementEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewMovementEventProducer dials the broker, ensures the topic exists and builds an async writer
func NewMovementEventProducer(logger *slog.Logger, cfg *config.KafkaConfig) (*MovementEventProducer, error) {
	if cfg.MovementTopic == "" {
		return nil, fmt.Errorf("kafka movement topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	if err := ensureTopic(conn, cfg.MovementTopic, cfg.NumPartitions, cfg.ReplicationFactor, topicReadBackoff, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure movement topic %s exists: %w", cfg.MovementTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.MovementTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		WriteTimeout: cfg.WriteTimeout,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write movement events", "topic", cfg.MovementTopic, "error", err, "count", len(messages))
			}
		},
	}

	return newMovementEventProducer(logger, writer, cfg.MovementTopic), nil
}

func newMovementEventProducer(logger *slog.Logger, writer KafkaWriter, topic string) *MovementEventProducer {
	return &MovementEventProducer{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Publish serializes the event as JSON and hands it to the writer
func (p *MovementEventProducer) Publish(ctx context.Context, event *movement.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal movement event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.MovementID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish movement event",
			"topic", p.topic,
			"event_type", string(event.Type),
			"movement_id", event.MovementID,
			"error", err,
		)
		return fmt.Errorf("failed to publish movement event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published movement event",
		"topic", p.topic,
		"event_type", string(event.Type),
		"movement_id", event.MovementID,
	)
	return nil
}

func (p *MovementEventProducer) Close() error {
	p.logger.Info("Closing movement event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}

// NoopPublisher discards events; used when the change feed is disabled
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *movement.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }

var (
	_ EventPublisher = (*MovementEventProducer)(nil)
	_ EventPublisher = NoopPublisher{}
)
