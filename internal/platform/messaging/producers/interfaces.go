package producers

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// EventPublisher publishes movement change events
type EventPublisher interface {
	Publish(ctx context.Context, event *movement.Event) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TopicAdmin is the subset of kafka.Conn used to ensure a topic exists
type TopicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}
