package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	topicReadAttempts = 3
	topicReadBackoff  = time.Second
)

// ensureTopic creates the topic when its partitions cannot be read.
// Partition reads are retried since a freshly started broker may not answer yet.
func ensureTopic(admin TopicAdmin, topic string, numPartitions, replicationFactor int, backoff time.Duration, log *slog.Logger) error {
	var partitions []kafka.Partition
	var err error

	for i := 0; i < topicReadAttempts; i++ {
		partitions, err = admin.ReadPartitions(topic)
		if err == nil && len(partitions) > 0 {
			log.Info("Kafka topic already exists", "topic", topic, "partitions", len(partitions))
			return nil
		}
		log.Warn("Failed to read topic partitions, retrying", "topic", topic, "attempt", i+1, "error", err)
		time.Sleep(backoff)
	}

	topicConfig := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}
	if topicConfig.NumPartitions <= 0 {
		topicConfig.NumPartitions = 1
	}
	if topicConfig.ReplicationFactor <= 0 {
		topicConfig.ReplicationFactor = 1
	}

	log.Info("Creating Kafka topic", "topic", topic, "partitions", topicConfig.NumPartitions)
	if err := admin.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}
	return nil
}
