package repository

import (
	"context"
	"fmt"

	"StockDash/internal/domain/models"
	domrepo "StockDash/internal/domain/repository"
	pkgkafka "StockDash/pkg/kafka"
)

// KafkaBatchPublisher writes one message per settled batch, keyed by session
// id so a session's batches stay ordered within a partition.
type KafkaBatchPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaBatchPublisher(p *pkgkafka.Producer, topic string) domrepo.BatchPublisher {
	return &KafkaBatchPublisher{producer: p, topic: topic}
}

func (p *KafkaBatchPublisher) PublishBatch(ctx context.Context, ev models.BatchEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.SessionID), ev); err != nil {
		return fmt.Errorf("publish batch %d: %w", ev.Batch, err)
	}
	return nil
}

// Close is a no-op: the producer is shared with the log collector and
// closed by its owner.
func (p *KafkaBatchPublisher) Close() error { return nil }

// NoopBatchPublisher drops every event. Used when Kafka is disabled.
type NoopBatchPublisher struct{}

func (NoopBatchPublisher) PublishBatch(context.Context, models.BatchEvent) error { return nil }
func (NoopBatchPublisher) Close() error                                          { return nil }
