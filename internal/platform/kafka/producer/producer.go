// Package producer wraps franz-go for fire-and-forget event publication.
// Delivery is at-least-once on the broker side; a failed produce is logged
// and never fails the request that triggered it.
package producer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes records to named topics.
type Producer struct {
	client *kgo.Client
	logger *slog.Logger
}

// New connects to the brokers and returns a producer.
func New(brokers []string, logger *slog.Logger) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Producer{client: client, logger: logger}, nil
}

// Publish hands a record to the broker asynchronously. Errors surface in the
// log only; callers never block on delivery.
func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) {
	record := &kgo.Record{Topic: topic, Key: []byte(key), Value: value}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("failed to publish event",
				"topic", r.Topic,
				"key", string(r.Key),
				"error", err,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (p *Producer) Close() {
	p.client.Close()
}
