package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"darum/internal/platform/kafka/producer"
	"darum/internal/platform/metrics"
)

// Publisher emits employee domain events. The employee service treats
// publication as fire-and-forget: a broker outage never fails the operation
// that produced the event.
type Publisher interface {
	EmployeeCreated(ctx context.Context, event EmployeeCreated)
	EmployeeStatusUpdated(ctx context.Context, event EmployeeStatusUpdated)
	RoleChanged(ctx context.Context, event RoleChanged)
}

// KafkaPublisher publishes events through the shared Kafka producer, keyed by
// employee code so per-employee ordering is preserved within a topic.
type KafkaPublisher struct {
	producer *producer.Producer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewKafkaPublisher wraps a producer.
func NewKafkaPublisher(p *producer.Producer, m *metrics.Metrics, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, metrics: m, logger: logger}
}

func (p *KafkaPublisher) EmployeeCreated(ctx context.Context, event EmployeeCreated) {
	p.publish(ctx, TopicEmployeeCreated, event.EmployeeCode, event)
}

func (p *KafkaPublisher) EmployeeStatusUpdated(ctx context.Context, event EmployeeStatusUpdated) {
	p.publish(ctx, TopicEmployeeStatusUpdated, event.EmployeeCode, event)
}

func (p *KafkaPublisher) RoleChanged(ctx context.Context, event RoleChanged) {
	p.publish(ctx, TopicRoleChanged, event.EmployeeCode, event)
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, key string, event any) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode event",
			"topic", topic,
			"key", key,
			"error", err,
		)
		return
	}
	p.producer.Publish(ctx, topic, key, value)
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(topic).Inc()
	}
}

// NopPublisher drops every event. Used when the broker is not configured.
type NopPublisher struct{}

func (NopPublisher) EmployeeCreated(context.Context, EmployeeCreated)             {}
func (NopPublisher) EmployeeStatusUpdated(context.Context, EmployeeStatusUpdated) {}
func (NopPublisher) RoleChanged(context.Context, RoleChanged)                     {}
