// Package service routes broker events to formatted notification emails.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"darum/internal/employee/events"
	"darum/internal/notification/models"
	"darum/internal/notification/sender"
	notifstore "darum/internal/notification/store/notification"
	"darum/internal/platform/kafka/consumer"
	"darum/internal/platform/metrics"
)

// Router decodes domain events and turns each into a persisted, delivered
// notification. It is the handler behind the notifier's consumer group.
type Router struct {
	store   notifstore.Store
	sender  sender.EmailSender
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Router.
type Option func(*Router)

// WithClock overrides the time source. Tests use this for stable timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// NewRouter wires the event router.
func NewRouter(store notifstore.Store, s sender.EmailSender, logger *slog.Logger, m *metrics.Metrics, opts ...Option) (*Router, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if s == nil {
		return nil, fmt.Errorf("sender is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics are required")
	}
	r := &Router{store: store, sender: s, metrics: m, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Handle dispatches one consumed message by topic. Unknown topics are logged
// and dropped so a stray subscription never wedges the consumer group.
func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	switch msg.Topic {
	case events.TopicEmployeeCreated:
		return decodeAndNotify(ctx, r, msg, r.employeeCreated)
	case events.TopicEmployeeStatusUpdated:
		return decodeAndNotify(ctx, r, msg, r.statusUpdated)
	case events.TopicRoleChanged:
		return decodeAndNotify(ctx, r, msg, r.roleChanged)
	default:
		r.logger.Warn("message on unexpected topic dropped", "topic", msg.Topic)
		return nil
	}
}

type formatFunc[E any] func(event E) (recipient, subject, body string)

func decodeAndNotify[E any](ctx context.Context, r *Router, msg *consumer.Message, format formatFunc[E]) error {
	var event E
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// A payload that never parses would be redelivered forever; log and
		// drop it instead.
		r.logger.Error("undecodable event dropped", "topic", msg.Topic, "error", err)
		return nil
	}
	recipient, subject, body := format(event)
	return r.notify(ctx, msg.Topic, recipient, subject, body)
}

func (r *Router) employeeCreated(event events.EmployeeCreated) (string, string, string) {
	subject := "Welcome to the Company!"
	body := fmt.Sprintf(
		"Hello %s! Your employee account has been created. Your employee code is: %s and you're assigned to %s department.",
		event.FullName, event.EmployeeCode, event.Department,
	)
	return event.Email, subject, body
}

func (r *Router) statusUpdated(event events.EmployeeStatusUpdated) (string, string, string) {
	subject := "Account Status Updated"
	body := fmt.Sprintf(
		"Your account status has been changed from %s to %s.",
		event.OldStatus, event.NewStatus,
	)
	return event.Email, subject, body
}

func (r *Router) roleChanged(event events.RoleChanged) (string, string, string) {
	verb := "granted"
	if event.Action == events.RoleRemoved {
		verb = "revoked"
	}
	subject := "Role Update"
	body := fmt.Sprintf(
		"The role %s has been %s on your account by %s.",
		strings.ToUpper(event.Role), verb, event.ActorEmail,
	)
	return event.Email, subject, body
}

// notify persists the notification with its delivery outcome. Send failures
// are recorded and returned so the consumer can log and move on; the saved
// FAILED row is the audit trail.
func (r *Router) notify(ctx context.Context, topic, recipient, subject, body string) error {
	n := models.Notification{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Topic:     topic,
		Status:    models.StatusSent,
		CreatedAt: r.now().UTC(),
	}

	sendErr := r.sender.Send(ctx, recipient, subject, body)
	if sendErr != nil {
		n.Status = models.StatusFailed
		r.metrics.NotificationsFailed.Inc()
	} else {
		r.metrics.NotificationsSent.Inc()
	}

	if err := r.store.Save(ctx, n); err != nil {
		r.logger.Error("failed to record notification", "recipient", recipient, "error", err)
	}

	if sendErr != nil {
		return fmt.Errorf("send notification to %s: %w", recipient, sendErr)
	}
	r.logger.Info("notification sent", "recipient", recipient, "topic", topic)
	return nil
}
