// Package models defines the notifier's record of sent messages.
package models

import "time"

// Status is the delivery outcome of one notification.
type Status string

const (
	StatusSent   Status = "SENT"
	StatusFailed Status = "FAILED"
)

// Notification is one formatted message and its delivery outcome, kept so
// operators can audit what was sent for which event.
type Notification struct {
	ID        string
	Recipient string
	Subject   string
	Body      string
	Topic     string
	Status    Status
	CreatedAt time.Time
}
