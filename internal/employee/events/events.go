// Package events defines the employee service's domain events and the
// publisher that hands them to the broker. Consumers (the notifier) decode
// the same structs.
package events

import (
	"time"

	"darum/internal/employee/models"
)

// Topic names. Shared with the notifier's consumer subscriptions.
const (
	TopicEmployeeCreated       = "employee-created"
	TopicEmployeeStatusUpdated = "employee-status-updated"
	TopicRoleChanged           = "role-changed"
)

// RoleChangeAction distinguishes grants from revocations on the role-changed
// topic.
type RoleChangeAction string

const (
	RoleAdded   RoleChangeAction = "ADDED"
	RoleRemoved RoleChangeAction = "REMOVED"
)

// EmployeeCreated is published after a personnel record is written.
type EmployeeCreated struct {
	EmployeeCode string            `json:"employeeCode"`
	Email        string            `json:"email"`
	FullName     string            `json:"fullName"`
	Department   models.Department `json:"department"`
	Position     string            `json:"position"`
	OccurredAt   time.Time         `json:"occurredAt"`
}

// EmployeeStatusUpdated is published after a status transition.
type EmployeeStatusUpdated struct {
	EmployeeCode string        `json:"employeeCode"`
	Email        string        `json:"email"`
	FullName     string        `json:"fullName"`
	OldStatus    models.Status `json:"oldStatus"`
	NewStatus    models.Status `json:"newStatus"`
	OccurredAt   time.Time     `json:"occurredAt"`
}

// RoleChanged is published after the role-mutation saga completes, carrying
// the post-mutation state confirmed by the identity service.
type RoleChanged struct {
	EmployeeCode string           `json:"employeeCode"`
	Email        string           `json:"email"`
	FullName     string           `json:"fullName"`
	Role         string           `json:"role"`
	Action       RoleChangeAction `json:"action"`
	ActorEmail   string           `json:"actorEmail"`
	OccurredAt   time.Time        `json:"occurredAt"`
}
