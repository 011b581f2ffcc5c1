package models

import (
	"time"

	"darum/pkg/domain"
)

// User is an identity record. Identities are never hard-deleted and their
// role set is never empty: a freshly registered user always carries USER.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []domain.Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the role.
func (u User) HasRole(r domain.Role) bool {
	return domain.HasRole(u.Roles, r)
}
