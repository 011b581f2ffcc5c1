// Package user persists identity records. The identity service is the only
// owner of this store; other services reach user data exclusively through the
// identity service's HTTP contract.
package user

import (
	"context"
	"time"

	"darum/internal/identity/models"
	"darum/pkg/domain"
)

// Store is the persistence contract for identity records. Implementations
// return pkg/sentinel errors for infrastructure facts: ErrNotFound for
// missing records, ErrConflict for a duplicate email.
type Store interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateRoles replaces the role list. Role mutation is append/remove on
	// the service side; the store only swaps the materialized list.
	UpdateRoles(ctx context.Context, id string, roles []domain.Role, updatedAt time.Time) (models.User, error)
}
