// Package employee persists personnel records for the employee service.
package employee

import (
	"context"
	"fmt"

	"darum/internal/employee/models"
	"darum/pkg/platform/sentinel"
)

// Duplicate-key facts, distinguished so the service can retry a generated
// employee code but surface a second record for the same identity to the
// caller. Both unwrap to sentinel.ErrConflict.
var (
	ErrDuplicateCode     = fmt.Errorf("duplicate employee code: %w", sentinel.ErrConflict)
	ErrDuplicateIdentity = fmt.Errorf("employee already exists for identity: %w", sentinel.ErrConflict)
)

// Store is the persistence contract for employee records. Missing records are
// sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, emp models.Employee) error
	FindByCode(ctx context.Context, code string) (models.Employee, error)
	FindByEmail(ctx context.Context, email string) (models.Employee, error)
	FindByIdentityID(ctx context.Context, identityID string) (models.Employee, error)
	// Update replaces the mutable fields of the record keyed by ID.
	Update(ctx context.Context, emp models.Employee) (models.Employee, error)
	ListByDepartment(ctx context.Context, dept models.Department) ([]models.Employee, error)
	ListAll(ctx context.Context) ([]models.Employee, error)
}
