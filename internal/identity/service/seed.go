package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"darum/internal/identity/models"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/platform/sentinel"
)

// SeedSuperAdmin creates the bootstrap SUPERADMIN account if it does not
// already exist. This is the only path that produces a SUPERADMIN role; the
// public role mutation endpoints reject granting it. Safe to call on every
// startup.
func (s *Service) SeedSuperAdmin(ctx context.Context, emailAddr, password string) error {
	exists, err := s.store.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check superadmin account")
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash superadmin password")
	}

	firstName, lastName := "Super", "Admin"
	now := s.now()
	err = s.store.Create(ctx, models.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Roles:        []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin},
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent replica may have seeded first; that is success.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed superadmin account")
	}

	s.logger.InfoContext(ctx, "superadmin account seeded", "email", emailAddr)
	return nil
}
