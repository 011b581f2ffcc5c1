// Package service implements the identity service's business rules: account
// registration, credential login, the whoami re-read, and the append-only
// role mutation contract consumed by the employee service.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"darum/internal/authz"
	"darum/internal/identity/models"
	userstore "darum/internal/identity/store/user"
	"darum/internal/platform/metrics"
	"darum/internal/token"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/email"
	"darum/pkg/platform/sentinel"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned by Register and Login: a signed token plus the
// claims it asserts, so clients need not decode the token themselves.
type AuthResult struct {
	Token string
	Email string
	Roles []domain.Role
}

// Service owns identity records and the token issuance path.
type Service struct {
	store   userstore.Store
	codec   *token.Codec
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithClock overrides the service clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs the identity service.
func New(store userstore.Store, codec *token.Codec, logger *slog.Logger, m *metrics.Metrics, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if codec == nil {
		return nil, fmt.Errorf("token codec is required")
	}

	svc := &Service{
		store:   store,
		codec:   codec,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates a new identity with the base USER role and logs it in
// immediately by issuing a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(in.Email))
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return AuthResult{}, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if len(in.Password) < 6 {
		return AuthResult{}, dErrors.New(dErrors.CodeValidation, "password must be at least 6 characters")
	}

	exists, err := s.store.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return AuthResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing user")
	}
	if exists {
		return AuthResult{}, dErrors.New(dErrors.CodeConflict, "user already exists with email: "+emailAddr)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	firstName, lastName := in.FirstName, in.LastName
	if firstName == "" && lastName == "" {
		firstName, lastName = email.DeriveNameFromEmail(emailAddr)
	}

	now := s.now()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Roles:        []domain.Role{domain.RoleUser},
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return AuthResult{}, dErrors.New(dErrors.CodeConflict, "user already exists with email: "+emailAddr)
		}
		return AuthResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	if s.metrics != nil {
		s.metrics.UsersRegistered.Inc()
	}

	return s.issueFor(user, now)
}

// Login verifies credentials and issues a token carrying the user's current
// roles.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (AuthResult, error) {
	user, err := s.store.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return AuthResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return AuthResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if !user.Enabled {
		return AuthResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	s.logger.InfoContext(ctx, "login successful", "user_id", user.ID, "email", user.Email)
	if s.metrics != nil {
		s.metrics.LoginsTotal.Inc()
	}

	return s.issueFor(user, s.now())
}

// WhoAmI re-reads the caller's record from the store. Authorization decisions
// downstream use these roles rather than the role claim embedded in a token,
// which defends against a revoked-but-not-yet-expired token whose roles
// changed since issuance.
func (s *Service) WhoAmI(ctx context.Context, principal domain.Principal) (models.User, error) {
	user, err := s.store.FindByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeUnauthorized, "unknown principal")
		}
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return user, nil
}

// FindByEmail resolves a user for cross-service lookups.
func (s *Service) FindByEmail(ctx context.Context, emailAddr string) (models.User, error) {
	user, err := s.store.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found with email: "+emailAddr)
		}
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return user, nil
}

func (s *Service) issueFor(user models.User, now time.Time) (AuthResult, error) {
	tok, err := s.codec.Issue(user.ID, user.Email, user.Roles, now)
	if err != nil {
		return AuthResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return AuthResult{Token: tok, Email: user.Email, Roles: user.Roles}, nil
}

// grantAction maps a role being granted to the policy action guarding it.
func grantAction(role domain.Role) authz.Action {
	switch role {
	case domain.RoleSuperAdmin:
		return authz.ActionGrantSuperAdmin
	case domain.RoleAdmin:
		return authz.ActionPromoteAdmin
	default:
		return authz.ActionPromoteManager
	}
}

// AddRole appends a role to the target user's role set. Conflicts (role
// already present) are enforced here, on the identity side, because this
// store is the single owner of role state.
func (s *Service) AddRole(ctx context.Context, actor domain.Principal, userID, roleTag string) (models.User, error) {
	role, ok := domain.ParseRole(roleTag)
	if !ok {
		return models.User{}, dErrors.New(dErrors.CodeValidation, "unknown role: "+roleTag)
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found with id: "+userID)
		}
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	decision := authz.Decide(actor, grantAction(role), authz.Target{Email: user.Email, Roles: user.Roles})
	if !decision.Allowed {
		return models.User{}, decision.Err()
	}

	if user.HasRole(role) {
		return models.User{}, dErrors.New(dErrors.CodeConflict, "user already has role: "+string(role))
	}

	updated, err := s.store.UpdateRoles(ctx, user.ID, append(user.Roles, role), s.now())
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add role")
	}

	s.logger.InfoContext(ctx, "role added",
		"user_id", user.ID,
		"role", role,
		"actor", actor.Email,
	)
	if s.metrics != nil {
		s.metrics.RoleMutations.WithLabelValues("add_" + strings.ToLower(string(role))).Inc()
	}
	return updated, nil
}

// removeAction maps a role being removed to the policy action guarding it.
func removeAction(role domain.Role) authz.Action {
	if role == domain.RoleAdmin {
		return authz.ActionRemoveAdmin
	}
	return authz.ActionDemoteManager
}

// RemoveRole removes a role from the target user's role set. The base USER
// role is never removable, which keeps the role set non-empty.
func (s *Service) RemoveRole(ctx context.Context, actor domain.Principal, userID, roleTag string) (models.User, error) {
	role, ok := domain.ParseRole(roleTag)
	if !ok {
		return models.User{}, dErrors.New(dErrors.CodeValidation, "unknown role: "+roleTag)
	}
	if role == domain.RoleUser {
		return models.User{}, dErrors.New(dErrors.CodeValidation, "base role USER cannot be removed")
	}
	if role == domain.RoleSuperAdmin {
		return models.User{}, dErrors.New(dErrors.CodeForbidden, "access denied: Forbidden")
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found with id: "+userID)
		}
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	decision := authz.Decide(actor, removeAction(role), authz.Target{Email: user.Email, Roles: user.Roles})
	if !decision.Allowed {
		return models.User{}, decision.Err()
	}

	if !user.HasRole(role) {
		return models.User{}, dErrors.New(dErrors.CodeConflict, "user does not have role: "+string(role))
	}

	var remaining []domain.Role
	for _, r := range user.Roles {
		if r != role {
			remaining = append(remaining, r)
		}
	}

	updated, err := s.store.UpdateRoles(ctx, user.ID, remaining, s.now())
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove role")
	}

	s.logger.InfoContext(ctx, "role removed",
		"user_id", user.ID,
		"role", role,
		"actor", actor.Email,
	)
	if s.metrics != nil {
		s.metrics.RoleMutations.WithLabelValues("remove_" + strings.ToLower(string(role))).Inc()
	}
	return updated, nil
}
