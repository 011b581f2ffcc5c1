// Package service implements the employee service's operations, including the
// role-mutation pipeline that coordinates the remote identity service with
// the local employee store.
package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"darum/internal/employee/events"
	"darum/internal/employee/models"
	empstore "darum/internal/employee/store/employee"
	"darum/internal/identityclient"
	"darum/internal/platform/metrics"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
)

// IdentityClient is the remote identity contract the pipelines call. The
// identity service owns all role state; this service never mutates roles
// except through these calls.
type IdentityClient interface {
	WhoAmI(ctx context.Context) (identityclient.User, error)
	FindByEmail(ctx context.Context, email string) (identityclient.User, error)
	AddRole(ctx context.Context, userID, role string) (identityclient.User, error)
	RemoveRole(ctx context.Context, userID, role string) (identityclient.User, error)
}

// EmployeeDetails pairs a personnel record with the identity service's
// current roles for that person. Responses are always composed from a
// post-mutation role read, never a pre-mutation snapshot.
type EmployeeDetails struct {
	Employee models.Employee
	Roles    []string
}

// Service orchestrates employee operations.
type Service struct {
	store     empstore.Store
	identity  IdentityClient
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithClock overrides the service clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs the employee service.
func New(store empstore.Store, identity IdentityClient, publisher events.Publisher,
	logger *slog.Logger, m *metrics.Metrics, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("employee store is required")
	}
	if identity == nil {
		return nil, fmt.Errorf("identity client is required")
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	svc := &Service{
		store:     store,
		identity:  identity,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// resolveActor asks the identity service who the caller currently is. The
// whoami call re-reads the store's roles instead of trusting the role claim
// baked into the caller's token, so a role revoked after token issuance is
// honored immediately.
func (s *Service) resolveActor(ctx context.Context) (domain.Principal, error) {
	user, err := s.identity.WhoAmI(ctx)
	if err != nil {
		s.sagaFailure(ctx, "whoami", err)
		return domain.Principal{}, err
	}
	return domain.Principal{
		ID:    user.ID,
		Email: user.Email,
		Roles: user.ParsedRoles(),
	}, nil
}

func (s *Service) sagaFailure(ctx context.Context, step string, err error) {
	s.logger.WarnContext(ctx, "role mutation pipeline step failed",
		"step", step,
		"error", err.Error(),
	)
	if s.metrics != nil {
		s.metrics.SagaFailures.WithLabelValues(step).Inc()
	}
}

const (
	codePrefix   = "EMP-"
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// generateCode produces a human-legible employee code: EMP- followed by six
// characters from a 36-symbol alphabet. Collisions are resolved by the
// caller's retry on the store's duplicate-code conflict.
func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate employee code: %w", err)
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return codePrefix + string(buf), nil
}

func roleTags(roles []string) []string {
	if roles == nil {
		return []string{}
	}
	return roles
}

var errUpstreamRoles = dErrors.New(dErrors.CodeUpstreamUnavailable, "failed to read updated roles")

// rereadRoles fetches the target's post-mutation role set. A failure here
// means the mutation applied but the response cannot be composed from fresh
// state, which callers surface rather than answering with a stale snapshot.
func (s *Service) rereadRoles(ctx context.Context, email string) ([]string, error) {
	user, err := s.identity.FindByEmail(ctx, email)
	if err != nil {
		s.sagaFailure(ctx, "role_reread", err)
		return nil, errUpstreamRoles
	}
	return roleTags(user.Roles), nil
}
