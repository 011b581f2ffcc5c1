// Package identityclient is the employee service's HTTP client for the
// identity service's internal contract: whoami, user lookup, and role
// mutation. Every call is traced and bounded by the client timeout; transport
// failures map to the upstream-unavailable error code so the saga can
// distinguish "identity said no" from "identity never answered".
package identityclient

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"darum/internal/platform/middleware"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/requestcontext"
)

const defaultTimeout = 5 * time.Second

// User is the identity service's cross-service user representation.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// ParsedRoles returns the user's roles as domain values, dropping tags this
// binary does not know.
func (u User) ParsedRoles() []domain.Role {
	var roles []domain.Role
	for _, tag := range u.Roles {
		if r, ok := domain.ParseRole(tag); ok {
			roles = append(roles, r)
		}
	}
	return roles
}

// Client calls the identity service.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the identity service at baseURL.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tracer:  otel.Tracer("identityclient"),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WhoAmI asks the identity service who the caller currently is. The response
// carries the store's current roles, not the roles baked into the caller's
// token.
func (c *Client) WhoAmI(ctx context.Context) (User, error) {
	return c.call(ctx, http.MethodGet, "/whoami", nil)
}

// FindByEmail resolves a user by email.
func (c *Client) FindByEmail(ctx context.Context, email string) (User, error) {
	return c.call(ctx, http.MethodGet, "/users/by-email?email="+url.QueryEscape(email), nil)
}

// AddRole grants a role to the user.
func (c *Client) AddRole(ctx context.Context, userID, role string) (User, error) {
	return c.call(ctx, http.MethodPut, "/users/"+url.PathEscape(userID)+"/roles",
		map[string]string{"role": role})
}

// RemoveRole revokes a role from the user.
func (c *Client) RemoveRole(ctx context.Context, userID, role string) (User, error) {
	return c.call(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/roles/remove",
		map[string]string{"role": role})
}

func (c *Client) call(ctx context.Context, method, path string, body any) (User, error) {
	ctx, span := c.tracer.Start(ctx, "identity "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		),
	)
	defer span.End()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request")
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	c.propagateIdentity(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.logger.WarnContext(ctx, "identity service unreachable",
			"method", method,
			"path", path,
			"error", err,
		)
		return User{}, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "identity service unavailable")
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return User{}, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "identity service returned a malformed response")
	}

	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, env.Message)
		return User{}, dErrors.New(codeForStatus(resp.StatusCode), env.Message)
	}

	var user User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return User{}, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "identity service returned a malformed response")
	}
	return user, nil
}

// propagateIdentity forwards the caller's credentials on the internal hop.
// The original bearer token travels when present so the identity service can
// verify it itself; otherwise the trust headers re-assert the principal.
func (c *Client) propagateIdentity(ctx context.Context, req *http.Request) {
	if token := requestcontext.BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		return
	}
	principal := requestcontext.Principal(ctx)
	if principal.IsZero() {
		return
	}
	req.Header.Set(middleware.HeaderUserID, principal.ID)
	req.Header.Set(middleware.HeaderUserEmail, principal.Email)
	req.Header.Set(middleware.HeaderUserRoles, domain.JoinRoles(principal.Roles))
}

func codeForStatus(status int) dErrors.Code {
	switch status {
	case http.StatusBadRequest:
		return dErrors.CodeBadRequest
	case http.StatusUnauthorized:
		return dErrors.CodeUnauthorized
	case http.StatusForbidden:
		return dErrors.CodeForbidden
	case http.StatusNotFound:
		return dErrors.CodeNotFound
	case http.StatusConflict:
		return dErrors.CodeConflict
	case http.StatusUnprocessableEntity:
		return dErrors.CodeValidation
	default:
		return dErrors.CodeUpstreamUnavailable
	}
}
