package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/platform/httputil"
	"darum/pkg/requestcontext"
)

// Trust header names minted by the gateway. They may only originate from the
// gateway's trust boundary filter; internal services must not be reachable
// from outside the internal network, because the header names themselves are
// not cryptographically bound.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRoles = "X-User-Roles"
)

// TokenVerifier validates a bearer token and returns the principal it
// asserts.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// InternalTrust re-derives the authenticated principal on an internal hop.
//
// A still-present bearer token takes precedence and is verified locally; a
// present-but-invalid token rejects the request rather than falling back to
// headers. Without a token, gateway trust headers are accepted as asserted.
// Requests with neither proceed unauthenticated; use RequireAuthenticated on
// routes that need a principal.
func InternalTrust(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix); ok {
				principal, err := verifier.Verify(token)
				if err != nil {
					logger.WarnContext(ctx, "rejected invalid bearer token",
						"request_id", requestcontext.RequestID(ctx),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
					return
				}
				ctx = requestcontext.WithPrincipal(ctx, principal)
				ctx = requestcontext.WithBearerToken(ctx, token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			userID := r.Header.Get(HeaderUserID)
			email := r.Header.Get(HeaderUserEmail)
			if userID != "" && email != "" {
				principal := domain.Principal{
					ID:    userID,
					Email: email,
					Roles: domain.SplitRoles(r.Header.Get(HeaderUserRoles)),
				}
				ctx = requestcontext.WithPrincipal(ctx, principal)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated rejects requests that carry no principal.
func RequireAuthenticated(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requestcontext.Principal(r.Context()).IsZero() {
				logger.WarnContext(r.Context(), "unauthenticated request",
					"request_id", requestcontext.RequestID(r.Context()),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
