// Package gateway implements the edge: the trust boundary that turns bearer
// tokens into trust headers, a Redis-backed rate limiter, and the reverse
// proxy onto the internal services.
package gateway

import (
	"log/slog"
	"net/http"
	"strings"

	"darum/internal/platform/metrics"
	"darum/internal/platform/middleware"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/domain"
	"darum/pkg/platform/httputil"
)

// TrustBoundary is the single place trust headers may originate. Per request:
// strip any client-supplied X-User-* headers, pass public-prefix paths
// through unauthenticated, and for everything else verify the bearer token
// and mint fresh trust headers from the verified principal.
func TrustBoundary(verifier middleware.TokenVerifier, publicPrefixes []string, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Never trust inbound trust headers, on any path.
			r.Header.Del(middleware.HeaderUserID)
			r.Header.Del(middleware.HeaderUserEmail)
			r.Header.Del(middleware.HeaderUserRoles)

			if isPublic(r.URL.Path, publicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				reject(w, m, "missing_token")
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("rejected invalid token at trust boundary", "path", r.URL.Path)
				reject(w, m, "invalid_token")
				return
			}

			r.Header.Set(middleware.HeaderUserID, principal.ID)
			r.Header.Set(middleware.HeaderUserEmail, principal.Email)
			r.Header.Set(middleware.HeaderUserRoles, domain.JoinRoles(principal.Roles))
			next.ServeHTTP(w, r)
		})
	}
}

func isPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func reject(w http.ResponseWriter, m *metrics.Metrics, reason string) {
	if m != nil {
		m.RequestsRejected.WithLabelValues(reason).Inc()
	}
	httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
}
