package identityclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darum/internal/platform/middleware"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"data":    data,
		"message": message,
	})
}

func TestWhoAmIForwardsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/whoami", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, User{ID: "u1", Email: "alice@example.com", Roles: []string{"USER"}}, "")
	}))
	defer srv.Close()

	client := New(srv.URL, testLogger())
	ctx := requestcontext.WithBearerToken(context.Background(), "the-token")

	user, err := client.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer the-token", gotAuth)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, []domain.Role{domain.RoleUser}, user.ParsedRoles())
}

func TestWhoAmIFallsBackToTrustHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeEnvelope(w, http.StatusOK, true, User{ID: "u1", Email: "alice@example.com"}, "")
	}))
	defer srv.Close()

	client := New(srv.URL, testLogger())
	ctx := requestcontext.WithPrincipal(context.Background(), domain.Principal{
		ID:    "u1",
		Email: "alice@example.com",
		Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin},
	})

	_, err := client.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
	assert.Equal(t, "u1", got.Get(middleware.HeaderUserID))
	assert.Equal(t, "alice@example.com", got.Get(middleware.HeaderUserEmail))
	assert.Equal(t, "USER,ADMIN", got.Get(middleware.HeaderUserRoles))
}

func TestFindByEmailEscapesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/by-email", r.URL.Path)
		require.Equal(t, "alice+hr@example.com", r.URL.Query().Get("email"))
		writeEnvelope(w, http.StatusOK, true, User{ID: "u1"}, "")
	}))
	defer srv.Close()

	_, err := New(srv.URL, testLogger()).FindByEmail(context.Background(), "alice+hr@example.com")
	require.NoError(t, err)
}

func TestRoleMutationRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/users/u1/roles":
			require.Equal(t, "MANAGER", body["role"])
			writeEnvelope(w, http.StatusOK, true, User{ID: "u1", Roles: []string{"USER", "MANAGER"}}, "")
		case r.Method == http.MethodPost && r.URL.Path == "/users/u1/roles/remove":
			require.Equal(t, "MANAGER", body["role"])
			writeEnvelope(w, http.StatusOK, true, User{ID: "u1", Roles: []string{"USER"}}, "")
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, testLogger())

	added, err := client.AddRole(context.Background(), "u1", "MANAGER")
	require.NoError(t, err)
	assert.Contains(t, added.Roles, "MANAGER")

	removed, err := client.RemoveRole(context.Background(), "u1", "MANAGER")
	require.NoError(t, err)
	assert.NotContains(t, removed.Roles, "MANAGER")
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		message string
		want    dErrors.Code
	}{
		{"not found", http.StatusNotFound, "user not found with email: x@y.com", dErrors.CodeNotFound},
		{"conflict", http.StatusConflict, "user already has role: MANAGER", dErrors.CodeConflict},
		{"forbidden", http.StatusForbidden, "access denied: InsufficientRole", dErrors.CodeForbidden},
		{"unauthorized", http.StatusUnauthorized, "invalid or expired token", dErrors.CodeUnauthorized},
		{"bad request", http.StatusBadRequest, "unknown role: WIZARD", dErrors.CodeBadRequest},
		{"server error", http.StatusInternalServerError, "internal error", dErrors.CodeUpstreamUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tc.status, false, nil, tc.message)
			}))
			defer srv.Close()

			_, err := New(srv.URL, testLogger()).WhoAmI(context.Background())
			require.Error(t, err)
			assert.Equal(t, tc.want, dErrors.CodeOf(err))
			assert.Equal(t, tc.message, dErrors.MessageOf(err))
		})
	}
}

func TestTransportFailureIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL, testLogger()).WhoAmI(context.Background())
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUpstreamUnavailable, dErrors.CodeOf(err))
}
