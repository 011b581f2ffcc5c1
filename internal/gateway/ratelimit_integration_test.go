//go:build integration

package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformredis "darum/internal/platform/redis"
	"darum/pkg/testutil/containers"
)

func TestRateLimit(t *testing.T) {
	rc := containers.NewRedisContainer(t)

	client, err := platformredis.New(rc.Addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	const limit = 5
	handler := RateLimit(client, limit, logger)(next)

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < limit; i++ {
		require.Equal(t, http.StatusOK, do("10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	// A different client is unaffected.
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}
