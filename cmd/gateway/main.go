// The gateway binary is the single public entrypoint. It rate-limits clients,
// verifies bearer tokens at the trust boundary, mints the internal identity
// headers, and proxies to the service that owns each path.
package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"darum/internal/gateway"
	"darum/internal/platform/config"
	"darum/internal/platform/httpserver"
	"darum/internal/platform/logger"
	"darum/internal/platform/metrics"
	"darum/internal/platform/middleware"
	platformredis "darum/internal/platform/redis"
	"darum/internal/token"
	"darum/pkg/platform/httputil"
)

func main() {
	cfg := config.GatewayFromEnv()
	log := logger.New("gateway")
	m := metrics.New("gateway")

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient == nil {
		log.Warn("REDIS_URL not set, rate limiting disabled")
	} else {
		defer redisClient.Close()
	}

	proxy, err := gateway.NewProxy(cfg.AuthServiceURL, cfg.EmployeeSvcURL, log)
	if err != nil {
		log.Error("failed to build proxy", "error", err)
		os.Exit(1)
	}

	codec := token.NewCodec(cfg.Token.Secret, cfg.Token.TTL)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Get("/healthz", healthz)
	r.Method("GET", "/metrics", m.Handler())
	r.Group(func(r chi.Router) {
		r.Use(gateway.RateLimit(redisClient, cfg.RatePerMinute, log))
		r.Use(gateway.TrustBoundary(codec, cfg.PublicPrefixes, m, log))
		r.Handle("/*", proxy)
	})

	log.Info("gateway listening", "addr", cfg.Addr)
	if err := httpserver.Run(httpserver.New(cfg.Addr, r), log, cfg.ShutdownTimeout); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
