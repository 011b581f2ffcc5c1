// The authsvc binary serves the identity service: registration, login, token
// issuance, and the role store that every other service defers to.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"darum/internal/identity/handler"
	"darum/internal/identity/service"
	userstore "darum/internal/identity/store/user"
	"darum/internal/platform/config"
	"darum/internal/platform/httpserver"
	"darum/internal/platform/logger"
	"darum/internal/platform/metrics"
	"darum/internal/platform/middleware"
	"darum/internal/token"
	"darum/pkg/platform/httputil"
)

func main() {
	cfg := config.AuthFromEnv()
	log := logger.New("authsvc")
	m := metrics.New("authsvc")
	ctx := context.Background()

	var store userstore.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		store = userstore.NewPostgres(pool)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory user store")
		store = userstore.NewInMemory()
	}

	codec := token.NewCodec(cfg.Token.Secret, cfg.Token.TTL)
	svc, err := service.New(store, codec, log, m)
	if err != nil {
		log.Error("failed to build identity service", "error", err)
		os.Exit(1)
	}

	if cfg.SeedSuperAdmin {
		if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
			log.Error("SEED_SUPERADMIN set but SUPERADMIN_EMAIL or SUPERADMIN_PASSWORD missing")
			os.Exit(1)
		}
		if err := svc.SeedSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
			log.Error("failed to seed superadmin", "error", err)
			os.Exit(1)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Get("/healthz", healthz)
	r.Method("GET", "/metrics", m.Handler())
	handler.New(svc, codec, log).Register(r)

	log.Info("identity service listening", "addr", cfg.Addr)
	if err := httpserver.Run(httpserver.New(cfg.Addr, r), log, cfg.ShutdownTimeout); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
