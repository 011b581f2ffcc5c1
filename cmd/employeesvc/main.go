// The employeesvc binary serves personnel records and runs the role-mutation
// flow against the identity service, publishing domain events to the broker.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"darum/internal/employee/events"
	"darum/internal/employee/handler"
	"darum/internal/employee/service"
	empstore "darum/internal/employee/store/employee"
	"darum/internal/identityclient"
	"darum/internal/platform/config"
	"darum/internal/platform/httpserver"
	"darum/internal/platform/kafka"
	"darum/internal/platform/kafka/producer"
	"darum/internal/platform/logger"
	"darum/internal/platform/metrics"
	"darum/internal/platform/middleware"
	"darum/internal/token"
	"darum/pkg/platform/httputil"
)

func main() {
	cfg := config.EmployeeFromEnv()
	log := logger.New("employeesvc")
	m := metrics.New("employeesvc")
	ctx := context.Background()

	var store empstore.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		store = empstore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory employee store")
		store = empstore.NewInMemory()
	}

	identity := identityclient.New(cfg.AuthServiceURL, log,
		identityclient.WithHTTPClient(&http.Client{Timeout: cfg.AuthTimeout}))

	publisher := buildPublisher(ctx, cfg, m, log)

	codec := token.NewCodec(cfg.Token.Secret, cfg.Token.TTL)
	svc, err := service.New(store, identity, publisher, log, m)
	if err != nil {
		log.Error("failed to build employee service", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Get("/healthz", healthz)
	r.Method("GET", "/metrics", m.Handler())
	handler.New(svc, codec, log).Register(r)

	log.Info("employee service listening", "addr", cfg.Addr)
	if err := httpserver.Run(httpserver.New(cfg.Addr, r), log, cfg.ShutdownTimeout); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// buildPublisher connects to the broker, falling back to a no-op publisher
// when the broker is unreachable so the HTTP API still serves.
func buildPublisher(ctx context.Context, cfg config.Employee, m *metrics.Metrics, log *slog.Logger) events.Publisher {
	if err := kafka.EnsureTopics(ctx, cfg.KafkaBrokers,
		events.TopicEmployeeCreated, events.TopicEmployeeStatusUpdated, events.TopicRoleChanged); err != nil {
		log.Warn("failed to ensure kafka topics, events disabled", "error", err)
		return events.NopPublisher{}
	}

	prod, err := producer.New(cfg.KafkaBrokers, log)
	if err != nil {
		log.Warn("failed to connect kafka producer, events disabled", "error", err)
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(prod, m, log)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
