// The notifier binary consumes employee domain events from the broker and
// turns each into an email, keeping a delivery log for auditing.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"darum/internal/employee/events"
	notifsender "darum/internal/notification/sender"
	"darum/internal/notification/service"
	notifstore "darum/internal/notification/store/notification"
	"darum/internal/platform/config"
	"darum/internal/platform/httpserver"
	"darum/internal/platform/kafka"
	"darum/internal/platform/kafka/consumer"
	"darum/internal/platform/logger"
	"darum/internal/platform/metrics"
	"darum/internal/platform/middleware"
	"darum/pkg/platform/httputil"
)

func main() {
	cfg := config.NotifierFromEnv()
	log := logger.New("notifier")
	m := metrics.New("notifier")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sender notifsender.EmailSender
	if cfg.SendGridKey != "" {
		sender = notifsender.NewSendGrid(cfg.SendGridKey, cfg.EmailFrom, cfg.EmailFromName)
	} else {
		log.Warn("SENDGRID_API_KEY not set, emails will be logged instead of sent")
		sender = notifsender.NewLog(log)
	}

	store := notifstore.NewInMemory()
	router, err := service.NewRouter(store, sender, log, m)
	if err != nil {
		log.Error("failed to build notification router", "error", err)
		os.Exit(1)
	}

	topics := []string{events.TopicEmployeeCreated, events.TopicEmployeeStatusUpdated, events.TopicRoleChanged}
	if err := kafka.EnsureTopics(ctx, cfg.KafkaBrokers, topics...); err != nil {
		log.Error("failed to ensure kafka topics", "error", err)
		os.Exit(1)
	}

	cons, err := consumer.New(cfg.KafkaBrokers, cfg.KafkaGroup, topics, router.Handle, log)
	if err != nil {
		log.Error("failed to join consumer group", "error", err)
		os.Exit(1)
	}
	defer cons.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Get("/healthz", healthz)
	r.Method("GET", "/metrics", m.Handler())
	srv := httpserver.New(cfg.Addr, r)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("consuming events", "brokers", cfg.KafkaBrokers, "group", cfg.KafkaGroup)
		return cons.Run(ctx)
	})
	g.Go(func() error {
		log.Info("notifier listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("notifier stopped", "error", err)
		os.Exit(1)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
