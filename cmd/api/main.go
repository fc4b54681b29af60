package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"therapy-track/internal/adapters/notify/cronsched"
	"therapy-track/internal/adapters/notify/webhook"
	"therapy-track/internal/platform/config"
	"therapy-track/internal/platform/logger"
	"therapy-track/internal/platform/metrics"
	"therapy-track/internal/ports/notify"
	"therapy-track/internal/router"
)

// @title therapy-track API
// @version 1.0
// @description Seguimiento de medicación: catálogo, schedules, dosis del día, registros de toma y reportes.
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("THERAPY_CONFIG"), "ruta al archivo YAML de configuración")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	loc, err := cfg.Reminders.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := router.OpenStorage(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("closing storage", map[string]any{"error": err})
		}
	}()

	// Recordatorios: cron in-process; el envío va al webhook o al log.
	var sender notify.Sender = webhook.LogSender{Log: log}
	if cfg.Reminders.WebhookURL != "" {
		s, err := webhook.New(cfg.Reminders.WebhookURL, nil, log)
		if err != nil {
			return err
		}
		sender = s
	}

	var (
		sched    *cronsched.Scheduler
		notifier notify.Notifier = notify.Noop{}
	)
	if cfg.Reminders.Enabled {
		sched = cronsched.New(loc, sender, log)
		notifier = sched
	}

	app := router.New(router.Options{
		Storage:  store,
		Notifier: notifier,
		Metrics:  metrics.New(),
		Logger:   log,
		Location: loc,
	})

	if _, err := app.Groups.EnsureDefaults(ctx); err != nil {
		return err
	}

	if sched != nil {
		rearm := func(ctx context.Context) {
			res, err := app.Reminders.RearmToday(ctx)
			if err != nil {
				log.Error("rearming reminders", map[string]any{"error": err})
				return
			}
			log.Info("reminders rearmed", map[string]any{
				"scheduled": len(res.Scheduled),
				"cancelled": len(res.Cancelled),
			})
		}
		rearm(ctx)
		// Al cambiar de día se rearman los recordatorios del día nuevo.
		if err := sched.Daily(0, 0, rearm); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":      srv.Addr,
			"storage":   cfg.Storage.Driver,
			"reminders": cfg.Reminders.Enabled,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
