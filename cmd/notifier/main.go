// Package main implements the notifier daemon. It subscribes to fired
// reminder alerts and task lifecycle events on NATS and hands them to
// the delivery sink (stdout in this build; a push gateway in deploys).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"

	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/engine/remind"
	"github.com/WessleyAI/garage-mvp/pkg/natsutil"
)

const (
	subjectTaskEvents = "garage.tasks.events"
	subjectReminders  = "garage.reminders.fired"
)

// Config holds all environment-based configuration, prefixed GARAGE_.
type Config struct {
	NATSURL string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
}

type taskEventMsg struct {
	Kind string                 `json:"kind"`
	Task domain.MaintenanceTask `json:"task"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var cfg Config
	if err := envconfig.Process("garage", &cfg); err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("notifier exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nc, err := natsutil.Connect(ctx, cfg.NATSURL, "garage-notifier")
	if err != nil {
		return err
	}
	defer nc.Close()

	alertSub, err := natsutil.Subscribe(nc, subjectReminders, func(_ context.Context, a remind.Alert) {
		logger.Info("reminder alert",
			"task_id", a.TaskID,
			"title", a.Title,
			"due", a.Due,
		)
	})
	if err != nil {
		return err
	}
	defer alertSub.Unsubscribe()

	eventSub, err := natsutil.Subscribe(nc, subjectTaskEvents, func(_ context.Context, ev taskEventMsg) {
		logger.Info("task event", "kind", ev.Kind, "task_id", ev.Task.ID, "title", ev.Task.Title)
	})
	if err != nil {
		return err
	}
	defer eventSub.Unsubscribe()

	logger.Info("notifier started", "nats", cfg.NATSURL)
	<-ctx.Done()
	logger.Info("shutdown signal received")
	return nil
}
