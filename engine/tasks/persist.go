package tasks

import (
	"context"
	"log/slog"

	"github.com/WessleyAI/garage-mvp/engine/domain"
)

// Persister is the persistence collaborator for the task store. The
// implementation (sqlite, remote database) is interchangeable; the
// store only requires the two contracts below.
type Persister interface {
	LoadTasks(ctx context.Context) ([]domain.MaintenanceTask, error)
	SaveTasks(ctx context.Context, tasks []domain.MaintenanceTask) error
}

// AttachPersister subscribes a saver to the store so that every
// mutation is persisted synchronously within the notify step. Save
// failures are logged, never propagated: a persistence hiccup must not
// fail the user's mutation.
func AttachPersister(s *Store, p Persister, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventLoaded {
			return
		}
		if err := p.SaveTasks(context.Background(), ev.Snapshot); err != nil {
			logger.Error("task persist failed", "kind", ev.Kind, "task_id", ev.Task.ID, "err", err)
		}
	})
}
