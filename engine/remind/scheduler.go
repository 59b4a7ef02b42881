// Package remind arms one-shot maintenance reminders. Reminders are
// best-effort in-memory timers: they fire at most once and do not
// survive a process restart.
package remind

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/pkg/metrics"
)

// Alert is the payload delivered when a reminder fires.
type Alert struct {
	TaskID string    `json:"task_id"`
	Title  string    `json:"title"`
	Due    time.Time `json:"due"`
}

// Platform is the notification platform collaborator: it answers the
// permission question and delivers fired alerts.
type Platform interface {
	RequestPermission(ctx context.Context) (bool, error)
	Deliver(ctx context.Context, a Alert) error
}

// SkipReason explains why ScheduleOneShot declined to arm a reminder.
// Skips are soft outcomes, not errors.
type SkipReason string

const (
	SkipNotPermitted SkipReason = "not_permitted"
	SkipAlreadyDue   SkipReason = "already_due"
)

// Result reports the outcome of a scheduling call. Handle is non-nil
// exactly when Scheduled is true.
type Result struct {
	Scheduled bool
	Reason    SkipReason
	Handle    *Handle
}

// Handle identifies an armed reminder and allows revoking it before it
// fires.
type Handle struct {
	TaskID string

	s     *Scheduler
	timer *time.Timer
}

// Cancel revokes the reminder. It reports whether the reminder was
// still armed; cancelling a fired or already-cancelled reminder is a
// safe no-op.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}
	return h.s.cancel(h)
}

// Scheduler is a thin policy layer over the notification platform. It
// only arms a reminder when permission has been granted and the task's
// due time is strictly in the future. Re-arming a task replaces its
// previous reminder rather than queueing a duplicate.
type Scheduler struct {
	mu      sync.Mutex
	granted bool
	armed   map[string]*Handle

	platform       Platform
	logger         *slog.Logger
	now            func() time.Time
	deliverTimeout time.Duration

	armedGauge *metrics.Gauge
	fired      *metrics.Counter
	skipped    *metrics.Counter
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock injects the clock used for arming decisions.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithMetrics wires reminder counters into the registry.
func WithMetrics(reg *metrics.Registry) SchedulerOption {
	return func(s *Scheduler) {
		s.armedGauge = reg.Gauge("reminders_armed", "Currently armed reminders")
		s.fired = reg.Counter("reminders_fired_total", "Reminders fired")
		s.skipped = reg.Counter("reminders_skipped_total", "Reminders skipped by policy")
	}
}

// New creates a Scheduler over the given platform.
func New(platform Platform, logger *slog.Logger, opts ...SchedulerOption) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		armed:          make(map[string]*Handle),
		platform:       platform,
		logger:         logger,
		now:            time.Now,
		deliverTimeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RequestPermission asks the platform for notification permission and
// caches the answer. Permission absence is a normal branch, not an
// error; err is only set when the platform itself failed.
func (s *Scheduler) RequestPermission(ctx context.Context) (bool, error) {
	granted, err := s.platform.RequestPermission(ctx)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	s.granted = granted
	s.mu.Unlock()
	return granted, nil
}

// ScheduleOneShot arms a single reminder for the task's due time. It
// skips (not fails) when permission is missing or the due time is not
// strictly in the future relative to the scheduler's clock.
func (s *Scheduler) ScheduleOneShot(task domain.MaintenanceTask) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.granted {
		s.incSkipped()
		return Result{Reason: SkipNotPermitted}
	}
	now := s.now()
	if !task.Date.After(now) {
		s.incSkipped()
		return Result{Reason: SkipAlreadyDue}
	}

	// One live reminder per task: replace, don't duplicate.
	if prev, ok := s.armed[task.ID]; ok {
		prev.timer.Stop()
		delete(s.armed, task.ID)
	}

	h := &Handle{TaskID: task.ID, s: s}
	alert := Alert{TaskID: task.ID, Title: task.Title, Due: task.Date}
	h.timer = time.AfterFunc(task.Date.Sub(now), func() { s.fire(h, alert) })
	s.armed[task.ID] = h
	s.setArmedGauge()

	s.logger.Info("reminder armed", "task_id", task.ID, "due", task.Date)
	return Result{Scheduled: true, Handle: h}
}

// Cancel revokes the armed reminder for a task id, if any.
func (s *Scheduler) Cancel(taskID string) bool {
	s.mu.Lock()
	h, ok := s.armed[taskID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.cancel(h)
}

// Armed reports the number of currently armed reminders.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

func (s *Scheduler) cancel(h *Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.armed[h.TaskID]
	if !ok || cur != h {
		return false
	}
	stopped := h.timer.Stop()
	delete(s.armed, h.TaskID)
	s.setArmedGauge()
	return stopped
}

func (s *Scheduler) fire(h *Handle, alert Alert) {
	s.mu.Lock()
	if cur, ok := s.armed[h.TaskID]; ok && cur == h {
		delete(s.armed, h.TaskID)
	}
	s.setArmedGauge()
	s.mu.Unlock()

	if s.fired != nil {
		s.fired.Inc()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.deliverTimeout)
	defer cancel()
	if err := s.platform.Deliver(ctx, alert); err != nil {
		s.logger.Error("reminder delivery failed", "task_id", alert.TaskID, "err", err)
		return
	}
	s.logger.Info("reminder fired", "task_id", alert.TaskID, "title", alert.Title)
}

func (s *Scheduler) incSkipped() {
	if s.skipped != nil {
		s.skipped.Inc()
	}
}

// setArmedGauge must be called with mu held.
func (s *Scheduler) setArmedGauge() {
	if s.armedGauge != nil {
		s.armedGauge.Set(int64(len(s.armed)))
	}
}
