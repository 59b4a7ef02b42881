// Package tasks implements the maintenance task store, its lifecycle
// rules, and the calendar projection used by the scheduling views.
package tasks

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WessleyAI/garage-mvp/engine/domain"
)

// EventKind labels a task store mutation.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventStatus  EventKind = "status"
	EventDeleted EventKind = "deleted"
	EventLoaded  EventKind = "loaded"
)

// Event is delivered synchronously to subscribers after every mutation.
// Snapshot carries the full post-mutation task list so subscribers (the
// persistence layer in particular) never read state older than the
// notification they received.
type Event struct {
	Kind     EventKind
	Task     domain.MaintenanceTask
	Snapshot []domain.MaintenanceTask
}

// Subscriber receives task store events. Subscribers are invoked
// synchronously, in registration order, before the mutating call
// returns; they must not call back into the store's mutating methods.
type Subscriber func(Event)

// Draft is the input for creating a task.
type Draft struct {
	Title       string              `json:"title"`
	Date        time.Time           `json:"date"`
	VehicleID   string              `json:"vehicle_id,omitempty"`
	Category    domain.TaskCategory `json:"category"`
	Description string              `json:"description,omitempty"`
}

// Patch carries partial task edits. The due date is deliberately absent:
// edits change content, not schedule.
type Patch struct {
	Title       *string              `json:"title,omitempty"`
	Category    *domain.TaskCategory `json:"category,omitempty"`
	Description *string              `json:"description,omitempty"`
	VehicleID   *string              `json:"vehicle_id,omitempty"`
}

// Store is the process-durable maintenance task collection. All
// operations are atomic from the caller's point of view; every mutation
// updates state first and then notifies subscribers before returning.
type Store struct {
	mu    sync.Mutex
	tasks []domain.MaintenanceTask
	byID  map[string]int
	subs  []Subscriber

	// Deliveries are serialized in ticket order so a subscriber never
	// sees a snapshot older than one it already handled.
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	ticket     uint64
	turn       uint64

	newID func() string
	now   func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDSource injects the id generator (tests use a counter).
func WithIDSource(f func() string) StoreOption {
	return func(s *Store) { s.newID = f }
}

// WithClock injects the clock used for CreatedAt stamps.
func WithClock(f func() time.Time) StoreOption {
	return func(s *Store) { s.now = f }
}

// NewStore creates an empty task store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		byID:  make(map[string]int),
		newID: uuid.NewString,
		now:   time.Now,
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe registers a subscriber for all subsequent mutations.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Create validates the draft, assigns a fresh id, and stores the task
// with status active.
func (s *Store) Create(d Draft) (domain.MaintenanceTask, error) {
	if d.Category == "" {
		d.Category = domain.TaskRoutine
	}
	task := domain.MaintenanceTask{
		ID:          s.newID(),
		Title:       strings.TrimSpace(d.Title),
		Date:        d.Date,
		VehicleID:   d.VehicleID,
		Category:    d.Category,
		Description: d.Description,
		Status:      domain.TaskActive,
		CreatedAt:   s.now(),
	}
	if err := domain.ValidateTask(task); err != nil {
		return domain.MaintenanceTask{}, err
	}

	s.mu.Lock()
	s.byID[task.ID] = len(s.tasks)
	s.tasks = append(s.tasks, task)
	s.publish(Event{Kind: EventCreated, Task: task, Snapshot: s.snapshotLocked()})
	return task, nil
}

// Update merges partial fields into the task by id. The id and due date
// are immutable. Returns domain.ErrNotFound for an unknown id.
func (s *Store) Update(id string, p Patch) (domain.MaintenanceTask, error) {
	s.mu.Lock()
	idx, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return domain.MaintenanceTask{}, domain.ErrNotFound
	}

	task := s.tasks[idx]
	if p.Title != nil {
		task.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		task.Category = *p.Category
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.VehicleID != nil {
		task.VehicleID = *p.VehicleID
	}
	if err := domain.ValidateTask(task); err != nil {
		s.mu.Unlock()
		return domain.MaintenanceTask{}, err
	}

	s.tasks[idx] = task
	s.publish(Event{Kind: EventUpdated, Task: task, Snapshot: s.snapshotLocked()})
	return task, nil
}

// SetStatus sets the lifecycle state. Setting the current status again
// is a no-op success and emits no event.
func (s *Store) SetStatus(id string, status domain.TaskStatus) (domain.MaintenanceTask, error) {
	if !domain.ValidTaskStatuses[status] {
		return domain.MaintenanceTask{}, domain.NewValidationError("status", string(status), domain.ErrInvalidStatus)
	}

	s.mu.Lock()
	idx, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return domain.MaintenanceTask{}, domain.ErrNotFound
	}
	task := s.tasks[idx]
	if task.Status == status {
		s.mu.Unlock()
		return task, nil
	}
	task.Status = status
	s.tasks[idx] = task
	s.publish(Event{Kind: EventStatus, Task: task, Snapshot: s.snapshotLocked()})
	return task, nil
}

// Delete removes the task by id. Deleting an absent id is a safe no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	idx, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	task := s.tasks[idx]
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.tasks); i++ {
		s.byID[s.tasks[i].ID] = i
	}
	s.publish(Event{Kind: EventDeleted, Task: task, Snapshot: s.snapshotLocked()})
}

// Get returns the task by id.
func (s *Store) Get(id string) (domain.MaintenanceTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[id]
	if !ok {
		return domain.MaintenanceTask{}, domain.ErrNotFound
	}
	return s.tasks[idx], nil
}

// List returns an order-preserving snapshot of all tasks. Callers must
// not assume any sort order by date.
func (s *Store) List() []domain.MaintenanceTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Load replaces the store contents with tasks from the persistence
// collaborator. Subscribers receive a single loaded event.
func (s *Store) Load(tasks []domain.MaintenanceTask) {
	s.mu.Lock()
	s.tasks = make([]domain.MaintenanceTask, len(tasks))
	copy(s.tasks, tasks)
	s.byID = make(map[string]int, len(tasks))
	for i, t := range s.tasks {
		s.byID[t.ID] = i
	}
	s.publish(Event{Kind: EventLoaded, Snapshot: s.snapshotLocked()})
}

func (s *Store) snapshotLocked() []domain.MaintenanceTask {
	out := make([]domain.MaintenanceTask, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// publish is called with mu held and releases it. It delivers the event
// to subscribers one mutation at a time, in the order the snapshots
// were captured, so a concurrent mutation cannot overtake an earlier
// one inside a subscriber (the persistence layer replaces whole
// snapshots and relies on this). Subscribers may read the store here
// but must not mutate it.
func (s *Store) publish(ev Event) {
	ticket := s.ticket
	s.ticket++
	subs := s.subs
	s.mu.Unlock()

	s.notifyMu.Lock()
	for s.turn != ticket {
		s.notifyCond.Wait()
	}
	s.notifyMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}

	s.notifyMu.Lock()
	s.turn++
	s.notifyCond.Broadcast()
	s.notifyMu.Unlock()
}
