package tasks

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/WessleyAI/garage-mvp/engine/domain"
)

func testStore() *Store {
	n := 0
	return NewStore(
		WithIDSource(func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		}),
		WithClock(func() time.Time {
			return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		}),
	)
}

func testDraft() Draft {
	return Draft{
		Title:    "Oil Change",
		Date:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Category: domain.TaskRoutine,
	}
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	s := testStore()
	task, err := s.Create(Draft{Title: "  Oil Change  ", Date: testDraft().Date})
	if err != nil {
		t.Fatal(err)
	}
	if task.ID != "task-1" {
		t.Errorf("expected generated id, got %q", task.ID)
	}
	if task.Title != "Oil Change" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Category != domain.TaskRoutine {
		t.Errorf("expected default category, got %q", task.Category)
	}
	if task.Status != domain.TaskActive {
		t.Errorf("expected active status, got %q", task.Status)
	}
	if task.CreatedAt.IsZero() {
		t.Error("expected CreatedAt stamp")
	}
}

func TestCreateValidates(t *testing.T) {
	s := testStore()
	_, err := s.Create(Draft{Title: "", Date: testDraft().Date})
	if !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	_, err = s.Create(Draft{Title: "Oil", Category: "whenever", Date: testDraft().Date})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
	if len(s.List()) != 0 {
		t.Error("rejected drafts must not be stored")
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	s := testStore()
	created, err := s.Create(testDraft())
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != created {
		t.Errorf("round trip mismatch: %+v vs %+v", got, created)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s := testStore()
	created, _ := s.Create(testDraft())

	title := "Oil and Filter Change"
	cat := domain.TaskImportant
	updated, err := s.Update(created.ID, Patch{Title: &title, Category: &cat})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != title || updated.Category != cat {
		t.Errorf("patch not applied: %+v", updated)
	}
	if !updated.Date.Equal(created.Date) {
		t.Error("due date must be untouched by updates")
	}
	if updated.ID != created.ID {
		t.Error("id must be immutable")
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := testStore()
	title := "x"
	_, err := s.Update("missing", Patch{Title: &title})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	s := testStore()
	created, _ := s.Create(testDraft())

	empty := "   "
	_, err := s.Update(created.ID, Patch{Title: &empty})
	if !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	got, _ := s.Get(created.ID)
	if got.Title != created.Title {
		t.Error("failed update must not mutate the task")
	}
}

func TestSetStatusLifecycle(t *testing.T) {
	s := testStore()
	created, _ := s.Create(testDraft())

	done, err := s.SetStatus(created.ID, domain.TaskCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != domain.TaskCompleted {
		t.Errorf("expected completed, got %q", done.Status)
	}

	back, err := s.SetStatus(created.ID, domain.TaskActive)
	if err != nil {
		t.Fatal(err)
	}
	if back.Status != domain.TaskActive {
		t.Errorf("expected active again, got %q", back.Status)
	}
}

func TestSetStatusIdempotent(t *testing.T) {
	s := testStore()
	created, _ := s.Create(testDraft())

	var events []EventKind
	s.Subscribe(func(ev Event) { events = append(events, ev.Kind) })

	if _, err := s.SetStatus(created.ID, domain.TaskActive); err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("same-status set must emit no event, got %v", events)
	}
}

func TestSetStatusInvalid(t *testing.T) {
	s := testStore()
	created, _ := s.Create(testDraft())
	_, err := s.SetStatus(created.ID, "paused")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := testStore()
	created, _ := s.Create(testDraft())

	s.Delete(created.ID)
	if _, err := s.Get(created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	// Second delete is a safe no-op.
	s.Delete(created.ID)
	s.Delete("never-existed")
}

func TestDeleteReindexes(t *testing.T) {
	s := testStore()
	first, _ := s.Create(testDraft())
	d := testDraft()
	d.Title = "Tire Rotation"
	second, _ := s.Create(d)

	s.Delete(first.ID)
	got, err := s.Get(second.ID)
	if err != nil || got.Title != "Tire Rotation" {
		t.Errorf("index broken after delete: %+v, %v", got, err)
	}
}

func TestNotifyOrderAndSnapshot(t *testing.T) {
	s := testStore()

	var seen []Event
	s.Subscribe(func(ev Event) {
		seen = append(seen, ev)
		// State is already mutated when the event arrives.
		if ev.Kind == EventCreated {
			if _, err := s.Get(ev.Task.ID); err != nil {
				t.Errorf("created task not visible during notification: %v", err)
			}
		}
	})

	created, _ := s.Create(testDraft())
	s.SetStatus(created.ID, domain.TaskCompleted)
	s.Delete(created.ID)

	kinds := []EventKind{EventCreated, EventStatus, EventDeleted}
	if len(seen) != len(kinds) {
		t.Fatalf("expected %d events, got %d", len(kinds), len(seen))
	}
	for i, want := range kinds {
		if seen[i].Kind != want {
			t.Errorf("event %d: expected %q, got %q", i, want, seen[i].Kind)
		}
	}
	if len(seen[0].Snapshot) != 1 {
		t.Errorf("create snapshot should hold 1 task, got %d", len(seen[0].Snapshot))
	}
	if len(seen[2].Snapshot) != 0 {
		t.Errorf("delete snapshot should be empty, got %d", len(seen[2].Snapshot))
	}
}

func TestConcurrentMutationsNotifyInOrder(t *testing.T) {
	s := NewStore()

	// The first delivery stalls; a later mutation must not overtake it
	// and leave an older snapshot as the last one delivered.
	var mu sync.Mutex
	var last []domain.MaintenanceTask
	s.Subscribe(func(ev Event) {
		if len(ev.Snapshot) == 1 {
			time.Sleep(30 * time.Millisecond)
		}
		mu.Lock()
		last = ev.Snapshot
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for _, title := range []string{"Oil Change", "Tire Rotation"} {
		wg.Add(1)
		go func(title string) {
			defer wg.Done()
			d := testDraft()
			d.Title = title
			if _, err := s.Create(d); err != nil {
				t.Error(err)
			}
		}(title)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(last) != len(s.List()) {
		t.Fatalf("last delivered snapshot has %d tasks, store has %d", len(last), len(s.List()))
	}
}

func TestLoadReplacesContents(t *testing.T) {
	s := testStore()
	s.Create(testDraft())

	restored := []domain.MaintenanceTask{
		{ID: "a", Title: "Coolant Flush", Date: testDraft().Date, Category: domain.TaskImportant, Status: domain.TaskActive},
		{ID: "b", Title: "Wiper Blades", Date: testDraft().Date, Category: domain.TaskRoutine, Status: domain.TaskCompleted},
	}

	var loads int
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventLoaded {
			loads++
		}
	})

	s.Load(restored)
	if loads != 1 {
		t.Errorf("expected one loaded event, got %d", loads)
	}
	if len(s.List()) != 2 {
		t.Errorf("expected 2 tasks after load, got %d", len(s.List()))
	}
	if _, err := s.Get("b"); err != nil {
		t.Errorf("loaded task not indexed: %v", err)
	}
}

func TestListIsSnapshot(t *testing.T) {
	s := testStore()
	s.Create(testDraft())
	list := s.List()
	list[0].Title = "mutated"
	got, _ := s.Get("task-1")
	if got.Title == "mutated" {
		t.Error("List must return a copy")
	}
}
