package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/livercare/livercare/internal/platform/kv"
)

type mockTaskRepo struct {
	tasks  []Task
	exists bool
}

func (m *mockTaskRepo) Load(context.Context) ([]Task, error) {
	if !m.exists {
		return nil, kv.ErrNotFound
	}
	return m.tasks, nil
}

func (m *mockTaskRepo) Save(_ context.Context, tasks []Task) error {
	m.tasks = tasks
	m.exists = true
	return nil
}

func newTestService(repo *mockTaskRepo) *Service {
	svc := NewService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_Seed(t *testing.T) {
	repo := &mockTaskRepo{}
	svc := newTestService(repo)

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.tasks) != 3 {
		t.Fatalf("expected 3 sample tasks, got %d", len(repo.tasks))
	}
	if repo.tasks[0].PatientName != "Ahmed Al-Rashid" {
		t.Errorf("unexpected sample task: %+v", repo.tasks[0])
	}
}

func TestService_Seed_SkipsExistingSnapshot(t *testing.T) {
	repo := &mockTaskRepo{exists: true, tasks: []Task{}}
	svc := newTestService(repo)

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.tasks) != 0 {
		t.Error("an existing empty snapshot must not be re-seeded")
	}
}

func TestService_Add(t *testing.T) {
	repo := &mockTaskRepo{}
	svc := newTestService(repo)

	task := &Task{Title: "Review imaging", Priority: PriorityHigh, PatientID: "P-2024-001"}
	if err := svc.Add(context.Background(), task); err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.ID == "" {
		t.Error("add should assign an id")
	}
	if task.CreatedAt.IsZero() {
		t.Error("add should set createdAt")
	}
	if len(repo.tasks) != 1 {
		t.Errorf("expected task to be persisted, got %d", len(repo.tasks))
	}
}

func TestService_Add_Validation(t *testing.T) {
	svc := newTestService(&mockTaskRepo{})

	if err := svc.Add(context.Background(), &Task{}); err == nil {
		t.Error("expected error for missing title")
	}
	if err := svc.Add(context.Background(), &Task{Title: "x", Priority: "urgent"}); err == nil {
		t.Error("expected error for invalid priority")
	}

	defaulted := &Task{Title: "x"}
	if err := svc.Add(context.Background(), defaulted); err != nil {
		t.Fatalf("add: %v", err)
	}
	if defaulted.Priority != PriorityMedium {
		t.Errorf("expected priority to default to medium, got %q", defaulted.Priority)
	}
}

func TestService_ToggleCompletion(t *testing.T) {
	repo := &mockTaskRepo{exists: true, tasks: []Task{{ID: "t1", Title: "x"}}}
	svc := newTestService(repo)

	toggled, err := svc.ToggleCompletion(context.Background(), "t1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed {
		t.Error("expected task to be completed")
	}

	toggled, err = svc.ToggleCompletion(context.Background(), "t1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Completed {
		t.Error("expected second toggle to clear completion")
	}

	if _, err := svc.ToggleCompletion(context.Background(), "nope"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestService_List_PendingOnly(t *testing.T) {
	repo := &mockTaskRepo{exists: true, tasks: []Task{
		{ID: "t1", Completed: true},
		{ID: "t2", Completed: false},
	}}
	svc := newTestService(repo)

	pending, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "t2" {
		t.Errorf("unexpected pending tasks: %+v", pending)
	}

	all, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(all))
	}
}

func TestService_Update(t *testing.T) {
	repo := &mockTaskRepo{exists: true, tasks: []Task{
		{ID: "t1", Title: "old", Priority: PriorityLow, Completed: true},
	}}
	svc := newTestService(repo)

	updated, err := svc.Update(context.Background(), "t1", Task{Title: "new", Priority: PriorityHigh})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "new" || updated.Priority != PriorityHigh {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.Completed {
		t.Error("update must not reset completion")
	}
}

func TestService_DeleteByPatient(t *testing.T) {
	repo := &mockTaskRepo{exists: true, tasks: []Task{
		{ID: "t1", PatientID: "P-2024-001"},
		{ID: "t2", PatientID: "P-2024-002"},
		{ID: "t3", PatientID: "P-2024-001"},
	}}
	svc := newTestService(repo)

	removed, err := svc.DeleteByPatient(context.Background(), "P-2024-001")
	if err != nil {
		t.Fatalf("delete by patient: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if len(repo.tasks) != 1 || repo.tasks[0].ID != "t2" {
		t.Errorf("unexpected remaining tasks: %+v", repo.tasks)
	}
}
