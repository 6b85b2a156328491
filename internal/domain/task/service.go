package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/livercare/livercare/internal/platform/kv"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo   TaskRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo TaskRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "task").Logger(),
		now:    time.Now,
	}
}

// Seed installs the sample tasks, but only when the collection has never
// been persisted. An existing snapshot, even an empty one, is left alone.
func (s *Service) Seed(ctx context.Context) error {
	_, err := s.repo.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	samples := SampleTasks(s.now())
	if err := s.repo.Save(ctx, samples); err != nil {
		return err
	}
	s.logger.Info().Int("tasks", len(samples)).Msg("sample tasks installed")
	return nil
}

// List returns all tasks, or only the uncompleted ones when pendingOnly is
// set.
func (s *Service) List(ctx context.Context, pendingOnly bool) ([]Task, error) {
	tasks, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return []Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !pendingOnly {
		return tasks, nil
	}
	pending := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

func (s *Service) Add(ctx context.Context, t *Task) error {
	if err := s.validate(t); err != nil {
		return err
	}
	t.ID = uuid.NewString()
	t.Completed = false
	t.CreatedAt = s.now()

	tasks, err := s.repo.Load(ctx)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	return s.repo.Save(ctx, append(tasks, *t))
}

func (s *Service) Update(ctx context.Context, id string, upd Task) (*Task, error) {
	if err := s.validate(&upd); err != nil {
		return nil, err
	}
	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i, t := range tasks {
		if t.ID != id {
			continue
		}
		tasks[i].Title = upd.Title
		tasks[i].Description = upd.Description
		tasks[i].Priority = upd.Priority
		tasks[i].DueDate = upd.DueDate
		tasks[i].PatientID = upd.PatientID
		tasks[i].PatientName = upd.PatientName
		if err := s.repo.Save(ctx, tasks); err != nil {
			return nil, err
		}
		updated := tasks[i]
		return &updated, nil
	}
	return nil, ErrTaskNotFound
}

func (s *Service) ToggleCompletion(ctx context.Context, id string) (*Task, error) {
	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Completed = !tasks[i].Completed
		if err := s.repo.Save(ctx, tasks); err != nil {
			return nil, err
		}
		toggled := tasks[i]
		return &toggled, nil
	}
	return nil, ErrTaskNotFound
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tasks, err := s.load(ctx)
	if err != nil {
		return err
	}
	remaining := make([]Task, 0, len(tasks))
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, t)
	}
	if !found {
		return ErrTaskNotFound
	}
	return s.repo.Save(ctx, remaining)
}

// DeleteByPatient removes every task tied to the patient's display id. Used
// by the analysis-delete cascade. Returns how many were removed.
func (s *Service) DeleteByPatient(ctx context.Context, patientID string) (int, error) {
	tasks, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	remaining := make([]Task, 0, len(tasks))
	removed := 0
	for _, t := range tasks {
		if t.PatientID == patientID {
			removed++
			continue
		}
		remaining = append(remaining, t)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.repo.Save(ctx, remaining)
}

func (s *Service) load(ctx context.Context) ([]Task, error) {
	tasks, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return tasks, err
}

func (s *Service) validate(t *Task) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !validPriorities[t.Priority] {
		return fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, t.Priority)
	}
	return nil
}
