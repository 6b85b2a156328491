package casefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/livercare/livercare/internal/gateway"
	"github.com/livercare/livercare/internal/platform/kv"
)

var (
	ErrCaseNotFound = errors.New("case not found")
	ErrCaseFinished = errors.New("case is finished and can no longer be updated")
	ErrInvalidInput = errors.New("invalid input")
)

// BackendClient is the slice of the gateway client the case service needs.
type BackendClient interface {
	ListAnalyses(ctx context.Context) ([]gateway.PatientAnalysis, error)
	ListPatients(ctx context.Context) ([]gateway.Patient, error)
	UpdatePatient(ctx context.Context, patientID string, body json.RawMessage) (json.RawMessage, error)
}

type Service struct {
	repo    CaseRepository
	backend BackendClient
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(repo CaseRepository, backend BackendClient, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		backend: backend,
		logger:  logger.With().Str("component", "casefile").Logger(),
		now:     time.Now,
	}
}

// List returns the persisted cases, optionally filtered by status. When no
// snapshot exists yet it derives one from the backend first.
func (s *Service) List(ctx context.Context, status string) ([]Case, error) {
	if status != "" && !validStatuses[status] {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}

	cases, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		cases, err = s.Refresh(ctx)
	}
	if err != nil {
		return nil, err
	}

	if status == "" {
		return cases, nil
	}
	filtered := make([]Case, 0, len(cases))
	for _, c := range cases {
		if c.Status == status {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Refresh re-derives cases from the backend, folds in saved local edits,
// and persists the merged snapshot.
func (s *Service) Refresh(ctx context.Context) ([]Case, error) {
	analyses, err := s.backend.ListAnalyses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch analyses: %w", err)
	}
	patients, err := s.backend.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch patients: %w", err)
	}

	fresh := Derive(analyses, patients, s.now())

	saved, err := s.repo.Load(ctx)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, err
	}

	merged := Merge(fresh, saved)
	if err := s.repo.Save(ctx, merged); err != nil {
		return nil, err
	}
	s.logger.Info().Int("cases", len(merged)).Msg("case snapshot refreshed")
	return merged, nil
}

// UpdateProgress applies a doctor's progress edit. Reaching 100% moves the
// case to finished; a finished case rejects any further edits.
func (s *Service) UpdateProgress(ctx context.Context, id string, upd ProgressUpdate) (*Case, error) {
	if upd.Progress < 0 || upd.Progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput)
	}
	if !validStatuses[upd.Status] {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, upd.Status)
	}

	cases, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range cases {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCaseNotFound
	}
	if cases[idx].Status == StatusFinished {
		return nil, ErrCaseFinished
	}

	newStatus := upd.Status
	if upd.Progress == 100 {
		newStatus = StatusFinished
	}

	previousDepartment := cases[idx].Department
	cases[idx].TreatmentProgress = upd.Progress
	cases[idx].Status = newStatus
	cases[idx].AssignedDoctor = upd.Doctor
	cases[idx].Department = upd.Department
	cases[idx].Notes = upd.Notes
	cases[idx].LastUpdate = s.now()

	if err := s.repo.Save(ctx, cases); err != nil {
		return nil, err
	}

	// A moved department belongs on the backend patient record too, so the
	// next derive does not revert it. The local edit stands even when the
	// backend call fails.
	if upd.Department != previousDepartment {
		body, _ := json.Marshal(map[string]string{"department": upd.Department})
		if _, err := s.backend.UpdatePatient(ctx, cases[idx].PatientID, body); err != nil {
			s.logger.Error().Err(err).
				Str("patient_id", cases[idx].PatientID).
				Msg("failed to propagate department change")
		}
	}

	updated := cases[idx]
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	cases, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return ErrCaseNotFound
	}
	if err != nil {
		return err
	}

	remaining := make([]Case, 0, len(cases))
	found := false
	for _, c := range cases {
		if c.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return ErrCaseNotFound
	}
	return s.repo.Save(ctx, remaining)
}

// RenamePatient rewrites the display id and name on every case of a renamed
// patient. A missing snapshot is not an error, there is simply nothing to
// rename.
func (s *Service) RenamePatient(ctx context.Context, oldDisplayID, newDisplayID, newName string) error {
	cases, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	changed := false
	for i, c := range cases {
		if c.PatientID != oldDisplayID {
			continue
		}
		if newDisplayID != "" {
			cases[i].PatientID = newDisplayID
		}
		if newName != "" {
			cases[i].PatientName = newName
		}
		changed = true
	}
	if !changed {
		return nil
	}
	return s.repo.Save(ctx, cases)
}
