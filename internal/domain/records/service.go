// Package records owns the analysis record surface: the proxied list and
// edit endpoints, and the delete cascade that keeps the local collections
// consistent when an analysis and its patient are removed at the backend.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/livercare/livercare/internal/domain/casefile"
	"github.com/livercare/livercare/internal/gateway"
)

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrInvalidPayload   = errors.New("invalid analysis payload")
)

// Backend is the slice of the gateway client this service needs.
type Backend interface {
	ListAnalyses(ctx context.Context) ([]gateway.PatientAnalysis, error)
	UpdateAnalysis(ctx context.Context, id string, body json.RawMessage) (json.RawMessage, error)
	DeleteAnalysis(ctx context.Context, id string) (json.RawMessage, error)
	DeletePatient(ctx context.Context, patientID string) (json.RawMessage, error)
}

// CaseStore is the case-side cleanup surface.
type CaseStore interface {
	Delete(ctx context.Context, id string) error
	RenamePatient(ctx context.Context, oldDisplayID, newDisplayID, newName string) error
}

// TaskStore is the task-side cleanup surface.
type TaskStore interface {
	DeleteByPatient(ctx context.Context, patientID string) (int, error)
}

// AppointmentStore is the appointment-side cleanup surface.
type AppointmentStore interface {
	CancelByPatient(ctx context.Context, patientID string) (int, error)
	RenamePatient(ctx context.Context, oldDisplayID, newDisplayID, newName string) error
}

type Service struct {
	backend      Backend
	cases        CaseStore
	tasks        TaskStore
	appointments AppointmentStore
	logger       zerolog.Logger
}

func NewService(backend Backend, cases CaseStore, tasks TaskStore, appointments AppointmentStore, logger zerolog.Logger) *Service {
	return &Service{
		backend:      backend,
		cases:        cases,
		tasks:        tasks,
		appointments: appointments,
		logger:       logger.With().Str("component", "records").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]gateway.PatientAnalysis, error) {
	return s.backend.ListAnalyses(ctx)
}

// Update proxies an analysis edit. When the edit moved the analysis to a
// renamed or different patient, the new display id and name are propagated
// into the local cases and appointments so they keep pointing at the right
// record.
func (s *Service) Update(ctx context.Context, id int64, body json.RawMessage) (json.RawMessage, error) {
	var fields struct {
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, ErrInvalidPayload
	}
	if fields.Confidence != nil && (*fields.Confidence < 0 || *fields.Confidence > 100) {
		return nil, fmt.Errorf("%w: confidence must be between 0 and 100", ErrInvalidPayload)
	}

	before, _ := s.findAnalysis(ctx, id)

	resp, err := s.backend.UpdateAnalysis(ctx, strconv.FormatInt(id, 10), body)
	if err != nil {
		return nil, err
	}

	if before != nil {
		if after, err := s.findAnalysis(ctx, id); err == nil && after != nil {
			s.propagateRename(ctx, before, after)
		}
	}
	return resp, nil
}

func (s *Service) propagateRename(ctx context.Context, before, after *gateway.PatientAnalysis) {
	if before.PatientIDDisplay == after.PatientIDDisplay && before.PatientName == after.PatientName {
		return
	}
	if err := s.cases.RenamePatient(ctx, before.PatientIDDisplay, after.PatientIDDisplay, after.PatientName); err != nil {
		s.logger.Error().Err(err).Msg("failed to rename patient on cases")
	}
	if err := s.appointments.RenamePatient(ctx, before.PatientIDDisplay, after.PatientIDDisplay, after.PatientName); err != nil {
		s.logger.Error().Err(err).Msg("failed to rename patient on appointments")
	}
}

// CleanupResult reports what the delete cascade accomplished. Incomplete
// lists the steps that failed after the analysis itself was already gone.
type CleanupResult struct {
	AnalysisDeleted       bool     `json:"analysisDeleted"`
	PatientDeleted        bool     `json:"patientDeleted"`
	CaseRemoved           bool     `json:"caseRemoved"`
	AppointmentsCancelled int      `json:"appointmentsCancelled"`
	TasksDeleted          int      `json:"tasksDeleted"`
	Incomplete            []string `json:"incomplete,omitempty"`
}

func (r *CleanupResult) Complete() bool {
	return len(r.Incomplete) == 0
}

// Delete removes an analysis and everything hanging off it: the backend
// patient record, the local case, the patient's appointments (cancelled,
// not erased), and the patient's tasks. A backend failure deleting the
// analysis aborts before any local mutation; failures after that point are
// collected so the caller sees exactly what is left over.
func (s *Service) Delete(ctx context.Context, id int64) (*CleanupResult, error) {
	analysis, err := s.findAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, ErrAnalysisNotFound
	}

	if _, err := s.backend.DeleteAnalysis(ctx, strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}

	result := &CleanupResult{AnalysisDeleted: true}
	displayID := analysis.PatientIDDisplay

	if _, err := s.backend.DeletePatient(ctx, displayID); err != nil {
		s.logger.Error().Err(err).Str("patient_id", displayID).Msg("failed to delete patient")
		result.Incomplete = append(result.Incomplete, "patient")
	} else {
		result.PatientDeleted = true
	}

	switch err := s.cases.Delete(ctx, casefile.CaseID(id)); {
	case err == nil:
		result.CaseRemoved = true
	case errors.Is(err, casefile.ErrCaseNotFound):
		// no case to remove, not a failure
	default:
		s.logger.Error().Err(err).Msg("failed to remove case")
		result.Incomplete = append(result.Incomplete, "case")
	}
	return s.finishCleanup(ctx, result, displayID)
}

func (s *Service) finishCleanup(ctx context.Context, result *CleanupResult, displayID string) (*CleanupResult, error) {
	cancelled, err := s.appointments.CancelByPatient(ctx, displayID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to cancel appointments")
		result.Incomplete = append(result.Incomplete, "appointments")
	}
	result.AppointmentsCancelled = cancelled

	deleted, err := s.tasks.DeleteByPatient(ctx, displayID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to delete tasks")
		result.Incomplete = append(result.Incomplete, "tasks")
	}
	result.TasksDeleted = deleted

	return result, nil
}

func (s *Service) findAnalysis(ctx context.Context, id int64) (*gateway.PatientAnalysis, error) {
	analyses, err := s.backend.ListAnalyses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range analyses {
		if analyses[i].ID == id {
			return &analyses[i], nil
		}
	}
	return nil, nil
}
