package appointment

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
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDuplicate           = errors.New("an appointment with the same patient, date, and type already exists")
	ErrInvalidInput        = errors.New("invalid input")
)

type Service struct {
	repo   AppointmentRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo AppointmentRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "appointment").Logger(),
		now:    time.Now,
	}
}

// Seed installs the sample appointments, only when the collection has never
// been persisted.
func (s *Service) Seed(ctx context.Context) error {
	_, err := s.repo.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	samples := SampleAppointments(s.now())
	if err := s.repo.Save(ctx, samples); err != nil {
		return err
	}
	s.logger.Info().Int("appointments", len(samples)).Msg("sample appointments installed")
	return nil
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	appointments, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return []Appointment{}, nil
	}
	return appointments, err
}

// Upcoming returns non-cancelled appointments that have not started yet.
func (s *Service) Upcoming(ctx context.Context) ([]Appointment, error) {
	appointments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	upcoming := make([]Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.Status != StatusCancelled && a.DateTime.After(now) {
			upcoming = append(upcoming, a)
		}
	}
	return upcoming, nil
}

func (s *Service) Add(ctx context.Context, a *Appointment) error {
	if a.PatientID == "" || a.PatientName == "" || a.Type == "" || a.DateTime.IsZero() {
		return fmt.Errorf("%w: patientId, patientName, dateTime and type are required", ErrInvalidInput)
	}
	if a.Duration <= 0 {
		a.Duration = 30
	}

	appointments, err := s.repo.Load(ctx)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	if hasConflict(appointments, "", a.PatientID, a.DateTime, a.Type) {
		return ErrDuplicate
	}

	a.ID = uuid.NewString()
	a.Status = StatusScheduled
	return s.repo.Save(ctx, append(appointments, *a))
}

// Reschedule moves an appointment. The conflict check skips the appointment
// being moved, so rescheduling within the same day is allowed.
func (s *Service) Reschedule(ctx context.Context, id string, r Reschedule) (*Appointment, error) {
	if r.Type == "" || r.DateTime.IsZero() {
		return nil, fmt.Errorf("%w: dateTime and type are required", ErrInvalidInput)
	}
	appointments, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(appointments, id)
	if idx < 0 {
		return nil, ErrAppointmentNotFound
	}
	if hasConflict(appointments, id, appointments[idx].PatientID, r.DateTime, r.Type) {
		return nil, ErrDuplicate
	}

	appointments[idx].DateTime = r.DateTime
	appointments[idx].Type = r.Type
	if r.Duration > 0 {
		appointments[idx].Duration = r.Duration
	}
	appointments[idx].Location = r.Location
	appointments[idx].Notes = r.Notes

	if err := s.repo.Save(ctx, appointments); err != nil {
		return nil, err
	}
	moved := appointments[idx]
	return &moved, nil
}

// Cancel marks an appointment cancelled. The record stays in the collection
// so the history survives.
func (s *Service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	appointments, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(appointments, id)
	if idx < 0 {
		return nil, ErrAppointmentNotFound
	}
	appointments[idx].Status = StatusCancelled
	if err := s.repo.Save(ctx, appointments); err != nil {
		return nil, err
	}
	cancelled := appointments[idx]
	return &cancelled, nil
}

// CancelByPatient cancels every non-cancelled appointment of the patient.
// Used by the analysis-delete cascade. Returns how many were cancelled.
func (s *Service) CancelByPatient(ctx context.Context, patientID string) (int, error) {
	appointments, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for i, a := range appointments {
		if a.PatientID == patientID && a.Status != StatusCancelled {
			appointments[i].Status = StatusCancelled
			cancelled++
		}
	}
	if cancelled == 0 {
		return 0, nil
	}
	return cancelled, s.repo.Save(ctx, appointments)
}

// RenamePatient rewrites the display id and name on the patient's
// appointments after a backend rename.
func (s *Service) RenamePatient(ctx context.Context, oldDisplayID, newDisplayID, newName string) error {
	appointments, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	changed := false
	for i, a := range appointments {
		if a.PatientID != oldDisplayID {
			continue
		}
		if newDisplayID != "" {
			appointments[i].PatientID = newDisplayID
		}
		if newName != "" {
			appointments[i].PatientName = newName
		}
		changed = true
	}
	if !changed {
		return nil
	}
	return s.repo.Save(ctx, appointments)
}

func (s *Service) load(ctx context.Context) ([]Appointment, error) {
	appointments, err := s.repo.Load(ctx)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrAppointmentNotFound
	}
	return appointments, err
}

func indexOf(appointments []Appointment, id string) int {
	for i, a := range appointments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// hasConflict reports whether a non-cancelled appointment other than
// excludeID already occupies the same patient, calendar day, and type.
func hasConflict(appointments []Appointment, excludeID, patientID string, dateTime time.Time, appointmentType string) bool {
	y, m, d := dateTime.Date()
	for _, a := range appointments {
		if a.ID == excludeID || a.Status == StatusCancelled {
			continue
		}
		ay, am, ad := a.DateTime.Date()
		if a.PatientID == patientID && a.Type == appointmentType && ay == y && am == m && ad == d {
			return true
		}
	}
	return false
}
