package appointment

import (
	"context"

	"github.com/livercare/livercare/internal/platform/kv"
)

// AppointmentRepository persists the appointment collection as one
// snapshot. Load returns kv.ErrNotFound when nothing has ever been saved.
type AppointmentRepository interface {
	Load(ctx context.Context) ([]Appointment, error)
	Save(ctx context.Context, appointments []Appointment) error
}

type kvAppointmentRepo struct {
	store kv.Store
}

func NewKVAppointmentRepository(store kv.Store) AppointmentRepository {
	return &kvAppointmentRepo{store: store}
}

func (r *kvAppointmentRepo) Load(_ context.Context) ([]Appointment, error) {
	var appointments []Appointment
	if err := r.store.Load(kv.CollectionAppointments, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *kvAppointmentRepo) Save(_ context.Context, appointments []Appointment) error {
	if appointments == nil {
		appointments = []Appointment{}
	}
	return r.store.Save(kv.CollectionAppointments, appointments)
}
