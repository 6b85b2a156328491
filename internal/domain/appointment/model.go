// Package appointment manages the locally scheduled visits. Like tasks,
// appointments never reach the backend; the store is the source of truth.
package appointment

import "time"

const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Appointment struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patientName"`
	PatientID   string    `json:"patientId"`
	DateTime    time.Time `json:"dateTime"`
	Type        string    `json:"type"`
	Duration    int       `json:"duration"`
	Location    string    `json:"location,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
}

// Reschedule carries the editable fields of a reschedule request.
type Reschedule struct {
	DateTime time.Time `json:"dateTime"`
	Type     string    `json:"type"`
	Duration int       `json:"duration"`
	Location string    `json:"location"`
	Notes    string    `json:"notes"`
}

// SampleAppointments is the demo seed installed when no appointment
// collection has ever been persisted.
func SampleAppointments(now time.Time) []Appointment {
	return []Appointment{
		{
			ID:          "1",
			PatientName: "Ahmed Al-Rashid",
			PatientID:   "P-2024-001",
			DateTime:    now.Add(3 * time.Hour),
			Type:        "Cardiology Consultation",
			Duration:    30,
			Location:    "Room 203",
			Notes:       "Post-surgery follow-up",
			Status:      StatusScheduled,
		},
		{
			ID:          "2",
			PatientName: "Fatima Al-Zahra",
			PatientID:   "P-2024-002",
			DateTime:    now.Add(6 * time.Hour),
			Type:        "Oncology Treatment",
			Duration:    90,
			Location:    "Chemo Suite A",
			Notes:       "Cycle 3 of chemotherapy",
			Status:      StatusConfirmed,
		},
		{
			ID:          "3",
			PatientName: "Omar Hassan",
			PatientID:   "P-2024-003",
			DateTime:    now.Add(24 * time.Hour),
			Type:        "Endocrinology Review",
			Duration:    45,
			Location:    "Room 105",
			Notes:       "Diabetes management check",
			Status:      StatusScheduled,
		},
	}
}
