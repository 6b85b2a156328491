// Package task manages the doctor's pending work items. Tasks live only in
// the local store; the backend never sees them.
package task

import "time"

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var validPriorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
	PatientID   string    `json:"patientId,omitempty"`
	PatientName string    `json:"patientName,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SampleTasks is the demo seed installed when no task collection has ever
// been persisted.
func SampleTasks(now time.Time) []Task {
	return []Task{
		{
			ID:          "1",
			Title:       "Review lab results for Patient #1234",
			Description: "Check latest blood work and update treatment plan",
			Priority:    PriorityHigh,
			DueDate:     now.Add(2 * time.Hour),
			PatientID:   "P-2024-001",
			PatientName: "Ahmed Al-Rashid",
			CreatedAt:   now.Add(-4 * time.Hour),
		},
		{
			ID:          "2",
			Title:       "Schedule follow-up MRI",
			Description: "Patient needs MRI scan for treatment evaluation",
			Priority:    PriorityMedium,
			DueDate:     now.Add(24 * time.Hour),
			PatientID:   "P-2024-002",
			PatientName: "Fatima Al-Zahra",
			CreatedAt:   now.Add(-2 * time.Hour),
		},
		{
			ID:          "3",
			Title:       "Update medication dosage",
			Description: "Adjust insulin dosage based on recent glucose readings",
			Priority:    PriorityHigh,
			DueDate:     now.Add(6 * time.Hour),
			PatientID:   "P-2024-003",
			PatientName: "Omar Hassan",
			CreatedAt:   now.Add(-6 * time.Hour),
		},
	}
}
