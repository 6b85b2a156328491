// Package casefile maintains the monitored liver cases derived from backend
// analyses. Derived drafts are merged with locally persisted edits so that
// doctor-entered progress, notes, and status changes survive a re-derive.
package casefile

import (
	"strconv"
	"time"
)

// Case statuses. finished is terminal.
const (
	StatusActive        = "active"
	StatusCritical      = "critical"
	StatusRecovery      = "recovery"
	StatusPendingReview = "pending_review"
	StatusFinished      = "finished"
)

var validStatuses = map[string]bool{
	StatusActive:        true,
	StatusCritical:      true,
	StatusRecovery:      true,
	StatusPendingReview: true,
	StatusFinished:      true,
}

// Case is one monitored patient case. The ID is derived from the backend
// analysis id ("case-<id>"), which is what ties a saved case back to its
// fresh counterpart on merge.
type Case struct {
	ID                string    `json:"id"`
	PatientName       string    `json:"patientName"`
	PatientID         string    `json:"patientId"`
	Diagnosis         string    `json:"diagnosis"`
	Status            string    `json:"status"`
	LastUpdate        time.Time `json:"lastUpdate"`
	TreatmentProgress float64   `json:"treatmentProgress"`
	NextAppointment   time.Time `json:"nextAppointment"`
	AssignedDoctor    string    `json:"assignedDoctor"`
	Department        string    `json:"department"`
	ProfilePicture    string    `json:"profilePicture,omitempty"`
	Alerts            []string  `json:"alerts"`
	Notes             string    `json:"notes"`
}

// CaseID derives the local case id for a backend analysis.
func CaseID(analysisID int64) string {
	return "case-" + strconv.FormatInt(analysisID, 10)
}

// ProgressUpdate carries the editable fields of a case progress edit.
type ProgressUpdate struct {
	Progress   float64 `json:"progress"`
	Status     string  `json:"status"`
	Doctor     string  `json:"doctor"`
	Department string  `json:"department"`
	Notes      string  `json:"notes"`
}
