package gateway

import "fmt"

// Patient mirrors the backend's /patients serializer.
type Patient struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	PatientID      string `json:"patient_id"`
	BirthDate      string `json:"birth_date,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Department     string `json:"department,omitempty"`
	DoctorName     string `json:"doctor_name,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// PatientAnalysis mirrors the backend's /patient-analyses serializer, which
// joins each report with its patient record.
type PatientAnalysis struct {
	ID               int64   `json:"id"`
	PatientID        int64   `json:"patient_id"`
	Diagnosis        string  `json:"diagnosis"`
	Confidence       float64 `json:"confidence"`
	Advice           string  `json:"advice,omitempty"`
	CreatedAt        string  `json:"created_at,omitempty"`
	UpdatedAt        string  `json:"updated_at,omitempty"`
	PatientName      string  `json:"patient_name"`
	PatientIDDisplay string  `json:"patient_id_display"`
	BirthDate        string  `json:"birth_date,omitempty"`
	Email            string  `json:"email,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	ProfilePicture   string  `json:"profile_picture,omitempty"`
	Department       string  `json:"department,omitempty"`
	DoctorName       string  `json:"doctor_name,omitempty"`
}

// BackendError carries a non-2xx backend response: the upstream status code
// and the structured message it supplied, when there was one.
type BackendError struct {
	StatusCode int
	Detail     string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}
