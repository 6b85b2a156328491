package casefile

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/livercare/livercare/internal/gateway"
)

const (
	alertLowConfidence = "Low confidence in diagnosis - requires review"
	alertHighRisk      = "High-risk condition - close monitoring required"
)

// StatusForConfidence classifies a case by analysis confidence.
func StatusForConfidence(confidence float64) string {
	switch {
	case confidence < 50:
		return StatusCritical
	case confidence > 85:
		return StatusRecovery
	case confidence < 70:
		return StatusPendingReview
	default:
		return StatusActive
	}
}

// AlertsFor builds the alert list for a case. diagnosis is the expanded
// display form.
func AlertsFor(confidence float64, diagnosis string) []string {
	var alerts []string
	if confidence < 70 {
		alerts = append(alerts, alertLowConfidence)
	}
	lower := strings.ToLower(diagnosis)
	if strings.Contains(lower, "cancer") || strings.Contains(lower, "disease") {
		alerts = append(alerts, alertHighRisk)
	}
	return alerts
}

// jitter spreads derived treatment progress around the raw confidence so
// two cases with the same confidence do not render identically. It is a
// pure function of the case id, so re-deriving never moves a progress bar.
func jitter(id string) float64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return float64(h.Sum32()%21) - 10
}

// appointmentOffset places the derived next appointment 1 to 7 days after
// the last update, again deterministically per case.
func appointmentOffset(id string) time.Duration {
	h := fnv.New32a()
	h.Write([]byte(id))
	days := 1 + h.Sum32()%7
	return time.Duration(days) * 24 * time.Hour
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Derive builds draft cases from backend analyses, resolving doctor,
// department, and picture from the matching patient record. now is the
// fallback last-update when the analysis carries no timestamps.
func Derive(analyses []gateway.PatientAnalysis, patients []gateway.Patient, now time.Time) []Case {
	byID := make(map[int64]gateway.Patient, len(patients))
	for _, p := range patients {
		byID[p.ID] = p
	}

	cases := make([]Case, 0, len(analyses))
	for _, analysis := range analyses {
		diagnosis := ExpandDiagnosis(analysis.Diagnosis)
		id := CaseID(analysis.ID)

		lastUpdate := now
		if ts := firstNonEmpty(analysis.UpdatedAt, analysis.CreatedAt); ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				lastUpdate = parsed
			}
		}

		patientName := analysis.PatientName
		if patientName == "" {
			patientName = "Unknown"
		}
		displayID := analysis.PatientIDDisplay
		if displayID == "" {
			displayID = "Unknown"
		}

		doctor := "Dr. Assigned"
		department := "Unknown Department"
		picture := ""
		if patient, ok := byID[analysis.PatientID]; ok {
			if patient.DoctorName != "" {
				doctor = patient.DoctorName
			}
			if patient.Department != "" {
				department = patient.Department
			}
			picture = patient.ProfilePicture
		}

		cases = append(cases, Case{
			ID:                id,
			PatientName:       patientName,
			PatientID:         displayID,
			Diagnosis:         diagnosis,
			Status:            StatusForConfidence(analysis.Confidence),
			LastUpdate:        lastUpdate,
			TreatmentProgress: clamp(analysis.Confidence+jitter(id), 0, 100),
			NextAppointment:   lastUpdate.Add(appointmentOffset(id)),
			AssignedDoctor:    doctor,
			Department:        department,
			ProfilePicture:    picture,
			Alerts:            AlertsFor(analysis.Confidence, diagnosis),
			Notes:             "",
		})
	}
	return cases
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
