package casefile

import (
	"reflect"
	"testing"
	"time"
)

func TestMerge_OverlaysSavedEdits(t *testing.T) {
	derivedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	editedAt := time.Date(2026, 8, 2, 15, 30, 0, 0, time.UTC)

	fresh := []Case{{
		ID:                "case-7",
		PatientName:       "Ahmed Al-Rashid",
		PatientID:         "P-2024-001",
		Diagnosis:         "NAFLD (Non-Alcoholic Fatty Liver Disease)",
		Status:            StatusPendingReview,
		LastUpdate:        derivedAt,
		TreatmentProgress: 60,
		AssignedDoctor:    "Dr. Sarah Johnson",
		Department:        "Hepatology",
		Alerts:            []string{alertLowConfidence},
	}}
	saved := []Case{{
		ID:                "case-7",
		PatientName:       "stale name",
		Status:            StatusActive,
		LastUpdate:        editedAt,
		TreatmentProgress: 75,
		AssignedDoctor:    "Dr. Ahmed Hassan",
		Alerts:            []string{},
		Notes:             "responding well to treatment",
	}}

	merged := Merge(fresh, saved)
	if len(merged) != 1 {
		t.Fatalf("expected 1 case, got %d", len(merged))
	}
	got := merged[0]

	// Edited fields come from the saved copy.
	if got.Status != StatusActive || got.TreatmentProgress != 75 ||
		got.AssignedDoctor != "Dr. Ahmed Hassan" || got.Notes != "responding well to treatment" ||
		!got.LastUpdate.Equal(editedAt) || len(got.Alerts) != 0 {
		t.Errorf("saved edits not applied: %+v", got)
	}
	// Identity fields come from the fresh derive.
	if got.PatientName != "Ahmed Al-Rashid" || got.Department != "Hepatology" {
		t.Errorf("fresh fields overwritten: %+v", got)
	}
}

func TestMerge_EmptyNotesIsAClear(t *testing.T) {
	fresh := []Case{{ID: "case-1", Notes: "derived placeholder"}}
	saved := []Case{{ID: "case-1", Notes: ""}}
	if got := Merge(fresh, saved)[0].Notes; got != "" {
		t.Errorf("expected cleared notes to stay cleared, got %q", got)
	}
}

func TestMerge_DropsOrphanedSavedCases(t *testing.T) {
	fresh := []Case{{ID: "case-1"}, {ID: "case-3"}}
	saved := []Case{{ID: "case-2", Notes: "gone"}, {ID: "case-3", Notes: "kept"}}

	merged := Merge(fresh, saved)
	if len(merged) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(merged))
	}
	if merged[0].ID != "case-1" || merged[1].ID != "case-3" {
		t.Errorf("fresh order not preserved: %+v", merged)
	}
	if merged[1].Notes != "kept" {
		t.Errorf("saved counterpart not merged: %+v", merged[1])
	}
}

func TestMerge_Idempotent(t *testing.T) {
	fresh := []Case{{ID: "case-1", Status: StatusActive, TreatmentProgress: 40}}
	saved := []Case{{ID: "case-1", Status: StatusCritical, TreatmentProgress: 20, Notes: "watch closely"}}

	once := Merge(fresh, saved)
	twice := Merge(once, once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMerge_NoSavedState(t *testing.T) {
	fresh := []Case{{ID: "case-1"}}
	if got := Merge(fresh, nil); !reflect.DeepEqual(got, fresh) {
		t.Errorf("expected fresh passthrough, got %+v", got)
	}
}
