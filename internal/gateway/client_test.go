package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestClient_ListAnalyses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/patient-analyses" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"analyses": []map[string]any{
				{"id": 7, "patient_id": 3, "diagnosis": "NAFLD", "confidence": 62.5,
					"patient_name": "Ahmed Al-Rashid", "patient_id_display": "P-2024-001"},
			},
		})
	})

	analyses, err := c.ListAnalyses(context.Background())
	if err != nil {
		t.Fatalf("list analyses: %v", err)
	}
	if len(analyses) != 1 {
		t.Fatalf("expected 1 analysis, got %d", len(analyses))
	}
	a := analyses[0]
	if a.ID != 7 || a.Diagnosis != "NAFLD" || a.Confidence != 62.5 || a.PatientIDDisplay != "P-2024-001" {
		t.Errorf("unexpected analysis: %+v", a)
	}
}

func TestClient_ListPatients(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"patients": []map[string]any{
				{"id": 3, "name": "Ahmed Al-Rashid", "patient_id": "P-2024-001",
					"department": "Hepatology", "doctor_name": "Dr. Sarah Johnson"},
			},
		})
	})

	patients, err := c.ListPatients(context.Background())
	if err != nil {
		t.Fatalf("list patients: %v", err)
	}
	if len(patients) != 1 || patients[0].DoctorName != "Dr. Sarah Johnson" {
		t.Errorf("unexpected patients: %+v", patients)
	}
}

func TestClient_BackendErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "ID is Currently used"})
	})

	_, err := c.CreatePatient(context.Background(), json.RawMessage(`{"patient_id":"P-1"}`))
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.StatusCode != http.StatusBadRequest || be.Detail != "ID is Currently used" {
		t.Errorf("unexpected backend error: %+v", be)
	}
}

func TestClient_AnalyzeLabValues(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		raw := r.FormValue("lab_values")
		var values map[string]float64
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			t.Fatalf("lab_values is not JSON: %v", err)
		}
		if values["alt"] != 45 {
			t.Errorf("expected alt=45, got %v", values["alt"])
		}
		json.NewEncoder(w).Encode(map[string]any{"diagnosis": "NAFLD", "confidence": 62})
	})

	data, err := c.AnalyzeLabValues(context.Background(), json.RawMessage(`{"alt":45,"ast":38}`))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result["diagnosis"] != "NAFLD" {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestClient_ChatContextTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"response": "late"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Chat(ctx, "hello")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
