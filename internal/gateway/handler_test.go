package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler(t *testing.T, backend http.HandlerFunc) *Handler {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	return NewHandler(client, 100*time.Millisecond, zerolog.Nop())
}

func TestHandler_Analyze_InvalidLabValues(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called for invalid input")
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"alt":"not a number"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Analyze(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Analyze_ForwardsLabValues(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"diagnosis": "NAFLD", "confidence": 62})
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"alt":45}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result["diagnosis"] != "NAFLD" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandler_Chat_TimeoutReturnsMessage(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(`{"message":"what does my ALT mean?"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Chat(e.NewContext(req, rec)); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "what does my ALT mean?" {
		t.Errorf("expected original message echoed back, got %q", body["message"])
	}
}

func TestHandler_Chat_OutlivesBackendClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(400 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"response": "slow but fine"})
	}))
	t.Cleanup(srv.Close)

	// The fixed backend timeout is shorter than both the chat timeout and
	// the backend's answer; only the chat timeout may cut the call off.
	client := NewClient(srv.URL, 100*time.Millisecond, zerolog.Nop())
	h := NewHandler(client, 5*time.Second, zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Chat(e.NewContext(req, rec)); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["response"] != "slow but fine" {
		t.Errorf("unexpected chat response: %s", rec.Body.String())
	}
}

func TestHandler_Chat_EmptyMessage(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(`{"message":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Chat(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_CreatePatient_ForwardsBackendError(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "ID is Currently used"})
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(`{"patient_id":"P-1","name":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.CreatePatient(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest || he.Message != "ID is Currently used" {
		t.Errorf("unexpected error: code=%d message=%v", he.Code, he.Message)
	}
}

func TestHandler_ListPatients_TransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, zerolog.Nop())
	h := NewHandler(client, time.Second, zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()

	err := h.ListPatients(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", err)
	}
	if he.Message != "Failed to fetch patients" {
		t.Errorf("expected static message, got %v", he.Message)
	}
}

func TestHandler_PatientData_Cached(t *testing.T) {
	var calls int32
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "labTests": []any{}})
	})

	e := echo.New()
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/patient-data", nil)
		rec := httptest.NewRecorder()
		if err := h.PatientData(e.NewContext(req, rec)); err != nil {
			t.Fatalf("patient data: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 backend call, got %d", got)
	}
}
