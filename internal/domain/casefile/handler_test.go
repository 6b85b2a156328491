package casefile

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/livercare/livercare/internal/gateway"
)

func TestCaseError_Mapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", ErrCaseNotFound, http.StatusNotFound, "case not found"},
		{"finished", ErrCaseFinished, http.StatusConflict, ErrCaseFinished.Error()},
		{"invalid input", fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput),
			http.StatusBadRequest, "invalid input: progress must be between 0 and 100"},
		{"backend detail", &gateway.BackendError{StatusCode: http.StatusInternalServerError, Detail: "Database error"},
			http.StatusInternalServerError, "Database error"},
		{"transport", &url.Error{Op: "Get", URL: "http://localhost:8000/patient-analyses", Err: errors.New("connection refused")},
			http.StatusBadGateway, "backend unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he, ok := caseError(tt.err).(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError for %v", tt.err)
			}
			if he.Code != tt.code || he.Message != tt.message {
				t.Errorf("got code=%d message=%v, want code=%d message=%q", he.Code, he.Message, tt.code, tt.message)
			}
		})
	}
}

func TestCaseError_HidesStorageDetail(t *testing.T) {
	he, ok := caseError(errors.New("open livercare.db: permission denied")).(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 HTTPError, got %v", he)
	}
	msg, _ := he.Message.(string)
	if msg != "internal error" || strings.Contains(msg, "livercare.db") {
		t.Errorf("storage detail must not reach the response body, got %q", msg)
	}
}
