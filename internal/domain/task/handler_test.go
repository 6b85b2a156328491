package task

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTaskError_Mapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", ErrTaskNotFound, http.StatusNotFound, "task not found"},
		{"invalid input", fmt.Errorf("%w: title is required", ErrInvalidInput),
			http.StatusBadRequest, "invalid input: title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he, ok := taskError(tt.err).(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError for %v", tt.err)
			}
			if he.Code != tt.code || he.Message != tt.message {
				t.Errorf("got code=%d message=%v, want code=%d message=%q", he.Code, he.Message, tt.code, tt.message)
			}
		})
	}
}

func TestTaskError_HidesStorageDetail(t *testing.T) {
	he, ok := taskError(errors.New("open livercare.db: permission denied")).(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 HTTPError, got %v", he)
	}
	msg, _ := he.Message.(string)
	if msg != "internal error" || strings.Contains(msg, "livercare.db") {
		t.Errorf("storage detail must not reach the response body, got %q", msg)
	}
}
