// Package gateway proxies dashboard requests to the backend service that
// owns all diagnosis, chat, and patient storage logic. The client reshapes
// requests where the backend expects a different encoding and normalizes
// upstream failures into BackendError values.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the backend over plain HTTP/JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	chatClient *http.Client
	logger     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		// Chat answers routinely take longer than the fixed backend
		// timeout, so chat calls carry no client timeout and are bounded
		// by the caller's context instead.
		chatClient: &http.Client{},
		logger:     logger.With().Str("component", "gateway").Logger(),
	}
}

// do performs one backend request and returns the raw response body.
// Non-2xx responses become a *BackendError carrying the upstream status and
// its detail/error message when the body had one.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	return c.send(ctx, c.httpClient, method, path, contentType, body)
}

func (c *Client) send(ctx context.Context, hc *http.Client, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return nil, fmt.Errorf("backend request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &BackendError{StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}
	return data, nil
}

// errorDetail extracts the backend's structured error message. FastAPI uses
// "detail"; some routes answer with "error".
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}

// AnalyzeMultipart streams an already-multipart request body (image or file
// upload) straight through to the backend.
func (c *Client) AnalyzeMultipart(ctx context.Context, contentType string, body io.Reader) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/analyze", contentType, body)
}

// AnalyzeLabValues re-encodes a JSON lab-value payload as the multipart form
// the backend expects, with the JSON under field "lab_values".
func (c *Client) AnalyzeLabValues(ctx context.Context, labValues json.RawMessage) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("lab_values", string(labValues)); err != nil {
		return nil, fmt.Errorf("encode lab values: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode lab values: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/analyze", w.FormDataContentType(), &buf)
}

// Chat forwards a chat message. The caller bounds the wait through ctx;
// the fixed backend timeout does not apply here.
func (c *Client) Chat(ctx context.Context, message string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, err
	}
	return c.send(ctx, c.chatClient, http.MethodPost, "/chatbot", "application/json", bytes.NewReader(payload))
}

func (c *Client) ListPatients(ctx context.Context) ([]Patient, error) {
	data, err := c.do(ctx, http.MethodGet, "/patients", "application/json", nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Patients []Patient `json:"patients"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return envelope.Patients, nil
}

func (c *Client) CreatePatient(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/patients", "application/json", bytes.NewReader(body))
}

func (c *Client) UpdatePatient(ctx context.Context, patientID string, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/patients/"+url.PathEscape(patientID), "application/json", bytes.NewReader(body))
}

func (c *Client) DeletePatient(ctx context.Context, patientID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/patients/"+url.PathEscape(patientID), "application/json", nil)
}

func (c *Client) ListAnalyses(ctx context.Context) ([]PatientAnalysis, error) {
	data, err := c.do(ctx, http.MethodGet, "/patient-analyses", "application/json", nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Analyses []PatientAnalysis `json:"analyses"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode analyses: %w", err)
	}
	return envelope.Analyses, nil
}

func (c *Client) UpdateAnalysis(ctx context.Context, id string, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/patient-analyses/"+url.PathEscape(id), "application/json", bytes.NewReader(body))
}

func (c *Client) DeleteAnalysis(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/patient-analyses/"+url.PathEscape(id), "application/json", nil)
}

func (c *Client) PatientData(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/patient-data", "application/json", nil)
}
