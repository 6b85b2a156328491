package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const patientDataCacheKey = "patient-data"

type Handler struct {
	client      *Client
	cache       *gocache.Cache
	chatTimeout time.Duration
	logger      zerolog.Logger
}

func NewHandler(client *Client, chatTimeout time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{
		client:      client,
		cache:       gocache.New(30*time.Second, time.Minute),
		chatTimeout: chatTimeout,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/analyze", h.Analyze)
	api.POST("/chatbot", h.Chat)
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.PUT("/patients/:patient_id", h.UpdatePatient)
	api.DELETE("/patients/:patient_id", h.DeletePatient)
	api.GET("/patient-data", h.PatientData)
}

// proxyError maps a client failure onto the response contract: backend
// errors keep their status and message, transport errors answer 502 with a
// static message and nothing from the underlying error.
func (h *Handler) proxyError(err error, fallback string) error {
	var be *BackendError
	if errors.As(err, &be) {
		msg := be.Detail
		if msg == "" {
			msg = fallback
		}
		return echo.NewHTTPError(be.StatusCode, msg)
	}
	h.logger.Error().Err(err).Msg("backend proxy failure")
	return echo.NewHTTPError(http.StatusBadGateway, fallback)
}

func (h *Handler) Analyze(c echo.Context) error {
	ctx := c.Request().Context()
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	var (
		data json.RawMessage
		err  error
	)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		data, err = h.client.AnalyzeMultipart(ctx, contentType, c.Request().Body)
	} else {
		var labValues json.RawMessage
		if err := c.Bind(&labValues); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
		}
		if err := validateLabValues(labValues); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		data, err = h.client.AnalyzeLabValues(ctx, labValues)
	}
	if err != nil {
		return h.proxyError(err, "Failed to analyze data")
	}
	return c.JSONBlob(http.StatusOK, data)
}

// validateLabValues rejects payloads the backend could never analyze before
// any network call: the body must be a JSON object and every value must be
// numeric (a number, or a string that parses as one).
func validateLabValues(raw json.RawMessage) error {
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return errors.New("lab values must be a JSON object")
	}
	if len(values) == 0 {
		return errors.New("no lab values provided")
	}
	for name, v := range values {
		switch val := v.(type) {
		case float64:
		case string:
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				return errors.New("lab value " + name + " is not numeric")
			}
		default:
			return errors.New("lab value " + name + " is not numeric")
		}
	}
	return nil
}

func (h *Handler) Chat(c echo.Context) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.chatTimeout)
	defer cancel()

	data, err := h.client.Chat(ctx, req.Message)
	if err != nil {
		// On timeout the caller gets its message back so the typed input
		// is not lost.
		if isTimeout(err) {
			return c.JSON(http.StatusGatewayTimeout, map[string]string{
				"error":   "Chat request timed out",
				"message": req.Message,
			})
		}
		return h.proxyError(err, "Failed to get chatbot response")
	}
	return c.JSONBlob(http.StatusOK, data)
}

// isTimeout reports whether the call ran out of time, whether the context
// deadline fired or a lower layer flagged the failure as a timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.client.ListPatients(c.Request().Context())
	if err != nil {
		return h.proxyError(err, "Failed to fetch patients")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"patients": patients,
	})
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var body json.RawMessage
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	data, err := h.client.CreatePatient(c.Request().Context(), body)
	if err != nil {
		return h.proxyError(err, "Failed to process patient data")
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var body json.RawMessage
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	data, err := h.client.UpdatePatient(c.Request().Context(), c.Param("patient_id"), body)
	if err != nil {
		return h.proxyError(err, "Failed to update patient")
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	data, err := h.client.DeletePatient(c.Request().Context(), c.Param("patient_id"))
	if err != nil {
		return h.proxyError(err, "Failed to delete patient")
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (h *Handler) PatientData(c echo.Context) error {
	if cached, ok := h.cache.Get(patientDataCacheKey); ok {
		return c.JSONBlob(http.StatusOK, cached.(json.RawMessage))
	}
	data, err := h.client.PatientData(c.Request().Context())
	if err != nil {
		return h.proxyError(err, "Failed to fetch patient data")
	}
	h.cache.Set(patientDataCacheKey, data, gocache.DefaultExpiration)
	return c.JSONBlob(http.StatusOK, data)
}
