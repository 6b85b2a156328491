package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/livercare/livercare/internal/gateway"
	"github.com/livercare/livercare/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patient-analyses", h.ListAnalyses)
	api.PUT("/patient-analyses/:id", h.UpdateAnalysis)
	api.DELETE("/patient-analyses/:id", h.DeleteAnalysis)
}

func (h *Handler) ListAnalyses(c echo.Context) error {
	analyses, err := h.svc.List(c.Request().Context())
	if err != nil {
		return recordsError(err, "Failed to fetch patient analyses")
	}
	// The backend returns the full set; paging is applied here when the
	// caller asks for it.
	if c.QueryParam("limit") != "" || c.QueryParam("offset") != "" {
		pg := pagination.FromContext(c)
		from, to := pg.Page(len(analyses))
		return c.JSON(http.StatusOK, pagination.NewResponse(analyses[from:to], len(analyses), pg.Limit, pg.Offset))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"analyses": analyses,
	})
}

func (h *Handler) UpdateAnalysis(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid analysis id")
	}
	var body json.RawMessage
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	resp, err := h.svc.Update(c.Request().Context(), id, body)
	if err != nil {
		return recordsError(err, "Failed to update analysis")
	}
	return c.JSONBlob(http.StatusOK, resp)
}

func (h *Handler) DeleteAnalysis(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid analysis id")
	}
	result, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return recordsError(err, "Failed to delete analysis and patient")
	}
	status := http.StatusOK
	message := "Analysis, patient, and active case deleted successfully. Related appointments cancelled."
	if !result.Complete() {
		status = http.StatusMultiStatus
		message = "Analysis deleted but some cleanup steps failed"
	}
	return c.JSON(status, map[string]any{
		"success": result.Complete(),
		"message": message,
		"cleanup": result,
	})
}

func recordsError(err error, fallback string) error {
	var be *gateway.BackendError
	switch {
	case errors.Is(err, ErrAnalysisNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	case errors.Is(err, ErrInvalidPayload):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &be):
		msg := be.Detail
		if msg == "" {
			msg = fallback
		}
		return echo.NewHTTPError(be.StatusCode, msg)
	default:
		return echo.NewHTTPError(http.StatusBadGateway, fallback)
	}
}
