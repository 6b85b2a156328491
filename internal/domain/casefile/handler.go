package casefile

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/livercare/livercare/internal/gateway"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/cases", h.ListCases)
	api.POST("/cases/refresh", h.RefreshCases)
	api.PUT("/cases/:id/progress", h.UpdateProgress)
	api.DELETE("/cases/:id", h.DeleteCase)
}

func (h *Handler) ListCases(c echo.Context) error {
	cases, err := h.svc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return caseError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cases": cases})
}

func (h *Handler) RefreshCases(c echo.Context) error {
	cases, err := h.svc.Refresh(c.Request().Context())
	if err != nil {
		return caseError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cases": cases})
}

func (h *Handler) UpdateProgress(c echo.Context) error {
	var upd ProgressUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	updated, err := h.svc.UpdateProgress(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return caseError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteCase(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return caseError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// caseError maps service failures onto responses. Validation errors carry
// their message; anything unrecognized gets a generic body with the detail
// kept on the error chain for the request log.
func caseError(err error) error {
	var be *gateway.BackendError
	var ue *url.Error
	switch {
	case errors.Is(err, ErrCaseNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	case errors.Is(err, ErrCaseFinished):
		return echo.NewHTTPError(http.StatusConflict, ErrCaseFinished.Error())
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &be):
		msg := be.Detail
		if msg == "" {
			msg = "backend request failed"
		}
		return echo.NewHTTPError(be.StatusCode, msg)
	case errors.As(err, &ue):
		return echo.NewHTTPError(http.StatusBadGateway, "backend unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
