package appointment

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.PUT("/appointments/:id", h.RescheduleAppointment)
	api.POST("/appointments/:id/cancel", h.CancelAppointment)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	var (
		appointments []Appointment
		err          error
	)
	if c.QueryParam("upcoming") == "true" {
		appointments, err = h.svc.Upcoming(c.Request().Context())
	} else {
		appointments, err = h.svc.List(c.Request().Context())
	}
	if err != nil {
		return appointmentError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"appointments": appointments})
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if err := h.svc.Add(c.Request().Context(), &a); err != nil {
		return appointmentError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) RescheduleAppointment(c echo.Context) error {
	var r Reschedule
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	moved, err := h.svc.Reschedule(c.Request().Context(), c.Param("id"), r)
	if err != nil {
		return appointmentError(err)
	}
	return c.JSON(http.StatusOK, moved)
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	cancelled, err := h.svc.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return appointmentError(err)
	}
	return c.JSON(http.StatusOK, cancelled)
}

// appointmentError keeps validation and conflict messages user-visible and
// hides everything else behind a generic body; the detail stays on the
// error chain for the request log.
func appointmentError(err error) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, ErrDuplicate.Error())
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
