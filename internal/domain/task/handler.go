package task

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
	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks", h.CreateTask)
	api.PUT("/tasks/:id", h.UpdateTask)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.POST("/tasks/:id/toggle", h.ToggleTask)
}

func (h *Handler) ListTasks(c echo.Context) error {
	pendingOnly := c.QueryParam("pending") == "true"
	tasks, err := h.svc.List(c.Request().Context(), pendingOnly)
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *Handler) CreateTask(c echo.Context) error {
	var t Task
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if err := h.svc.Add(c.Request().Context(), &t); err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var upd Task
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	updated, err := h.svc.Update(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) ToggleTask(c echo.Context) error {
	toggled, err := h.svc.ToggleCompletion(c.Request().Context(), c.Param("id"))
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, toggled)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return taskError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// taskError keeps validation messages user-visible and hides everything
// else behind a generic body; the detail stays on the error chain for the
// request log.
func taskError(err error) error {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
