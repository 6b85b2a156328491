package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/session/analysis", h.Get)
	api.PUT("/session/analysis", h.Put)
	api.DELETE("/session/analysis", h.Delete)
}

func (h *Handler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]json.RawMessage{
		"result": h.store.Result(),
		"input":  h.store.Input(),
	})
}

func (h *Handler) Put(c echo.Context) error {
	var req struct {
		Result json.RawMessage `json:"result"`
		Input  json.RawMessage `json:"input"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if req.Result == nil && req.Input == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "result or input is required")
	}
	if req.Result != nil {
		if err := validateResult(req.Result); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.store.SetResult(req.Result)
	}
	if req.Input != nil {
		h.store.SetInput(req.Input)
	}
	return c.JSON(http.StatusOK, map[string]json.RawMessage{
		"result": h.store.Result(),
		"input":  h.store.Input(),
	})
}

func (h *Handler) Delete(c echo.Context) error {
	h.store.ResetAll()
	return c.NoContent(http.StatusNoContent)
}

func validateResult(raw json.RawMessage) error {
	var result struct {
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return errors.New("result must be a JSON object")
	}
	if result.Confidence != nil && (*result.Confidence < 0 || *result.Confidence > 100) {
		return errors.New("confidence must be between 0 and 100")
	}
	return nil
}
