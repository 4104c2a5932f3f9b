package handler

import (
	"net/http"
	"time"

	"storefront/internal/infra/db"

	"github.com/labstack/echo/v4"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// /healthz DBにpingが通るか
type HealthHandler struct {
	pinger  db.Pinger
	timeout time.Duration
}

// DI
func NewHealthHandler(pinger db.Pinger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{pinger: pinger, timeout: timeout}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)
}

func (h *HealthHandler) health(c echo.Context) error {
	if err := db.HealthCheck(c.Request().Context(), h.pinger, h.timeout); err != nil {
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
