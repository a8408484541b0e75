package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/labstack/echo/v4"
)

const readyTimeout = 5 * time.Second

type statusResponse struct {
	Status string `json:"status"`
}

// Handler serves the liveness and readiness probes
type Handler struct {
	db database.DB
}

func NewHandler(db database.DB) *Handler {
	return &Handler{db: db}
}

// Live reports that the process is up
func (h *Handler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// Ready reports whether the database is reachable
func (h *Handler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
	}

	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}
