package handlers

import (
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/seeder"
	"github.com/Ramsey-B/dahlia/pkg/utils"
	"github.com/labstack/echo/v4"
)

// SeedHandler exposes the synthetic-data seeder for load testing and demos
type SeedHandler struct {
	seeder *seeder.Seeder
	logger ectologger.Logger
}

func NewSeedHandler(s *seeder.Seeder, logger ectologger.Logger) *SeedHandler {
	return &SeedHandler{
		seeder: s,
		logger: logger,
	}
}

func (h *SeedHandler) Register(g *echo.Group) {
	g.POST("/seed", h.Seed)
}

func (h *SeedHandler) Seed(c echo.Context) error {
	req, err := utils.BindRequest[seeder.SeedRequest](c)
	if err != nil {
		return err
	}

	result, err := h.seeder.Seed(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
