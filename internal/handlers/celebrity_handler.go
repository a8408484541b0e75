package handlers

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/repositories"
	"github.com/Ramsey-B/dahlia/pkg/utils"
	"github.com/labstack/echo/v4"
)

// CelebrityHandler serves the celebrity routes
type CelebrityHandler struct {
	celebrities *repositories.CelebrityRepository
	logger      ectologger.Logger
}

func NewCelebrityHandler(celebrities *repositories.CelebrityRepository, logger ectologger.Logger) *CelebrityHandler {
	return &CelebrityHandler{
		celebrities: celebrities,
		logger:      logger,
	}
}

func (h *CelebrityHandler) Register(g *echo.Group) {
	g.GET("/celebrities", h.List)
	g.GET("/celebrities/options", h.Options)
	g.GET("/celebrities/:id", h.Get)
	g.PATCH("/celebrities/:id", h.Update)
}

func (h *CelebrityHandler) List(c echo.Context) error {
	params := repositories.ListCelebritiesParams{
		Page:      queryInt(c, "page", 1),
		PerPage:   queryInt(c, "per_page", repositories.DefaultPerPage),
		Search:    c.QueryParam("q"),
		Industry:  c.QueryParam("industry"),
		SortBy:    c.QueryParam("sort"),
		SortOrder: c.QueryParam("order"),
	}

	if params.SortBy != "" && !repositories.IsCelebritySortKey(params.SortBy) {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid sort key %q", params.SortBy)
	}

	if raw := c.QueryParam("celebrity_id"); raw != "" {
		id := int64(queryInt(c, "celebrity_id", 0))
		if id < 1 {
			return httperror.NewHTTPError(http.StatusBadRequest, "invalid celebrity_id")
		}
		params.CelebrityID = &id
	}

	result, err := h.celebrities.List(c.Request().Context(), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CelebrityHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	celebrity, err := h.celebrities.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if celebrity == nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "celebrity %d not found", id)
	}

	return c.JSON(http.StatusOK, celebrity)
}

func (h *CelebrityHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[models.UpdateCelebrityRequest](c)
	if err != nil {
		return err
	}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "full_name cannot be empty")
	}

	ok, err := h.celebrities.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	if !ok {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "celebrity %d not found", id)
	}

	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *CelebrityHandler) Options(c echo.Context) error {
	limit := queryInt(c, "limit", repositories.DefaultOptionsLimit)

	options, err := h.celebrities.Options(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, options)
}
