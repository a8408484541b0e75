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

// StylistHandler serves the stylist routes, including celebrity links and
// rep contacts.
type StylistHandler struct {
	stylists *repositories.StylistRepository
	reps     *repositories.RepRepository
	logger   ectologger.Logger
}

func NewStylistHandler(stylists *repositories.StylistRepository, reps *repositories.RepRepository, logger ectologger.Logger) *StylistHandler {
	return &StylistHandler{
		stylists: stylists,
		reps:     reps,
		logger:   logger,
	}
}

func (h *StylistHandler) Register(g *echo.Group) {
	g.GET("/stylists", h.List)
	g.POST("/stylists", h.Create)
	g.GET("/stylists/:id", h.Get)
	g.PATCH("/stylists/:id", h.Update)
	g.POST("/stylists/:id/celebrities", h.AttachCelebrity)
	g.DELETE("/stylists/:id/celebrities/:celebrity_id", h.DetachCelebrity)
	g.POST("/stylists/:id/reps", h.AddRep)
	g.DELETE("/reps/:id", h.DeleteRep)
}

func (h *StylistHandler) List(c echo.Context) error {
	params := repositories.ListStylistsParams{
		Page:            queryInt(c, "page", 1),
		PerPage:         queryInt(c, "per_page", repositories.DefaultPerPage),
		Search:          c.QueryParam("q"),
		CelebrityFilter: c.QueryParam("celebrity"),
		SortBy:          c.QueryParam("sort"),
		SortOrder:       c.QueryParam("order"),
	}

	if params.SortBy != "" && !repositories.IsStylistSortKey(params.SortBy) {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid sort key %q", params.SortBy)
	}

	if raw := c.QueryParam("stylist_id"); raw != "" {
		id := int64(queryInt(c, "stylist_id", 0))
		if id < 1 {
			return httperror.NewHTTPError(http.StatusBadRequest, "invalid stylist_id")
		}
		params.StylistID = &id
	}

	result, err := h.stylists.List(c.Request().Context(), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *StylistHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	stylist, err := h.stylists.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if stylist == nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "stylist %d not found", id)
	}

	return c.JSON(http.StatusOK, stylist)
}

func (h *StylistHandler) Create(c echo.Context) error {
	req, err := utils.BindRequest[models.CreateStylistRequest](c)
	if err != nil {
		return err
	}

	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "full_name is required")
	}

	id, err := h.stylists.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *StylistHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[models.UpdateStylistRequest](c)
	if err != nil {
		return err
	}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "full_name cannot be empty")
	}

	ok, err := h.stylists.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	if !ok {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "stylist %d not found", id)
	}

	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *StylistHandler) AttachCelebrity(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	exists, err := h.stylists.Exists(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "stylist %d not found", id)
	}

	req, err := utils.BindRequest[models.AttachCelebrityRequest](c)
	if err != nil {
		return err
	}

	celebrityID, err := h.stylists.AttachCelebrity(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, attachResponse{OK: true, CelebrityID: celebrityID})
}

func (h *StylistHandler) DetachCelebrity(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	celebrityID, err := pathID(c, "celebrity_id")
	if err != nil {
		return err
	}

	ok, err := h.stylists.DetachCelebrity(c.Request().Context(), id, celebrityID)
	if err != nil {
		return err
	}
	if !ok {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "stylist %d is not linked to celebrity %d", id, celebrityID)
	}

	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *StylistHandler) AddRep(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	exists, err := h.stylists.Exists(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "stylist %d not found", id)
	}

	req, err := utils.BindRequest[models.CreateRepRequest](c)
	if err != nil {
		return err
	}

	repID, err := h.reps.Add(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, idResponse{ID: repID})
}

func (h *StylistHandler) DeleteRep(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ok, err := h.reps.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "rep %d not found", id)
	}

	return c.JSON(http.StatusOK, okResponse{OK: true})
}
