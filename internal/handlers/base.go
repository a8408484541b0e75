package handlers

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

type idResponse struct {
	ID int64 `json:"id"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type attachResponse struct {
	OK          bool  `json:"ok"`
	CelebrityID int64 `json:"celebrity_id"`
}

// pathID parses a positive integer path parameter
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid %s", name)
	}
	return id, nil
}

// queryInt parses an integer query parameter, falling back when absent or
// malformed
func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
