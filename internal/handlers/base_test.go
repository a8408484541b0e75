package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestPathID(t *testing.T) {
	c := newTestContext(t, "/")
	c.SetParamNames("id")
	c.SetParamValues("42")

	id, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	tests := []string{"", "abc", "0", "-5", "1.5"}
	for _, raw := range tests {
		c.SetParamValues(raw)
		_, err := pathID(c, "id")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	}
}

func TestQueryInt(t *testing.T) {
	c := newTestContext(t, "/?page=3&junk=abc")

	assert.Equal(t, 3, queryInt(c, "page", 1))
	assert.Equal(t, 1, queryInt(c, "missing", 1))
	assert.Equal(t, 7, queryInt(c, "junk", 7))
}
