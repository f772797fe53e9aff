package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := tokens.SignAccessToken("3", "carol", role, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)
	return tok
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuth(t *testing.T) {
	auth := NewBearerAuth(secret)

	_, err := run(t, auth.RequireAuth, "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = run(t, auth.RequireAuth, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = run(t, auth.RequireAuth, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	c, err := run(t, auth.RequireAuth, "Bearer "+token(t, tokens.RoleCustomer))
	require.NoError(t, err)
	assert.Equal(t, "3", c.Get(CtxUserID))
	assert.Equal(t, "carol", c.Get(CtxUsername))
	assert.Equal(t, tokens.RoleCustomer, c.Get(CtxRole))
}

func TestRequireAdmin(t *testing.T) {
	auth := NewBearerAuth(secret)

	_, err := run(t, auth.RequireAdmin, "Bearer "+token(t, tokens.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = run(t, auth.RequireAdmin, "bearer "+token(t, tokens.RoleAdmin))
	require.NoError(t, err)
}

func TestRequireAuth_TagsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	auth := NewBearerAuth(secret)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logging.IntoContext(req.Context(), logging.NewWithWriter(&buf, "info")))
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, tokens.RoleAdmin))
	c := e.NewContext(req, httptest.NewRecorder())

	err := auth.RequireAuth(func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("handled")
		return nil
	})(c)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "3", line["user_id"])
	assert.Equal(t, tokens.RoleAdmin, line["role"])
}
