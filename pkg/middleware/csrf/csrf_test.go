package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := Middleware(DefaultConfig())(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	return rec, h(c)
}

func TestGetIssuesToken(t *testing.T) {
	rec, err := run(t, httptest.NewRequest(http.MethodGet, "http://example.com/menu", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Header().Get("X-CSRF-Token"))
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "XSRF-TOKEN", rec.Result().Cookies()[0].Name)
}

func TestPostRequiresMatchingToken(t *testing.T) {
	newPost := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/place-order", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.Header.Set("Origin", "http://example.com")
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
		return req
	}

	_, err := run(t, newPost(url.Values{"csrf_token": {"tok"}}.Encode()))
	require.NoError(t, err)

	_, err = run(t, newPost(url.Values{"csrf_token": {"other"}}.Encode()))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	req := newPost("")
	req.Header.Set("X-CSRF-Token", "tok")
	_, err = run(t, req)
	require.NoError(t, err)
}

func TestPostFromOtherOriginIsRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/place-order", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("X-CSRF-Token", "tok")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})

	_, err := run(t, req)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, "invalid origin", he.Message)
}
