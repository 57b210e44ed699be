package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	trequire "github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/service"
	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
)

type fakeAuth struct {
	access    map[string]models.Principal
	expired   map[string]bool
	refreshed map[string]*service.Session
	calls     int
}

func (f *fakeAuth) Principal(token string) (models.Principal, error) {
	if f.expired[token] {
		return models.Principal{}, fmt.Errorf("token has invalid claims: %w", jwt.ErrTokenExpired)
	}
	if p, ok := f.access[token]; ok {
		return p, nil
	}
	return models.Principal{}, jwt.ErrSignatureInvalid
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (*service.Session, error) {
	f.calls++
	if s, ok := f.refreshed[token]; ok {
		return s, nil
	}
	return nil, errors.New("revoked")
}

var ana = models.Principal{Kind: models.PrincipalCustomer, ID: 7, Name: "Ana"}

func serve(t *testing.T, m *Middleware, path string, h echo.HandlerFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	trequire.NoError(t, m.Resolve(h)(c))
	return rec
}

func TestLoginPath(t *testing.T) {
	assert.Equal(t, AdminLoginPath, LoginPath("/admin"))
	assert.Equal(t, AdminLoginPath, LoginPath("/admin/orders"))
	assert.Equal(t, CustomerLoginPath, LoginPath("/administrator"))
	assert.Equal(t, CustomerLoginPath, LoginPath("/profile"))
}

func TestResolve_ValidAccessToken(t *testing.T) {
	m := New(&fakeAuth{access: map[string]models.Principal{"good": ana}})

	var got models.Principal
	serve(t, m, "/menu", func(c echo.Context) error {
		got, _ = PrincipalFrom(c)
		assert.Equal(t, "customer", c.Get(KindKey))
		return nil
	}, &http.Cookie{Name: jwthelp.AccessCookie, Value: "good"})

	assert.Equal(t, ana, got)
}

func TestResolve_ExpiredAccessIsRefreshed(t *testing.T) {
	sess := &service.Session{
		Principal:    ana,
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		AccessExp:    time.Now().Add(time.Minute),
		RefreshExp:   time.Now().Add(time.Hour),
	}
	fa := &fakeAuth{
		expired:   map[string]bool{"old": true},
		refreshed: map[string]*service.Session{"r1": sess},
	}

	var ok bool
	rec := serve(t, New(fa), "/profile", func(c echo.Context) error {
		_, ok = PrincipalFrom(c)
		return nil
	},
		&http.Cookie{Name: jwthelp.AccessCookie, Value: "old"},
		&http.Cookie{Name: jwthelp.RefreshCookie, Value: "r1"},
	)

	assert.True(t, ok)
	assert.Equal(t, 1, fa.calls)
	set := map[string]string{}
	for _, ck := range rec.Result().Cookies() {
		set[ck.Name] = ck.Value
	}
	assert.Equal(t, "new-access", set[jwthelp.AccessCookie])
	assert.Equal(t, "new-refresh", set[jwthelp.RefreshCookie])
}

func TestResolve_TamperedTokenClearsSession(t *testing.T) {
	fa := &fakeAuth{}

	var ok bool
	rec := serve(t, New(fa), "/menu", func(c echo.Context) error {
		_, ok = PrincipalFrom(c)
		return nil
	},
		&http.Cookie{Name: jwthelp.AccessCookie, Value: "forged"},
		&http.Cookie{Name: jwthelp.RefreshCookie, Value: "r1"},
	)

	assert.False(t, ok)
	assert.Zero(t, fa.calls, "a forged access token is not an invitation to refresh")
	for _, ck := range rec.Result().Cookies() {
		assert.Equal(t, -1, ck.MaxAge, ck.Name)
	}
}

func TestResolve_AnonymousPassesThrough(t *testing.T) {
	called := false
	rec := serve(t, New(&fakeAuth{}), "/menu", func(c echo.Context) error {
		called = true
		return nil
	})
	assert.True(t, called)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRequireKinds(t *testing.T) {
	admin := models.Principal{Kind: models.PrincipalAdmin, ID: 1, Name: "root"}
	m := New(&fakeAuth{access: map[string]models.Principal{"cust": ana, "adm": admin}})
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	rec := serve(t, m, "/admin/dashboard", m.RequireAdmin(ok), &http.Cookie{Name: jwthelp.AccessCookie, Value: "cust"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, AdminLoginPath, rec.Header().Get(echo.HeaderLocation))

	rec = serve(t, m, "/admin/dashboard", m.RequireAdmin(ok), &http.Cookie{Name: jwthelp.AccessCookie, Value: "adm"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, m, "/profile", m.RequireCustomer(ok), &http.Cookie{Name: jwthelp.AccessCookie, Value: "adm"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, CustomerLoginPath, rec.Header().Get(echo.HeaderLocation))

	rec = serve(t, m, "/profile", m.RequireCustomer(ok))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
