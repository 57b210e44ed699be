package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/service"
	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const (
	principalKey = "principal"
	// KindKey is read by the request logger.
	KindKey = "principal_kind"

	AdminLoginPath    = "/admin/login"
	CustomerLoginPath = "/login"
)

type Authenticator interface {
	Principal(accessToken string) (models.Principal, error)
	Refresh(ctx context.Context, refreshToken string) (*service.Session, error)
}

type Middleware struct {
	Auth Authenticator
}

func New(a Authenticator) *Middleware {
	return &Middleware{Auth: a}
}

// Resolve attaches the caller's principal to the context when the request
// carries valid session cookies. An expired access token is renewed from the
// refresh token. Anonymous requests pass through untouched.
func (m *Middleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if p, ok := m.resolve(c); ok {
			setPrincipal(c, p)
		}
		return next(c)
	}
}

func (m *Middleware) resolve(c echo.Context) (models.Principal, bool) {
	l := logging.FromContext(c.Request().Context())

	access := cookieValue(c, jwthelp.AccessCookie)
	if access != "" {
		p, err := m.Auth.Principal(access)
		if err == nil {
			return p, true
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			l.Warn("auth_error", "reason", "invalid access token", "error", err)
			ClearSessionCookies(c)
			return models.Principal{}, false
		}
	}

	refresh := cookieValue(c, jwthelp.RefreshCookie)
	if refresh == "" {
		return models.Principal{}, false
	}
	sess, err := m.Auth.Refresh(c.Request().Context(), refresh)
	if err != nil {
		l.Warn("auth_error", "reason", "refresh failed", "error", err)
		ClearSessionCookies(c)
		return models.Principal{}, false
	}
	SetSessionCookies(c, sess)
	return sess.Principal, true
}

// RequireAdmin lets only admin principals through; everyone else is sent to
// the admin login page.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return require(next, models.PrincipalAdmin)
}

func (m *Middleware) RequireCustomer(next echo.HandlerFunc) echo.HandlerFunc {
	return require(next, models.PrincipalCustomer)
}

func require(next echo.HandlerFunc, kind models.PrincipalKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok || p.Kind != kind {
			logging.FromContext(c.Request().Context()).Info("auth_redirect",
				"need", kind, "have", p.Kind, "path", c.Request().URL.Path)
			return c.Redirect(http.StatusSeeOther, LoginPath(c.Request().URL.Path))
		}
		return next(c)
	}
}

// LoginPath picks the login page that matches the area a path belongs to.
func LoginPath(path string) string {
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return AdminLoginPath
	}
	return CustomerLoginPath
}

func PrincipalFrom(c echo.Context) (models.Principal, bool) {
	p, ok := c.Get(principalKey).(models.Principal)
	return p, ok
}

func setPrincipal(c echo.Context, p models.Principal) {
	c.Set(principalKey, p)
	c.Set(KindKey, string(p.Kind))
}

func SetSessionCookies(c echo.Context, s *service.Session) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, s.AccessToken, "/", s.AccessExp))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, s.RefreshToken, "/", s.RefreshExp))
}

func ClearSessionCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
