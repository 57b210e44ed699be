package cart

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const SessionCookie = "cart_session"

// SessionID returns the caller's cart session id. When create is set and the
// request carries none, a new id is issued in a cookie.
func SessionID(c echo.Context, create bool) string {
	for _, ck := range c.Cookies() {
		if ck.Name != SessionCookie {
			continue
		}
		if _, err := uuid.Parse(ck.Value); err == nil {
			return ck.Value
		}
	}
	if !create {
		return ""
	}
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(DefaultTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// later reads in the same request see the new id
	c.Request().AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	return sid
}
