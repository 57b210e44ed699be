package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/restaurant/internal/middleware/auth"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Orders *service.OrderService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register", "invalid body", err)
	}

	cust, err := h.Svc.Register(ctx, service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		return fail(l, "register", err, "cannot register")
	}

	l.Info("register_success", "customer_id", cust.ID)
	return c.JSON(http.StatusCreated, transport.Success("Registration successful! Please log in."))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login", "invalid body", err)
	}

	sess, err := h.Svc.LoginCustomer(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login", err, "cannot log in")
	}

	authmw.SetSessionCookies(c, sess)
	l.Info("login_success", "customer_id", sess.Principal.ID)
	return c.JSON(http.StatusOK, transport.SessionResponse{
		Response:  transport.Success("Welcome back, " + sess.Principal.Name + "!"),
		Principal: sess.Principal,
	})
}

func (h *AuthHTTP) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.admin_login")

	var req transport.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "admin_login", "invalid body", err)
	}

	sess, err := h.Svc.LoginAdmin(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "admin_login", err, "cannot log in")
	}

	authmw.SetSessionCookies(c, sess)
	l.Info("admin_login_success", "admin_id", sess.Principal.ID)
	return c.JSON(http.StatusOK, transport.SessionResponse{
		Response:  transport.Success("Logged in"),
		Principal: sess.Principal,
	})
}

// Logout revokes the refresh token and clears the session cookies, then
// sends the browser to the customer menu.
func (h *AuthHTTP) Logout(c echo.Context) error {
	h.logout(c)
	return c.Redirect(http.StatusSeeOther, "/menu")
}

func (h *AuthHTTP) AdminLogout(c echo.Context) error {
	h.logout(c)
	return c.Redirect(http.StatusSeeOther, authmw.AdminLoginPath)
}

func (h *AuthHTTP) logout(c echo.Context) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil && ck.Value != "" {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Warn("logout_error", "reason", "cannot revoke refresh token", "error", err)
		}
	}
	authmw.ClearSessionCookies(c)
	l.Info("logout_success")
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	p, _ := authmw.PrincipalFrom(c)
	prof, err := h.Svc.Profile(ctx, p.ID)
	if err != nil {
		return fail(l, "profile", err, "cannot load profile")
	}
	return c.JSON(http.StatusOK, prof)
}

func (h *AuthHTTP) ProfileOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile_orders")

	p, _ := authmw.PrincipalFrom(c)
	orders, err := h.Orders.CustomerOrders(ctx, p.ID)
	if err != nil {
		return fail(l, "profile_orders", err, "cannot load orders")
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}
