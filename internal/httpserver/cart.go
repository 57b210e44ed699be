package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/cart"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	view, err := h.Svc.View(ctx, cart.SessionID(c, false))
	if err != nil {
		return fail(l, "get_cart", err, "cannot load cart")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart", "invalid body", err)
	}

	sid := cart.SessionID(c, true)
	p, qty, err := h.Svc.Add(ctx, sid, req.ProductID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart", err, "cannot add to cart")
	}

	l.Info("add_to_cart_success", "product_id", p.ID, "quantity", qty)
	return c.JSON(http.StatusOK, transport.CartAddResponse{
		Response:  transport.Success(p.Name + " added to cart!"),
		ProductID: p.ID,
		Quantity:  qty,
	})
}

func (h *CartHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_cart", "invalid body", err)
	}

	sid := cart.SessionID(c, false)
	if sid != "" {
		if err := h.Svc.Update(ctx, sid, req.ProductID, req.Quantity); err != nil {
			return fail(l, "update_cart", err, "cannot update cart")
		}
	}

	view, err := h.Svc.View(ctx, sid)
	if err != nil {
		return fail(l, "update_cart", err, "cannot load cart")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "remove_from_cart", "invalid body", err)
	}

	sid := cart.SessionID(c, false)
	if sid != "" {
		if err := h.Svc.Remove(ctx, sid, req.ProductID); err != nil {
			return fail(l, "remove_from_cart", err, "cannot update cart")
		}
	}

	view, err := h.Svc.View(ctx, sid)
	if err != nil {
		return fail(l, "remove_from_cart", err, "cannot load cart")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	view, err := h.Svc.Checkout(ctx, cart.SessionID(c, false))
	if err != nil {
		return fail(l, "checkout", err, "cannot load cart")
	}
	return c.JSON(http.StatusOK, view)
}
