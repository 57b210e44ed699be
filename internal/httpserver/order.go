package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/cart"
	authmw "github.com/Skotchmaster/restaurant/internal/middleware/auth"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "place_order", "invalid body", err)
	}

	var who *models.Principal
	if p, ok := authmw.PrincipalFrom(c); ok {
		who = &p
	}

	res, err := h.Svc.PlaceOrder(ctx, cart.SessionID(c, false), who, service.PlaceOrderInput{
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		Address:             req.Address,
		OrderType:           req.OrderType,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		return fail(l, "place_order", err, "Error placing order. Please try again.")
	}

	l.Info("place_order_success", "order_id", res.Order.ID, "outside_hours", res.OutsideHours)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{
		Response:     transport.Success(res.Message),
		Order:        res.Order,
		OutsideHours: res.OutsideHours,
	})
}

// TrackOrder serves both the tracking form (GET with ?order_id=) and its
// submission. A GET without an id returns an empty lookup.
func (h *OrderHTTP) TrackOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.track")

	var req transport.TrackOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "track_order", "invalid body", err)
	}

	raw := strings.TrimSpace(string(req.OrderID))
	if raw == "" && c.Request().Method == http.MethodGet {
		return c.JSON(http.StatusOK, map[string]any{"order": nil})
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return badRequest(l, "track_order", "Invalid order ID", err)
	}

	order, err := h.Svc.Track(ctx, uint(id))
	if err != nil {
		return fail(l, "track_order", err, "cannot load order")
	}
	return c.JSON(http.StatusOK, map[string]any{"order": order})
}
