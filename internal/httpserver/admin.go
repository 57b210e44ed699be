package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/restaurant/internal/middleware/auth"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/internal/util"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type AdminHTTP struct {
	Svc     *service.AdminService
	Catalog *service.CatalogService
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	d, err := h.Svc.Dashboard(ctx)
	if err != nil {
		return fail(l, "dashboard", err, "cannot load dashboard")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHTTP) NewOrdersCount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.new_orders_count")

	counts, err := h.Svc.NewOrdersCount(ctx)
	if err != nil {
		return fail(l, "new_orders_count", err, "cannot count orders")
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *AdminHTTP) Menu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.menu")

	items, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		return fail(l, "admin_menu", err, "cannot load products")
	}
	return c.JSON(http.StatusOK, map[string]any{"products": items})
}

func (h *AdminHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	res, err := h.Svc.ListOrders(ctx, c.QueryParam("status"), strings.TrimSpace(c.QueryParam("q")), offset, limit)
	if err != nil {
		return fail(l, "admin_orders", err, "cannot load orders")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Orders,
		"meta": transport.NewMeta(page, offset, limit, res.Total),
	})
}

func (h *AdminHTTP) Reservations(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.reservations")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	res, err := h.Svc.ListReservations(ctx, c.QueryParam("status"), offset, limit)
	if err != nil {
		return fail(l, "admin_reservations", err, "cannot load reservations")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Reservations,
		"meta": transport.NewMeta(page, offset, limit, res.Total),
	})
}

func (h *AdminHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	var req transport.OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_order_status", "invalid body", err)
	}

	admin, _ := authmw.PrincipalFrom(c)
	order, change, err := h.Svc.SetOrderStatus(ctx, admin, req.OrderID, strings.TrimSpace(req.Status))
	if err != nil {
		return fail(l, "update_order_status", err, "Error updating order status.")
	}

	return c.JSON(http.StatusOK, transport.StatusChangeResponse{
		Response: transport.Success("Order #" + order.IDString() + " status updated to " + string(change.To)),
		From:     string(change.From),
		To:       string(change.To),
		Override: change.Override,
	})
}

func (h *AdminHTTP) AdvanceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.advance_order")

	var req transport.OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "advance_order", "invalid body", err)
	}

	admin, _ := authmw.PrincipalFrom(c)
	order, change, err := h.Svc.AdvanceOrder(ctx, admin, req.OrderID)
	if err != nil {
		return fail(l, "advance_order", err, "Error updating order status.")
	}

	return c.JSON(http.StatusOK, transport.StatusChangeResponse{
		Response: transport.Success("Order #" + order.IDString() + " status updated to " + string(change.To)),
		From:     string(change.From),
		To:       string(change.To),
		Override: change.Override,
	})
}

func (h *AdminHTTP) UpdateReservationStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_reservation_status")

	var req transport.ReservationStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_reservation_status", "invalid body", err)
	}

	admin, _ := authmw.PrincipalFrom(c)
	res, change, err := h.Svc.SetReservationStatus(ctx, admin, req.ReservationID, strings.TrimSpace(req.Status), formPtr(c, "admin_notes"))
	if err != nil {
		return fail(l, "update_reservation_status", err, "Error updating reservation status.")
	}

	return c.JSON(http.StatusOK, transport.StatusChangeResponse{
		Response: transport.Success("Reservation #" + strconv.FormatUint(uint64(res.ID), 10) + " " + string(change.To)),
		From:     string(change.From),
		To:       string(change.To),
		Override: change.Override,
	})
}

func (h *AdminHTTP) Notifications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.notifications")

	items, err := h.Svc.Notifications(ctx)
	if err != nil {
		return fail(l, "notifications", err, "cannot load notifications")
	}
	return c.JSON(http.StatusOK, map[string]any{"notifications": items})
}

func (h *AdminHTTP) MarkNotificationRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.mark_notification_read")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(l, "mark_notification_read", "id is not a number", err)
	}
	if err := h.Svc.MarkNotificationRead(ctx, uint(id)); err != nil {
		return fail(l, "mark_notification_read", err, "cannot update notification")
	}
	return c.JSON(http.StatusOK, transport.Success("Notification marked as read"))
}
