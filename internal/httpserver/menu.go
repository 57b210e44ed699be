package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/internal/util"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type MenuHTTP struct {
	Svc *service.CatalogService
}

func (h *MenuHTTP) Menu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list")

	sections, err := h.Svc.Menu(ctx)
	if err != nil {
		return fail(l, "menu", err, "cannot load menu")
	}

	return c.JSON(http.StatusOK, map[string]any{"sections": sections})
}

func (h *MenuHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	res, err := h.Svc.SearchMenu(ctx, q, offset, limit)
	if err != nil {
		return fail(l, "search", err, "search failed")
	}

	l.Info("search_success", "q", q, "total", res.Total)
	return c.JSON(http.StatusOK, map[string]any{
		"query": q,
		"data":  res.Items,
		"meta":  transport.NewMeta(page, offset, limit, res.Total),
	})
}
