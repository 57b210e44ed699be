package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

// ProductHTTP serves the admin menu editor. Create and update accept
// multipart forms with an optional "image" file.
type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	up, closeUp, err := upload(c)
	if err != nil {
		return badRequest(l, "product_create", "invalid image upload", err)
	}
	defer closeUp()

	in := service.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Category:    c.FormValue("category"),
		Subcategory: c.FormValue("subcategory"),
		Variant:     c.FormValue("variant"),
		ImageURL:    c.FormValue("image_url"),
		Available:   formBool(c, "available"),
	}

	prod, err := h.Svc.CreateProduct(ctx, in, up)
	if err != nil {
		return fail(l, "product_create", err, "Error adding product.")
	}

	l.Info("product_create_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := strconv.ParseUint(c.FormValue("product_id"), 10, 64)
	if err != nil {
		return badRequest(l, "product_update", "Invalid product ID", err)
	}

	up, closeUp, err := upload(c)
	if err != nil {
		return badRequest(l, "product_update", "invalid image upload", err)
	}
	defer closeUp()

	patch := service.ProductPatch{
		Name:        formPtr(c, "name"),
		Description: formPtr(c, "description"),
		Price:       formPtr(c, "price"),
		Category:    formPtr(c, "category"),
		Subcategory: formPtr(c, "subcategory"),
		Variant:     formPtr(c, "variant"),
		ImageURL:    formPtr(c, "image_url"),
		Available:   formBool(c, "available"),
	}

	prod, err := h.Svc.UpdateProduct(ctx, uint(id), patch, up)
	if err != nil {
		return fail(l, "product_update", err, "Error updating product.")
	}

	l.Info("product_update_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	var req transport.ProductIDRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_delete", "invalid body", err)
	}
	if req.ProductID == 0 {
		return badRequest(l, "product_delete", "Invalid product ID", nil)
	}

	if err := h.Svc.DeleteProduct(ctx, req.ProductID); err != nil {
		return fail(l, "product_delete", err, "Error deleting product.")
	}

	l.Info("product_delete_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, transport.Success("Product deleted successfully!"))
}

func (h *ProductHTTP) ToggleAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.toggle_availability")

	var req transport.ProductIDRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "toggle_availability", "invalid body", err)
	}
	if req.ProductID == 0 {
		return badRequest(l, "toggle_availability", "Invalid product ID", nil)
	}

	prod, err := h.Svc.ToggleAvailability(ctx, req.ProductID)
	if err != nil {
		return fail(l, "toggle_availability", err, "Error updating product.")
	}
	return c.JSON(http.StatusOK, transport.ToggleResponse{Success: true, Available: prod.Available})
}

// upload opens the optional "image" file of a multipart form. The returned
// func closes it and is always safe to call.
func upload(c echo.Context) (*service.Upload, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	if fh.Filename == "" {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &service.Upload{Filename: fh.Filename, Size: fh.Size, Body: f}, func() { _ = f.Close() }, nil
}

// formPtr returns the submitted value of key, or nil when the form does not
// carry it at all.
func formPtr(c echo.Context, key string) *string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	vals, ok := params[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

// formBool reads a checkbox-style flag: "on" and anything strconv accepts
// as true count as set.
func formBool(c echo.Context, key string) *bool {
	raw := formPtr(c, key)
	if raw == nil {
		return nil
	}
	b := *raw == "on"
	if !b {
		b, _ = strconv.ParseBool(*raw)
	}
	return &b
}
