package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/Skotchmaster/restaurant/internal/middleware/auth"
)

type Deps struct {
	DB *gorm.DB

	Menu         *MenuHTTP
	Cart         *CartHTTP
	Orders       *OrderHTTP
	Reservations *ReservationHTTP
	Auth         *AuthHTTP
	Admin        *AdminHTTP
	Products     *ProductHTTP

	AuthMW *authmw.Middleware

	// UploadDir, when set, is served under UploadURL.
	UploadDir string
	UploadURL string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	if d.UploadDir != "" && d.UploadURL != "" {
		e.Static(d.UploadURL, d.UploadDir)
	}

	site := e.Group("", d.AuthMW.Resolve)

	site.GET("/menu", d.Menu.Menu)
	site.GET("/menu/search", d.Menu.Search)

	site.GET("/cart", d.Cart.GetCart)
	site.POST("/add-to-cart", d.Cart.AddToCart)
	site.POST("/update-cart", d.Cart.UpdateCart)
	site.POST("/remove-from-cart", d.Cart.RemoveFromCart)
	site.GET("/checkout", d.Cart.Checkout)
	site.POST("/place-order", d.Orders.PlaceOrder)

	site.GET("/order-tracking", d.Orders.TrackOrder)
	site.POST("/order-tracking", d.Orders.TrackOrder)

	site.GET("/reservations", d.Reservations.Hours)
	site.POST("/reservations", d.Reservations.Book)

	site.POST("/register", d.Auth.Register)
	site.POST("/login", d.Auth.Login)
	site.GET("/logout", d.Auth.Logout)

	profile := site.Group("/profile", d.AuthMW.RequireCustomer)
	profile.GET("", d.Auth.Profile)
	profile.GET("/orders", d.Auth.ProfileOrders)

	site.POST("/admin/login", d.Auth.AdminLogin)
	site.GET("/admin/logout", d.Auth.AdminLogout)

	admin := site.Group("/admin", d.AuthMW.RequireAdmin)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/menu", d.Admin.Menu)
	admin.GET("/orders", d.Admin.Orders)
	admin.GET("/reservations", d.Admin.Reservations)
	admin.POST("/orders/update-status", d.Admin.UpdateOrderStatus)
	admin.POST("/orders/advance", d.Admin.AdvanceOrder)
	admin.POST("/reservations/update-status", d.Admin.UpdateReservationStatus)
	admin.GET("/api/new-orders-count", d.Admin.NewOrdersCount)
	admin.GET("/notifications", d.Admin.Notifications)
	admin.POST("/notifications/:id/read", d.Admin.MarkNotificationRead)

	admin.POST("/products", d.Products.CreateProduct)
	admin.POST("/products/update", d.Products.UpdateProduct)
	admin.POST("/products/delete", d.Products.DeleteProduct)
	admin.POST("/products/toggle-availability", d.Products.ToggleAvailability)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
