package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/restaurant/pkg/middleware/auth"
)

type Deps struct {
	Menu         *MenuHTTP
	Tables       *TableHTTP
	Reservations *ReservationHTTP
	Orders       *OrderHTTP
	Auth         *AuthHTTP
	JWTSecret    []byte
	// Ready reports whether dependencies such as the database are reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewBearerAuth(d.JWTSecret)
	api := e.Group("/api/v1")

	api.POST("/register", d.Auth.Register)
	api.POST("/login", d.Auth.Login)

	menu := api.Group("/menu-items")
	menu.GET("", d.Menu.List)
	menu.GET("/search", d.Menu.Search)
	menu.GET("/:id", d.Menu.Get)
	menu.POST("/:id/update-stock", d.Menu.UpdateStock)
	menuAdmin := menu.Group("", authMW.RequireAdmin)
	menuAdmin.POST("", d.Menu.Create)
	menuAdmin.PATCH("/:id", d.Menu.Patch)
	menuAdmin.DELETE("/:id", d.Menu.Delete)

	tables := api.Group("/tables")
	tables.GET("", d.Tables.List)
	tables.GET("/:id", d.Tables.Get)
	tables.POST("/:id/set-availability", d.Tables.SetAvailability)
	tablesAdmin := tables.Group("", authMW.RequireAdmin)
	tablesAdmin.POST("", d.Tables.Create)
	tablesAdmin.PATCH("/:id", d.Tables.Patch)
	tablesAdmin.DELETE("/:id", d.Tables.Delete)

	reservations := api.Group("/reservations", authMW.RequireAuth)
	reservations.GET("", d.Reservations.List)
	reservations.POST("", d.Reservations.Create)
	reservations.GET("/:id", d.Reservations.Get)
	reservations.PATCH("/:id", d.Reservations.Patch)
	reservations.DELETE("/:id", d.Reservations.Delete)

	orders := api.Group("/orders", authMW.RequireAuth)
	orders.GET("", d.Orders.List)
	orders.POST("", d.Orders.Create)
	orders.GET("/:id", d.Orders.Get)
	orders.PATCH("/:id", d.Orders.Patch)
	orders.DELETE("/:id", d.Orders.Delete)
	orders.POST("/:id/add-item", d.Orders.AddItem)
	orders.POST("/:id/remove-item", d.Orders.RemoveItem)
	orders.POST("/:id/update-status", d.Orders.UpdateStatus)

	orderItems := api.Group("/order-items", authMW.RequireAuth)
	orderItems.GET("", d.Orders.ListItems)
	orderItems.GET("/:id", d.Orders.GetItem)
}
