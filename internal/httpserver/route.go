package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/auth"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/policy"
	"github.com/Skotchmaster/little_lemon/internal/role"
	"github.com/Skotchmaster/little_lemon/internal/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Accounts  *service.AccountService
	Groups    *service.GroupService
	Catalog   *service.CatalogService
	Cart      *service.CartService
	Orders    *service.OrderService
	Roles     *role.Resolver
	Policy    policy.Policy
	DB        Pinger
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := d.DB.Ping(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Error("ready_error", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	pol := d.Policy
	if pol == nil {
		pol = policy.Default()
	}
	authMW := auth.NewMiddleware(d.JWTSecret)
	gate := &Gate{Policy: pol, Roles: d.Roles}
	guard := func(op policy.Operation) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{authMW.RequireAuth, gate.Allow(op)}
	}

	accounts := &AccountHTTP{Svc: d.Accounts}
	e.POST("/auth/users", accounts.Register)
	e.POST("/auth/token/login", accounts.Login)
	e.POST("/auth/token/logout", accounts.Logout)
	e.GET("/auth/users/me", accounts.Me, authMW.RequireAuth)

	for prefix, h := range map[string]*GroupHTTP{
		"/groups/manager/users":       {Svc: d.Groups, Group: role.Manager.Group(), Label: "manager"},
		"/groups/delivery-crew/users": {Svc: d.Groups, Group: role.DeliveryCrew.Group(), Label: "delivery crew"},
	} {
		e.GET(prefix+"/", h.List, guard(policy.GroupsList)...)
		e.POST(prefix+"/", h.Add, guard(policy.GroupsAdd)...)
		e.GET(prefix, h.List, guard(policy.GroupsList)...)
		e.POST(prefix, h.Add, guard(policy.GroupsAdd)...)
		e.DELETE(prefix+"/:id", h.Remove, guard(policy.GroupsRemove)...)
	}

	menu := &MenuHTTP{Svc: d.Catalog}
	e.GET("/categories", menu.ListCategories, guard(policy.CategoriesList)...)
	e.POST("/categories", menu.CreateCategory, guard(policy.CategoriesCreate)...)
	e.GET("/menu-items", menu.List, guard(policy.MenuList)...)
	e.POST("/menu-items", menu.Create, guard(policy.MenuCreate)...)
	e.GET("/menu-items/:id", menu.Get, guard(policy.MenuGet)...)
	e.PUT("/menu-items/:id", menu.Replace, guard(policy.MenuUpdate)...)
	e.PATCH("/menu-items/:id", menu.Patch, guard(policy.MenuUpdate)...)
	e.DELETE("/menu-items/:id", menu.Delete, guard(policy.MenuDelete)...)

	cart := &CartHTTP{Svc: d.Cart}
	e.GET("/cart/menu-items", cart.List, guard(policy.CartList)...)
	e.POST("/cart/menu-items", cart.Add, guard(policy.CartAdd)...)
	e.DELETE("/cart/menu-items", cart.Clear, guard(policy.CartClear)...)

	orders := &OrderHTTP{Svc: d.Orders}
	e.GET("/orders", orders.List, guard(policy.OrdersList)...)
	e.POST("/orders", orders.Place, guard(policy.OrdersPlace)...)
	e.GET("/orders/:id", orders.Get, guard(policy.OrdersGet)...)
	e.PUT("/orders/:id", orders.Update, guard(policy.OrdersUpdate)...)
	e.PATCH("/orders/:id", orders.Update, guard(policy.OrdersUpdate)...)
	e.DELETE("/orders/:id", orders.Delete, guard(policy.OrdersDelete)...)
}
