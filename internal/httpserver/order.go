package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/transport"
	"github.com/Skotchmaster/little_lemon/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	offset, limit := util.Window(c.QueryParam("page"), c.QueryParam("perpage"))

	orders, err := h.Svc.List(ctx, viewer(c), offset, limit)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewOrders(orders))
}

func (h *OrderHTTP) Place(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	order, err := h.Svc.Place(ctx, viewer(c))
	if err != nil {
		return fail(l, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.NewOrder(*order))
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := pathID(c, l, "get_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.Get(ctx, viewer(c), id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewOrder(*order))
}

// Update serves both PUT and PATCH; either accepts any subset of
// delivery_crew and status.
func (h *OrderHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	id, err := pathID(c, l, "update_order_error")
	if err != nil {
		return err
	}

	var req transport.OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_order_error", err)
	}

	order, err := h.Svc.Update(ctx, viewer(c), id, service.OrderPatch{
		CrewSet: req.DeliveryCrew.Set,
		Crew:    req.DeliveryCrew.ID,
		Status:  req.Status,
	})
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	l.Info("update_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, transport.NewOrder(*order))
}

func (h *OrderHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := pathID(c, l, "delete_order_error")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, viewer(c), id); err != nil {
		return fail(l, "delete_order_error", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
