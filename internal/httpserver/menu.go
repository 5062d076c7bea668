package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/transport"
	"github.com/Skotchmaster/little_lemon/internal/util"
)

type MenuHTTP struct {
	Svc *service.CatalogService
}

func (h *MenuHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list_categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *MenuHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_category_error", err)
	}

	cat, err := h.Svc.CreateCategory(ctx, req.Title, req.Slug)
	if err != nil {
		return fail(l, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *MenuHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list")

	offset, limit := util.Window(c.QueryParam("page"), c.QueryParam("perpage"))

	items, err := h.Svc.ListMenu(ctx, service.MenuQuery{
		Category: c.QueryParam("category"),
		ToPrice:  c.QueryParam("to_price"),
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return fail(l, "list_menu_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewMenuItems(items))
}

func (h *MenuHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get")

	id, err := pathID(c, l, "get_menu_item_error")
	if err != nil {
		return err
	}

	item, err := h.Svc.GetMenuItem(ctx, id)
	if err != nil {
		return fail(l, "get_menu_item_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewMenuItem(*item))
}

func (h *MenuHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create")

	var req transport.MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_menu_item_error", err)
	}

	item, err := h.Svc.CreateMenuItem(ctx, menuInput(req))
	if err != nil {
		return fail(l, "create_menu_item_error", err)
	}

	l.Info("create_menu_item_success", "menuitem", item.ID)
	return c.JSON(http.StatusCreated, transport.NewMenuItem(*item))
}

func (h *MenuHTTP) Replace(c echo.Context) error {
	return h.update(c, "menu.replace", h.Svc.ReplaceMenuItem)
}

func (h *MenuHTTP) Patch(c echo.Context) error {
	return h.update(c, "menu.patch", h.Svc.PatchMenuItem)
}

func (h *MenuHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete")

	id, err := pathID(c, l, "delete_menu_item_error")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteMenuItem(ctx, id); err != nil {
		return fail(l, "delete_menu_item_error", err)
	}

	l.Info("delete_menu_item_success", "menuitem", id)
	return c.NoContent(http.StatusNoContent)
}

type menuUpdateFunc func(ctx context.Context, id uint, in service.MenuItemInput) (*models.MenuItem, error)

func (h *MenuHTTP) update(c echo.Context, name string, apply menuUpdateFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	id, err := pathID(c, l, "update_menu_item_error")
	if err != nil {
		return err
	}

	var req transport.MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_menu_item_error", err)
	}

	item, err := apply(ctx, id, menuInput(req))
	if err != nil {
		return fail(l, "update_menu_item_error", err)
	}

	l.Info("update_menu_item_success", "menuitem", item.ID)
	return c.JSON(http.StatusOK, transport.NewMenuItem(*item))
}

func menuInput(req transport.MenuItemRequest) service.MenuItemInput {
	return service.MenuItemInput{
		Title:    req.Title,
		Price:    req.Price,
		Featured: req.Featured,
		Category: req.Category,
	}
}
