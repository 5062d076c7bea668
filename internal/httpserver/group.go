package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/transport"
)

// GroupHTTP manages one named group; the route table mounts one per group.
type GroupHTTP struct {
	Svc   *service.GroupService
	Group string
	Label string
}

func (h *GroupHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "groups.list", "group", h.Group)

	users, err := h.Svc.Members(ctx, h.Group)
	if err != nil {
		return fail(l, "list_members_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewUsers(users))
}

func (h *GroupHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "groups.add", "group", h.Group)

	var req transport.GroupMemberRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_member_error", err)
	}

	if _, err := h.Svc.Add(ctx, h.Group, req.Username); err != nil {
		return fail(l, "add_member_error", err)
	}

	l.Info("add_member_success")
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "user added to the " + h.Label + " group"})
}

func (h *GroupHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "groups.remove", "group", h.Group)

	id, err := pathID(c, l, "remove_member_error")
	if err != nil {
		return err
	}

	if err := h.Svc.Remove(ctx, h.Group, id); err != nil {
		return fail(l, "remove_member_error", err)
	}

	l.Info("remove_member_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "user removed from the " + h.Label + " group"})
}
