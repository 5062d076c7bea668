package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/auth"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/transport"
)

type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.NewUser(*user))
}

func (h *AccountHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	c.SetCookie(auth.CreateCookie(res.Token, res.ExpiresAt))
	l.Info("login_success")
	return c.JSON(http.StatusOK, transport.TokenResponse{AuthToken: res.Token, ExpiresAt: res.ExpiresAt})
}

// Logout only drops the cookie; bearer tokens stay valid until they expire.
func (h *AccountHTTP) Logout(c echo.Context) error {
	c.SetCookie(auth.DeleteCookie())
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	userID, ok := auth.UserIDFrom(c)
	if !ok {
		l.Warn("me_error", "status", 401, "reason", "no authenticated user")
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
	}

	user, r, err := h.Svc.Me(ctx, userID)
	if err != nil {
		return fail(l, "me_error", err)
	}

	return c.JSON(http.StatusOK, transport.MeResponse{UserResponse: transport.NewUser(*user), Role: r.String()})
}
