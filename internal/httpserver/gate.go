package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/auth"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/policy"
	"github.com/Skotchmaster/little_lemon/internal/role"
	"github.com/Skotchmaster/little_lemon/internal/service"
)

const ContextRole = "role"

// Gate checks the policy for one operation on every request. The caller's
// role is resolved afresh each time from current group membership.
type Gate struct {
	Policy policy.Policy
	Roles  *role.Resolver
}

func (g *Gate) Allow(op policy.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("op", string(op))

			userID, ok := auth.UserIDFrom(c)
			if !ok {
				l.Warn("gate_error", "status", http.StatusUnauthorized, "reason", "no authenticated user")
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
			}

			r, err := g.Roles.RoleOf(ctx, userID)
			if err != nil {
				l.Error("gate_error", "status", http.StatusInternalServerError, "reason", "cannot resolve role", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			if !g.Policy.Permits(op, r) {
				l.Warn("gate_denied", "status", http.StatusForbidden, "role", r.String())
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
			}

			c.Set(ContextRole, r)
			return next(c)
		}
	}
}

func viewer(c echo.Context) service.Viewer {
	id, _ := auth.UserIDFrom(c)
	r, ok := c.Get(ContextRole).(role.Role)
	if !ok {
		r = role.Customer
	}
	return service.Viewer{ID: id, Role: r}
}
