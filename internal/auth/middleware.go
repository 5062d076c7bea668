package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/logging"
)

const (
	ContextToken    = "token"
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

type Middleware struct {
	jwt echo.MiddlewareFunc
}

func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{
		jwt: echojwt.WithConfig(echojwt.Config{
			SigningKey:    secret,
			SigningMethod: "HS256",
			ContextKey:    ContextToken,
			TokenLookup:   "header:Authorization:Bearer ,cookie:" + TokenCookie,
			NewClaimsFunc: func(echo.Context) jwt.Claims { return new(Claims) },
			ErrorHandler: func(c echo.Context, err error) error {
				logging.FromContext(c.Request().Context()).Warn("auth_error", "status", 401, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided or are invalid")
			},
		}),
	}
}

// RequireAuth validates the token and exposes the caller id under ContextUserID.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.jwt(func(c echo.Context) error {
		tkn, ok := c.Get(ContextToken).(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, ok := tkn.Claims.(*Claims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		userID, err := claims.UserID()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, claims.Username)

		req := c.Request()
		l := logging.FromContext(req.Context()).With("user_id", userID)
		c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

		return next(c)
	})
}

func UserIDFrom(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok && id != 0
}
