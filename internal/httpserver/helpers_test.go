package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/little_lemon/internal/auth"
	"github.com/Skotchmaster/little_lemon/internal/db/dbtest"
	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	loggingmw "github.com/Skotchmaster/little_lemon/internal/middleware/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/policy"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/role"
	"github.com/Skotchmaster/little_lemon/internal/service"
)

var testSecret = []byte("http-test-secret")

type app struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	tokens *auth.Issuer
}

func newApp(t *testing.T) *app {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.New(t)}
	roles := &role.Resolver{Groups: r}
	tokens := &auth.Issuer{Secret: testSecret, TTL: time.Hour}
	pub := events.Nop{}

	e := echo.New()
	e.Use(loggingmw.RequestLogger(logging.Discard()))
	Register(e, &Deps{
		Accounts:  &service.AccountService{Repo: r, Tokens: tokens, Roles: roles},
		Groups:    &service.GroupService{Repo: r},
		Catalog:   &service.CatalogService{Repo: r, Events: pub},
		Cart:      &service.CartService{Repo: r},
		Orders:    &service.OrderService{Repo: r, Roles: roles, Events: pub},
		Roles:     roles,
		Policy:    policy.Default(),
		DB:        r,
		JWTSecret: testSecret,
	})

	return &app{e: e, repo: r, tokens: tokens}
}

// user creates an account directly in the store and returns a bearer token for it.
func (a *app) user(t *testing.T, name string, groups ...string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()

	u := &models.User{Username: name, Email: name + "@littlelemon.test", PasswordHash: "-"}
	require.NoError(t, a.repo.CreateUser(ctx, u))
	for _, g := range groups {
		require.NoError(t, a.repo.AddMember(ctx, u.ID, g))
	}

	tok, _, err := a.tokens.Issue(u.ID, u.Username)
	require.NoError(t, err)
	return u, tok
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, rec.Code, "%s", rec.Body.String())
}
