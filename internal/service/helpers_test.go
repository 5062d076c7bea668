package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/little_lemon/internal/auth"
	"github.com/Skotchmaster/little_lemon/internal/db/dbtest"
	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/role"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ev events.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

func eventOf(typ string) any {
	return mock.MatchedBy(func(ev events.Event) bool { return ev.Type == typ })
}

type env struct {
	repo     *repo.GormRepo
	pub      *mockPublisher
	accounts *AccountService
	groups   *GroupService
	catalog  *CatalogService
	cart     *CartService
	orders   *OrderService
	category *models.Category
}

func newEnv(t *testing.T) *env {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.New(t)}
	pub := &mockPublisher{}
	roles := &role.Resolver{Groups: r}

	cat := &models.Category{Slug: "mains", Title: "Mains"}
	require.NoError(t, r.CreateCategory(context.Background(), cat))

	return &env{
		repo: r,
		pub:  pub,
		accounts: &AccountService{
			Repo:   r,
			Tokens: &auth.Issuer{Secret: []byte("test-secret"), TTL: time.Hour},
			Roles:  roles,
		},
		groups:   &GroupService{Repo: r},
		catalog:  &CatalogService{Repo: r, Events: pub},
		cart:     &CartService{Repo: r},
		orders:   &OrderService{Repo: r, Roles: roles, Events: pub},
		category: cat,
	}
}

func (e *env) user(t *testing.T, name string, groups ...string) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Username: name, Email: name + "@littlelemon.test", PasswordHash: "-"}
	require.NoError(t, e.repo.CreateUser(ctx, u))
	for _, g := range groups {
		require.NoError(t, e.repo.AddMember(ctx, u.ID, g))
	}
	return u
}

func (e *env) item(t *testing.T, title, price string) *models.MenuItem {
	t.Helper()
	it := &models.MenuItem{Title: title, Price: decimal.RequireFromString(price), CategoryID: e.category.ID}
	require.NoError(t, e.repo.CreateMenuItem(context.Background(), it))
	return it
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
