package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/db/dbtest"
	"github.com/Skotchmaster/little_lemon/internal/models"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: dbtest.New(t)}
}

func seedMenu(t *testing.T, r *GormRepo) (mains, desserts *models.Category) {
	t.Helper()
	ctx := context.Background()

	mains = &models.Category{Slug: "mains", Title: "Mains"}
	desserts = &models.Category{Slug: "desserts", Title: "Desserts"}
	require.NoError(t, r.CreateCategory(ctx, mains))
	require.NoError(t, r.CreateCategory(ctx, desserts))

	for _, it := range []models.MenuItem{
		{Title: "Pizza", Price: decimal.RequireFromString("9.00"), CategoryID: mains.ID},
		{Title: "Pasta", Price: decimal.RequireFromString("12.50"), CategoryID: mains.ID},
		{Title: "Tiramisu", Price: decimal.RequireFromString("6.25"), CategoryID: desserts.ID, Featured: true},
		{Title: "100%_Lemon", Price: decimal.RequireFromString("3.00"), CategoryID: desserts.ID},
	} {
		require.NoError(t, r.CreateMenuItem(ctx, &it))
	}
	return mains, desserts
}

func titles(items []models.MenuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestListMenuItems_Filters(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	seedMenu(t, r)

	items, err := r.ListMenuItems(ctx, MenuFilter{Category: "mains"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza", "Pasta"}, titles(items))

	items, err = r.ListMenuItems(ctx, MenuFilter{Category: "Desserts"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	ceiling := decimal.RequireFromString("9")
	items, err = r.ListMenuItems(ctx, MenuFilter{MaxPrice: &ceiling})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza", "Tiramisu", "100%_Lemon"}, titles(items))

	items, err = r.ListMenuItems(ctx, MenuFilter{TitlePrefix: "pa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasta"}, titles(items))

	items, err = r.ListMenuItems(ctx, MenuFilter{TitlePrefix: "100%_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100%_Lemon"}, titles(items))

	items, err = r.ListMenuItems(ctx, MenuFilter{TitlePrefix: "%"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListMenuItems_IDsSortAndPage(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	seedMenu(t, r)

	items, err := r.ListMenuItems(ctx, MenuFilter{IDs: []uint{}})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	items, err = r.ListMenuItems(ctx, MenuFilter{IDs: []uint{1, 3}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza", "Tiramisu"}, titles(items))

	items, err = r.ListMenuItems(ctx, MenuFilter{Sort: []SortKey{{Column: "price", Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasta", "Pizza", "Tiramisu", "100%_Lemon"}, titles(items))

	items, err = r.ListMenuItems(ctx, MenuFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasta", "Tiramisu"}, titles(items))
}

func TestSaveAndDeleteMenuItem_Missing(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	err := r.SaveMenuItem(ctx, &models.MenuItem{ID: 99, Title: "Ghost", Price: decimal.NewFromInt(1), CategoryID: 1})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, r.DeleteMenuItem(ctx, 99), gorm.ErrRecordNotFound)
}

func TestMergeCartLine_KeepsFrozenPrice(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	seedMenu(t, r)

	pizza, err := r.GetMenuItem(ctx, 1)
	require.NoError(t, err)

	line, err := r.MergeCartLine(ctx, 7, pizza, 2, 10)
	require.NoError(t, err)
	assert.True(t, line.Price.Equal(decimal.RequireFromString("18")))

	pizza.Price = decimal.RequireFromString("11")
	require.NoError(t, r.SaveMenuItem(ctx, pizza))

	line, err = r.MergeCartLine(ctx, 7, pizza, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("9")))
	assert.True(t, line.Price.Equal(decimal.RequireFromString("45")))

	_, err = r.MergeCartLine(ctx, 7, pizza, 6, 10)
	assert.ErrorIs(t, err, ErrQuantityLimit)

	lines, err := r.CartLines(ctx, 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

// raceFirstAdd makes the next first-time add of menuItemID lose the insert
// to a concurrent add that already stored quantity units at unitPrice.
func raceFirstAdd(t *testing.T, r *GormRepo, userID, menuItemID uint, quantity int, unitPrice string) {
	t.Helper()
	armed := true

	require.NoError(t, r.DB.Callback().Query().After("gorm:query").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if !armed || tx.Statement.Table != "cart_lines" || !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return
		}
		price := decimal.RequireFromString(unitPrice)
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO cart_lines (user_id, menu_item_id, quantity, unit_price, price) VALUES (?, ?, ?, ?, ?)",
			userID, menuItemID, quantity, price, price.Mul(decimal.NewFromInt(int64(quantity))))
		require.NoError(t, err)
	}))
	require.NoError(t, r.DB.Callback().Create().Before("gorm:create").Register("test:duplicate_key", func(tx *gorm.DB) {
		if armed && tx.Statement.Table == "cart_lines" {
			armed = false
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	}))
}

func TestMergeCartLine_ConcurrentFirstAdd(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	seedMenu(t, r)

	pizza, err := r.GetMenuItem(ctx, 1)
	require.NoError(t, err)

	raceFirstAdd(t, r, 7, pizza.ID, 1, "8.00")

	line, err := r.MergeCartLine(ctx, 7, pizza, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("8")), line.UnitPrice.String())
	assert.True(t, line.Price.Equal(decimal.RequireFromString("24")), line.Price.String())

	lines, err := r.CartLines(ctx, 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestPlaceOrder(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	seedMenu(t, r)

	u := &models.User{Username: "ana", PasswordHash: "-"}
	require.NoError(t, r.CreateUser(ctx, u))

	_, err := r.PlaceOrder(ctx, u.ID, time.Now())
	assert.ErrorIs(t, err, ErrEmptyCart)

	for _, id := range []uint{1, 3} {
		item, err := r.GetMenuItem(ctx, id)
		require.NoError(t, err)
		_, err = r.MergeCartLine(ctx, u.ID, item, 2, 10)
		require.NoError(t, err)
	}

	order, err := r.PlaceOrder(ctx, u.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("30.5")), order.Total.String())
	assert.Len(t, order.Lines, 2)
	assert.Equal(t, "ana", order.User.Username)

	lines, err := r.CartLines(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = r.GetOrder(ctx, order.ID, OrderScope{CustomerID: u.ID + 1})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = r.GetOrder(ctx, order.ID, OrderScope{CrewID: 5})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, r.UpdateOrder(ctx, order.ID, map[string]any{"delivery_crew_id": uint(5)}))
	got, err := r.GetOrder(ctx, order.ID, OrderScope{CrewID: 5})
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryCrewID)
	assert.Equal(t, uint(5), *got.DeliveryCrewID)

	require.NoError(t, r.DeleteOrder(ctx, order.ID))
	assert.ErrorIs(t, r.DeleteOrder(ctx, order.ID), gorm.ErrRecordNotFound)

	var n int64
	require.NoError(t, r.DB.Model(&models.OrderLine{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMemberships(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "crew", PasswordHash: "-"}
	require.NoError(t, r.CreateUser(ctx, u))

	require.NoError(t, r.AddMember(ctx, u.ID, models.GroupDeliveryCrew))
	require.NoError(t, r.AddMember(ctx, u.ID, models.GroupDeliveryCrew))

	groups, err := r.GroupsOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.GroupDeliveryCrew}, groups)

	users, err := r.UsersInGroup(ctx, models.GroupDeliveryCrew)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "crew", users[0].Username)

	require.NoError(t, r.RemoveMember(ctx, u.ID, models.GroupDeliveryCrew))
	groups, err = r.GroupsOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
