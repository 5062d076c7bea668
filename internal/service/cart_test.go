package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddSnapshotsPrice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.user(t, "carla")
	pizza := e.item(t, "Pizza", "9.00")

	line, err := e.cart.Add(ctx, c.ID, pizza.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "9.00", line.UnitPrice.StringFixed(2))
	assert.Equal(t, "18.00", line.Price.StringFixed(2))

	pizza.Price = dec("12.00")
	require.NoError(t, e.repo.SaveMenuItem(ctx, pizza))

	line, err = e.cart.Add(ctx, c.ID, pizza.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "9.00", line.UnitPrice.StringFixed(2))
	assert.Equal(t, "27.00", line.Price.StringFixed(2))

	lines, err := e.cart.Lines(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "27.00", lines[0].Price.StringFixed(2))
}

func TestCartService_AddValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.user(t, "carla")
	pizza := e.item(t, "Pizza", "9.00")

	for _, q := range []int{0, -1, MaxLineQuantity + 1} {
		_, err := e.cart.Add(ctx, c.ID, pizza.ID, q)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "quantity %d", q)
		assert.Contains(t, ve.Fields, "quantity")
	}

	_, err := e.cart.Add(ctx, c.ID, 0, 1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "menuitem")

	_, err = e.cart.Add(ctx, c.ID, 777, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.cart.Add(ctx, c.ID, pizza.ID, MaxLineQuantity)
	require.NoError(t, err)
	_, err = e.cart.Add(ctx, c.ID, pizza.ID, 1)
	require.ErrorAs(t, err, &ve)

	lines, err := e.cart.Lines(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, MaxLineQuantity, lines[0].Quantity)
}

func TestCartService_ScopedAndClear(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.user(t, "a")
	b := e.user(t, "b")
	pizza := e.item(t, "Pizza", "9.00")
	pasta := e.item(t, "Pasta", "8.50")

	_, err := e.cart.Add(ctx, a.ID, pizza.ID, 1)
	require.NoError(t, err)
	_, err = e.cart.Add(ctx, a.ID, pasta.ID, 2)
	require.NoError(t, err)
	_, err = e.cart.Add(ctx, b.ID, pasta.ID, 1)
	require.NoError(t, err)

	lines, err := e.cart.Lines(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	require.NoError(t, e.cart.Clear(ctx, a.ID))
	require.NoError(t, e.cart.Clear(ctx, a.ID))

	lines, err = e.cart.Lines(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)

	lines, err = e.cart.Lines(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCartService_LineSurvivesMenuDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.user(t, "carla")
	pizza := e.item(t, "Pizza", "9.00")

	_, err := e.cart.Add(ctx, c.ID, pizza.ID, 1)
	require.NoError(t, err)
	require.NoError(t, e.repo.DeleteMenuItem(ctx, pizza.ID))

	lines, err := e.cart.Lines(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "9.00", lines[0].Price.StringFixed(2))
}
