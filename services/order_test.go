package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/models"
	"shop-api/services"
)

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.Checkout(context.Background(), "u1")
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCheckoutSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	keyboard := env.mustCreateProduct(t, "Keyboard", 4500, 10)
	mouse := env.mustCreateProduct(t, "Mouse", 1500, 5)

	_, err := env.cart.AddItem(ctx, "u1", keyboard.ID, 2)
	require.NoError(t, err)
	_, err = env.cart.AddItem(ctx, "u1", mouse.ID, 1)
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(2*4500+1500), order.Subtotal)
	require.Len(t, order.Items, 2)

	// Stock decremented line by line.
	got, err := env.catalog.GetProduct(ctx, keyboard.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Stock)
	got, err = env.catalog.GetProduct(ctx, mouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)

	// Cart emptied.
	view, err := env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// A second checkout finds nothing to buy.
	_, err = env.orders.Checkout(ctx, "u1")
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCheckoutSnapshotsSurviveProductEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Notebook", 2000, 10)

	_, err := env.cart.AddItem(ctx, "u1", product.ID, 3)
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, "u1")
	require.NoError(t, err)

	title := "Renamed Notebook"
	price := int64(9999)
	_, err = env.catalog.UpdateProduct(ctx, product.ID, services.UpdateProductInput{
		Title: &title,
		Price: &price,
	})
	require.NoError(t, err)

	stored, err := env.orders.GetMine(ctx, "u1", order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Notebook", stored.Items[0].Title)
	assert.Equal(t, int64(2000), stored.Items[0].Price)
	assert.Equal(t, int64(6000), stored.Subtotal)
}

func TestCheckoutIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plenty := env.mustCreateProduct(t, "Plenty", 1000, 100)
	scarce := env.mustCreateProduct(t, "Scarce", 5000, 5)

	_, err := env.cart.AddItem(ctx, "u1", plenty.ID, 10)
	require.NoError(t, err)
	_, err = env.cart.AddItem(ctx, "u1", scarce.ID, 5)
	require.NoError(t, err)

	// Someone else drains the scarce product between add and checkout.
	_, err = env.cart.AddItem(ctx, "u2", scarce.ID, 3)
	require.NoError(t, err)
	_, err = env.orders.Checkout(ctx, "u2")
	require.NoError(t, err)

	_, err = env.orders.Checkout(ctx, "u1")
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Scarce", stockErr.ProductTitle)
	assert.Equal(t, 2, stockErr.Available)

	// Nothing moved: stock and cart are exactly as before the attempt.
	got, err := env.catalog.GetProduct(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Stock)
	got, err = env.catalog.GetProduct(ctx, scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	view, err := env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)

	orders, err := env.orders.ListMine(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestConcurrentCheckoutSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Last One", 75000, 1)

	const buyers = 8
	users := make([]string, buyers)
	for i := range users {
		users[i] = string(rune('a' + i))
		_, err := env.cart.AddItem(ctx, users[i], product.ID, 1)
		require.NoError(t, err)
	}

	var won, lost int64
	var wg sync.WaitGroup
	wg.Add(buyers)
	for _, user := range users {
		go func(user string) {
			defer wg.Done()
			_, err := env.orders.Checkout(ctx, user)
			if err == nil {
				atomic.AddInt64(&won, 1)
				return
			}
			var stockErr *services.InsufficientStockError
			if assert.ErrorAs(t, err, &stockErr) {
				atomic.AddInt64(&lost, 1)
			}
		}(user)
	}
	wg.Wait()

	assert.Equal(t, int64(1), won, "exactly one buyer gets the last unit")
	assert.Equal(t, int64(buyers-1), lost)

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestCartThenCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Limited", 1200, 3)

	line, err := env.cart.AddItem(ctx, "u1", product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)

	// Aggregating past the available stock is rejected up front.
	_, err = env.cart.AddItem(ctx, "u1", product.ID, 2)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)

	// Setting the quantity to exactly the stock works.
	updated, err := env.cart.UpdateItem(ctx, "u1", line.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	order, err := env.orders.Checkout(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), order.Subtotal)

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Book", 2500, 10)

	_, err := env.cart.AddItem(ctx, "owner", product.ID, 1)
	require.NoError(t, err)
	order, err := env.orders.Checkout(ctx, "owner")
	require.NoError(t, err)

	_, err = env.orders.GetMine(ctx, "intruder", order.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	mine, err := env.orders.ListMine(ctx, "intruder")
	require.NoError(t, err)
	assert.Empty(t, mine)

	mine, err = env.orders.ListMine(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)
}
