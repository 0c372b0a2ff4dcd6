package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop-api/models"
	"shop-api/services"
	"shop-api/store/memstore"
)

type testEnv struct {
	catalog *services.CatalogService
	cart    *services.CartService
	orders  *services.OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memstore.New()
	logger := zap.NewNop()
	return &testEnv{
		catalog: services.NewCatalogService(st, logger),
		cart:    services.NewCartService(st, logger),
		orders:  services.NewOrderService(st, logger),
	}
}

func (e *testEnv) mustCreateProduct(t *testing.T, title string, price int64, stock int) *models.Product {
	t.Helper()
	product, err := e.catalog.CreateProduct(context.Background(), services.CreateProductInput{
		Title: title,
		Price: price,
		Stock: stock,
	})
	require.NoError(t, err)
	return product
}

func TestAddItemAggregatesQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Keyboard", 4500, 10)

	first, err := env.cart.AddItem(ctx, "u1", product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := env.cart.AddItem(ctx, "u1", product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, first.ID, second.ID, "repeat add must reuse the same cart line")

	view, err := env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, int64(4500*5), view.Subtotal)
}

func TestAddItemDefaultsToQuantityOne(t *testing.T) {
	env := newTestEnv(t)
	product := env.mustCreateProduct(t, "Mouse", 1500, 3)

	line, err := env.cart.AddItem(context.Background(), "u1", product.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
}

func TestAddItemQuantityBounds(t *testing.T) {
	env := newTestEnv(t)
	product := env.mustCreateProduct(t, "Cable", 500, 5000)

	_, err := env.cart.AddItem(context.Background(), "u1", product.ID, 1000)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = env.cart.AddItem(context.Background(), "u1", product.ID, -1)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestAddItemUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.cart.AddItem(context.Background(), "u1", "missing", 1)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAddItemInsufficientStockLeavesCartUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Monitor", 25000, 2)

	_, err := env.cart.AddItem(ctx, "u1", product.ID, 3)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)

	view, err := env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items, "failed add must not create a cart line")

	// Aggregation over the limit fails too and keeps the old quantity.
	_, err = env.cart.AddItem(ctx, "u1", product.ID, 2)
	require.NoError(t, err)
	_, err = env.cart.AddItem(ctx, "u1", product.ID, 1)
	require.ErrorAs(t, err, &stockErr)

	view, err = env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestUpdateItemOwnershipHidesExistence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Desk", 90000, 5)

	line, err := env.cart.AddItem(ctx, "owner", product.ID, 1)
	require.NoError(t, err)

	_, err = env.cart.UpdateItem(ctx, "intruder", line.ID, 2)
	assert.ErrorIs(t, err, services.ErrNotFound, "non-owners must see NotFound, not Forbidden")

	err = env.cart.RemoveItem(ctx, "intruder", line.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateItemRespectsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Chair", 30000, 4)

	line, err := env.cart.AddItem(ctx, "u1", product.ID, 1)
	require.NoError(t, err)

	_, err = env.cart.UpdateItem(ctx, "u1", line.ID, 5)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Available)

	updated, err := env.cart.UpdateItem(ctx, "u1", line.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Lamp", 2000, 5)

	line, err := env.cart.AddItem(ctx, "u1", product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, env.cart.RemoveItem(ctx, "u1", line.ID))
	assert.ErrorIs(t, env.cart.RemoveItem(ctx, "u1", line.ID), services.ErrNotFound)
}

func TestClearCartIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Mug", 800, 10)

	require.NoError(t, env.cart.Clear(ctx, "u1"), "clearing an empty cart succeeds")

	_, err := env.cart.AddItem(ctx, "u1", product.ID, 2)
	require.NoError(t, err)
	require.NoError(t, env.cart.Clear(ctx, "u1"))

	view, err := env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	require.NoError(t, env.cart.Clear(ctx, "u1"))
}

func TestGetCartSubtotalUsesCurrentPrices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Headphones", 10000, 10)

	_, err := env.cart.AddItem(ctx, "u1", product.ID, 2)
	require.NoError(t, err)

	newPrice := int64(12000)
	_, err = env.catalog.UpdateProduct(ctx, product.ID, services.UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	view, err := env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(24000), view.Subtotal, "subtotal is a view over current prices")
}

func TestGetCartNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.mustCreateProduct(t, "First", 100, 10)
	second := env.mustCreateProduct(t, "Second", 200, 10)

	_, err := env.cart.AddItem(ctx, "u1", first.ID, 1)
	require.NoError(t, err)
	_, err = env.cart.AddItem(ctx, "u1", second.ID, 1)
	require.NoError(t, err)

	view, err := env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, second.ID, view.Items[0].ProductID)
	assert.Equal(t, first.ID, view.Items[1].ProductID)
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.mustCreateProduct(t, "Popular", 999, 100)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := env.cart.AddItem(ctx, "u1", product.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := env.cart.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, workers, view.Items[0].Quantity)
}
