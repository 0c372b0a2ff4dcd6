package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/models"
	"shop-api/store"
	"shop-api/store/memstore"
)

func seedProduct(t *testing.T, s *memstore.Memstore, id string, stock int) {
	t.Helper()
	now := time.Now().UTC()
	err := s.Products().Create(context.Background(), &models.Product{
		ID:        id,
		Title:     "Product " + id,
		Price:     1000,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestTxRollsBackEveryTable(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seedProduct(t, s, "p1", 10)

	boom := errors.New("boom")
	err := s.Tx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Products().DecrementStock(ctx, "p1", 5); err != nil {
			return err
		}
		if err := tx.CartItems().Upsert(ctx, &models.CartItem{
			ID: "c1", UserID: "u1", ProductID: "p1", Quantity: 1,
		}); err != nil {
			return err
		}
		if err := tx.Orders().Create(ctx, &models.Order{ID: "o1", UserID: "u1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	product, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)

	_, err = s.CartItems().GetByID(ctx, "c1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Orders().GetByID(ctx, "o1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTxCommitKeepsWrites(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seedProduct(t, s, "p1", 10)

	err := s.Tx(ctx, func(ctx context.Context, tx store.Store) error {
		return tx.Products().DecrementStock(ctx, "p1", 4)
	})
	require.NoError(t, err)

	product, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, product.Stock)
}

func TestNestedTxJoinsOuter(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seedProduct(t, s, "p1", 10)

	boom := errors.New("boom")
	err := s.Tx(ctx, func(ctx context.Context, tx store.Store) error {
		inner := tx.Tx(ctx, func(ctx context.Context, tx store.Store) error {
			return tx.Products().DecrementStock(ctx, "p1", 3)
		})
		require.NoError(t, inner)
		return boom
	})
	require.ErrorIs(t, err, boom)

	product, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock, "outer failure undoes inner writes")
}

func TestDecrementStockIsConditional(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seedProduct(t, s, "p1", 3)

	assert.ErrorIs(t, s.Products().DecrementStock(ctx, "p1", 4), store.ErrInsufficientStock)
	assert.ErrorIs(t, s.Products().DecrementStock(ctx, "missing", 1), store.ErrNotFound)

	require.NoError(t, s.Products().DecrementStock(ctx, "p1", 3))
	product, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

func TestCartUpsertEnforcesUserProductUniqueness(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	require.NoError(t, s.CartItems().Upsert(ctx, &models.CartItem{
		ID: "c1", UserID: "u1", ProductID: "p1", Quantity: 1,
	}))

	// Same pair under a different id is a duplicate.
	err := s.CartItems().Upsert(ctx, &models.CartItem{
		ID: "c2", UserID: "u1", ProductID: "p1", Quantity: 2,
	})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Rewriting the same line is not.
	require.NoError(t, s.CartItems().Upsert(ctx, &models.CartItem{
		ID: "c1", UserID: "u1", ProductID: "p1", Quantity: 5,
	}))
	item, err := s.CartItems().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	// Other users may hold the same product.
	require.NoError(t, s.CartItems().Upsert(ctx, &models.CartItem{
		ID: "c3", UserID: "u2", ProductID: "p1", Quantity: 1,
	}))
}

func TestUserEmailUniqueness(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "u1", Email: "a@example.com"}))
	err := s.Users().Create(ctx, &models.User{ID: "u2", Email: "a@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	user, err := s.Users().GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestReadsReturnCopies(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	seedProduct(t, s, "p1", 10)

	product, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	product.Stock = 99

	again, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, again.Stock, "mutating a returned record must not touch the store")
}
