package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-api/models"
	"shop-api/store"
)

// Cart quantity bounds per line.
const (
	MinQuantity = 1
	MaxQuantity = 999
)

// CartLine is a cart item with its product snapshot embedded.
type CartLine struct {
	models.CartItem
	Product models.ProductSummary `json:"product"`
}

// CartView is the user's whole cart. Subtotal is recomputed from current
// product prices on every read; it is never stored.
type CartView struct {
	Items    []CartLine `json:"items"`
	Subtotal int64      `json:"subtotal"`
}

// CartService owns the (user, product) → quantity mapping.
type CartService struct {
	store  store.Store
	logger *zap.Logger
}

func NewCartService(s store.Store, logger *zap.Logger) *CartService {
	return &CartService{store: s, logger: logger}
}

// AddItem adds quantity of a product to the user's cart, aggregating
// onto an existing line for the same product. Quantity 0 means the
// default of 1. The read-modify-write runs inside one transaction so
// concurrent adds for the same (user, product) cannot lose updates.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*CartLine, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, invalidInput("quantity must be between %d and %d", MinQuantity, MaxQuantity)
	}

	var line *CartLine
	err := s.store.Tx(ctx, func(ctx context.Context, tx store.Store) error {
		product, err := tx.Products().GetByID(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		existing, err := tx.CartItems().GetByUserProduct(ctx, userID, productID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		nextQty := quantity
		if existing != nil {
			nextQty += existing.Quantity
		}
		if nextQty > product.Stock {
			return &InsufficientStockError{Available: product.Stock}
		}

		now := time.Now().UTC()
		item := existing
		if item == nil {
			item = &models.CartItem{
				ID:        uuid.NewString(),
				UserID:    userID,
				ProductID: productID,
				CreatedAt: now,
			}
		}
		item.Quantity = nextQty
		item.UpdatedAt = now

		if err := tx.CartItems().Upsert(ctx, item); err != nil {
			return err
		}
		line = &CartLine{CartItem: *item, Product: product.Summary()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart_item_added",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", line.Quantity),
	)
	return line, nil
}

// UpdateItem sets the quantity of a cart line. The line must belong to
// userID; otherwise NotFound, so non-owners cannot probe item ids.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*CartLine, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, invalidInput("quantity must be between %d and %d", MinQuantity, MaxQuantity)
	}

	var line *CartLine
	err := s.store.Tx(ctx, func(ctx context.Context, tx store.Store) error {
		item, err := tx.CartItems().GetByID(ctx, itemID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if item.UserID != userID {
			return ErrNotFound
		}

		product, err := tx.Products().GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if quantity > product.Stock {
			return &InsufficientStockError{Available: product.Stock}
		}

		item.Quantity = quantity
		item.UpdatedAt = time.Now().UTC()
		if err := tx.CartItems().Upsert(ctx, item); err != nil {
			return err
		}
		line = &CartLine{CartItem: *item, Product: product.Summary()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveItem deletes a cart line owned by userID.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	item, err := s.store.CartItems().GetByID(ctx, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrNotFound
	}
	if err := s.store.CartItems().Delete(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Clear removes every cart line for the user. Clearing an empty cart is
// a successful no-op.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.store.CartItems().DeleteByUser(ctx, userID)
}

// Get returns the user's cart newest-first with product snapshots and
// the recomputed subtotal. Lines whose product has been removed from the
// catalog are skipped.
func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	items, err := s.store.CartItems().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(items))}
	for _, item := range items {
		product, err := s.store.Products().GetByID(ctx, item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		view.Items = append(view.Items, CartLine{CartItem: item, Product: product.Summary()})
		view.Subtotal += product.Price * int64(item.Quantity)
	}
	return view, nil
}
