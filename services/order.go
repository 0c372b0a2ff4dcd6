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

// OrderService converts carts into orders.
type OrderService struct {
	store  store.Store
	logger *zap.Logger
}

func NewOrderService(s store.Store, logger *zap.Logger) *OrderService {
	return &OrderService{store: s, logger: logger}
}

// Checkout turns the user's cart into a PENDING order inside a single
// transaction: load cart, validate every line against current stock,
// snapshot the lines into order items, decrement stock, clear the cart.
// Validation of all lines completes before the first stock mutation; any
// failure rolls the whole transaction back, leaving cart and stock
// untouched.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	var order *models.Order
	err := s.store.Tx(ctx, func(ctx context.Context, tx store.Store) error {
		items, err := tx.CartItems().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		byID := make(map[string]*models.Product, len(items))
		var subtotal int64
		for _, item := range items {
			product, err := tx.Products().GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if item.Quantity > product.Stock {
				return &InsufficientStockError{ProductTitle: product.Title, Available: product.Stock}
			}
			byID[item.ProductID] = product
			subtotal += product.Price * int64(item.Quantity)
		}

		now := time.Now().UTC()
		order = &models.Order{
			ID:        uuid.NewString(),
			UserID:    userID,
			Status:    models.OrderStatusPending,
			Subtotal:  subtotal,
			Items:     make([]models.OrderItem, 0, len(items)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, item := range items {
			product := byID[item.ProductID]
			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				Title:     product.Title,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
		}

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Products().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, store.ErrInsufficientStock) {
					product := byID[item.ProductID]
					return &InsufficientStockError{ProductTitle: product.Title, Available: product.Stock}
				}
				return err
			}
		}
		return tx.CartItems().DeleteByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout_completed",
		zap.String("user_id", userID),
		zap.String("order_id", order.ID),
		zap.Int64("subtotal", order.Subtotal),
		zap.Int("lines", len(order.Items)),
	)
	return order, nil
}

// ListMine returns the user's orders newest-first.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

// GetMine returns one of the user's orders. Orders belonging to other
// users report NotFound.
func (s *OrderService) GetMine(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotFound
	}
	return order, nil
}
