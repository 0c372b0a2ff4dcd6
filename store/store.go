// Package store defines the persistence contract the services are built
// against. Implementations live in store/mongostore (MongoDB) and
// store/memstore (in-memory, used for tests and local development).
package store

import (
	"context"
	"errors"

	"shop-api/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrInsufficientStock is returned by DecrementStock when the product
	// has less stock than requested. The product is left unchanged.
	ErrInsufficientStock = errors.New("store: insufficient stock")
)

// UserStore persists accounts. Email is unique.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	// Query is matched case-insensitively against title and description.
	Query  string
	Offset int
	Limit  int
}

// ProductStore persists catalog products.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// List returns a page of products newest-first plus the total count
	// matching the filter.
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	// DecrementStock atomically subtracts quantity from the product's
	// stock. It fails with ErrInsufficientStock, without mutating
	// anything, when stock < quantity.
	DecrementStock(ctx context.Context, id string, quantity int) error
}

// CategoryStore persists categories. Slug is unique.
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// CartStore persists cart lines. (UserID, ProductID) is unique.
type CartStore interface {
	// Upsert inserts the item or replaces the item with the same ID.
	// Inserting a second line for an existing (UserID, ProductID) pair
	// fails with ErrDuplicate.
	Upsert(ctx context.Context, item *models.CartItem) error
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	GetByUserProduct(ctx context.Context, userID, productID string) (*models.CartItem, error)
	// ListByUser returns the user's cart lines newest-first.
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteByProduct(ctx context.Context, productID string) error
}

// OrderStore persists orders. Orders are immutable once created.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// ListByUser returns the user's orders newest-first.
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// Store aggregates the per-entity stores and provides the transactional
// boundary the checkout flow depends on.
type Store interface {
	Users() UserStore
	Products() ProductStore
	Categories() CategoryStore
	CartItems() CartStore
	Orders() OrderStore

	// Tx runs fn inside a transaction. Every store access made through
	// the Store passed to fn is committed atomically; if fn returns an
	// error nothing is persisted and the error is returned unchanged.
	Tx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
