package services

import (
	"errors"
	"fmt"
)

// Business-rule failures. These are expected outcomes returned to the
// caller, never retried internally.
var (
	// ErrNotFound covers both missing entities and entities not owned by
	// the requesting user, so existence is never leaked to non-owners.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart is returned by Checkout when the user has no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrDuplicate is returned when a uniqueness rule is violated, e.g. a
	// category slug or a registered email.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidInput flags malformed request values (bad quantity, empty
	// title, negative price).
	ErrInvalidInput = errors.New("invalid input")
)

// InsufficientStockError reports a requested quantity exceeding the
// product's available stock. Available always carries the stock level
// observed at decision time; ProductTitle is set when the offending
// product is known to the caller by name (checkout).
type InsufficientStockError struct {
	ProductTitle string
	Available    int
}

func (e *InsufficientStockError) Error() string {
	if e.ProductTitle != "" {
		return fmt.Sprintf("not enough stock for %s: available %d", e.ProductTitle, e.Available)
	}
	return fmt.Sprintf("not enough stock: available %d", e.Available)
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
