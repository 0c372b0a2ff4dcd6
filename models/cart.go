package models

import "time"

// CartItem is one pre-purchase line in a user's cart. At most one
// CartItem exists per (UserID, ProductID) pair; repeated adds increase
// Quantity instead of creating a second line.
type CartItem struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	ProductID string    `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
