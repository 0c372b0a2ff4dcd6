package models

import "time"

// OrderStatus values. Orders are created PENDING; payment capture and
// cancellation are handled outside this service.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// OrderItem is an immutable snapshot of a purchased cart line. Title and
// Price are copied at checkout time so later product edits never change
// historical orders.
type OrderItem struct {
	ProductID string `bson:"product_id" json:"product_id"`
	Title     string `bson:"title" json:"title"`
	Price     int64  `bson:"price" json:"price"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Order is the permanent record produced by checkout.
type Order struct {
	ID        string      `bson:"_id" json:"id"`
	UserID    string      `bson:"user_id" json:"user_id"`
	Status    OrderStatus `bson:"status" json:"status"`
	Subtotal  int64       `bson:"subtotal" json:"subtotal"`
	Items     []OrderItem `bson:"items" json:"items"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}
