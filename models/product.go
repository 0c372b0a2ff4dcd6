package models

import "time"

// Product represents an item in the catalog. Price is stored in the
// minor currency unit (e.g. cents), never as a float.
type Product struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       int64     `bson:"price" json:"price"`
	Stock       int       `bson:"stock" json:"stock"`
	CategoryID  string    `bson:"category_id,omitempty" json:"category_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// ProductSummary is the trimmed-down product view embedded in cart lines.
type ProductSummary struct {
	ID    string `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	Price int64  `bson:"price" json:"price"`
	Stock int    `bson:"stock" json:"stock"`
}

// Summary returns the embeddable view of the product.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Stock: p.Stock,
	}
}
