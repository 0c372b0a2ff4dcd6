package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-api/models"
	"shop-api/store"
)

type carts struct{ s *Store }

func (c carts) col() *mongo.Collection {
	return c.s.db.Collection("cart_items")
}

func (c carts) Upsert(ctx context.Context, item *models.CartItem) error {
	// The unique (user_id, product_id) index turns a racing double-insert
	// into a duplicate-key error instead of a second line.
	opts := options.Replace().SetUpsert(true)
	_, err := c.col().ReplaceOne(ctx, bson.M{"_id": item.ID}, item, opts)
	return mapErr(err)
}

func (c carts) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	var item models.CartItem
	err := c.col().FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

func (c carts) GetByUserProduct(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := c.col().FindOne(ctx, bson.M{"user_id": userID, "product_id": productID}).Decode(&item)
	if err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

func (c carts) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.col().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	out := make([]models.CartItem, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (c carts) Delete(ctx context.Context, id string) error {
	res, err := c.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c carts) DeleteByUser(ctx context.Context, userID string) error {
	_, err := c.col().DeleteMany(ctx, bson.M{"user_id": userID})
	return mapErr(err)
}

func (c carts) DeleteByProduct(ctx context.Context, productID string) error {
	_, err := c.col().DeleteMany(ctx, bson.M{"product_id": productID})
	return mapErr(err)
}
