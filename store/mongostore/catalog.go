package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-api/models"
	"shop-api/store"
)

type products struct{ s *Store }

func (p products) col() *mongo.Collection {
	return p.s.db.Collection("products")
}

func (p products) Create(ctx context.Context, product *models.Product) error {
	_, err := p.col().InsertOne(ctx, product)
	return mapErr(err)
}

func (p products) Update(ctx context.Context, product *models.Product) error {
	res, err := p.col().ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (p products) Delete(ctx context.Context, id string) error {
	res, err := p.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (p products) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.col().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, mapErr(err)
	}
	return &product, nil
}

func (p products) List(ctx context.Context, filter store.ProductFilter) ([]models.Product, int64, error) {
	query := bson.M{}
	if filter.Query != "" {
		re := caseInsensitive(filter.Query)
		query = bson.M{"$or": bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}}
	}

	total, err := p.col().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapErr(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := p.col().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer cursor.Close(ctx)

	out := make([]models.Product, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, mapErr(err)
	}
	return out, total, nil
}

func (p products) DecrementStock(ctx context.Context, id string, quantity int) error {
	// Conditional update: only matches while enough stock remains, so a
	// concurrent decrement that would oversell matches nothing.
	res, err := p.col().UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		if err := p.col().FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return mapErr(err)
		}
		return store.ErrInsufficientStock
	}
	return nil
}

type categories struct{ s *Store }

func (c categories) col() *mongo.Collection {
	return c.s.db.Collection("categories")
}

func (c categories) Create(ctx context.Context, category *models.Category) error {
	_, err := c.col().InsertOne(ctx, category)
	return mapErr(err)
}

func (c categories) Update(ctx context.Context, category *models.Category) error {
	res, err := c.col().ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c categories) Delete(ctx context.Context, id string) error {
	res, err := c.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c categories) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := c.col().FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		return nil, mapErr(err)
	}
	return &category, nil
}

func (c categories) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := c.col().FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	if err != nil {
		return nil, mapErr(err)
	}
	return &category, nil
}

func (c categories) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.col().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	out := make([]models.Category, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
