package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-api/models"
)

type orders struct{ s *Store }

func (o orders) col() *mongo.Collection {
	return o.s.db.Collection("orders")
}

func (o orders) Create(ctx context.Context, order *models.Order) error {
	_, err := o.col().InsertOne(ctx, order)
	return mapErr(err)
}

func (o orders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := o.col().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, mapErr(err)
	}
	return &order, nil
}

func (o orders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := o.col().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	out := make([]models.Order, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
