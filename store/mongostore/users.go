package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shop-api/models"
)

type users struct{ s *Store }

func (u users) col() *mongo.Collection {
	return u.s.db.Collection("users")
}

func (u users) Create(ctx context.Context, user *models.User) error {
	_, err := u.col().InsertOne(ctx, user)
	return mapErr(err)
}

func (u users) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := u.col().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (u users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.col().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}
