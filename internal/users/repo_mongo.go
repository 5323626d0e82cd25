package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// MongoRepo implements Repo on the users collection.
type MongoRepo struct {
	coll *mongo.Collection
}

// NewMongoRepo returns a repo over the users collection and ensures its
// unique email index.
func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	coll := db.Collection(usersCollection)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	return &MongoRepo{coll: coll}, nil
}

// Upsert refreshes the profile fields and sets role and createdAt only on
// first login.
func (r *MongoRepo) Upsert(ctx context.Context, user User) error {
	role := user.Role
	if role == "" {
		role = RoleFarmer
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, upsertUpdate(user, role, time.Now().UTC()), options.Update().SetUpsert(true))
	return err
}

// GetByID returns the account for userID, or ErrNotFound.
func (r *MongoRepo) GetByID(ctx context.Context, userID string) (User, error) {
	var user User
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func upsertUpdate(user User, role string, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"email":      user.Email,
			"fullName":   user.FullName,
			"givenName":  user.GivenName,
			"familyName": user.FamilyName,
			"pictureUrl": user.PictureURL,
			"updatedAt":  now,
		},
		"$setOnInsert": bson.M{
			"role":      role,
			"createdAt": now,
		},
	}
}
