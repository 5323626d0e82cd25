package soilanalyses

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const analysesCollection = "soilanalyses"

// MongoRepo implements Repo on a MongoDB collection.
type MongoRepo struct {
	coll *mongo.Collection
}

// NewMongoRepo returns a repo over the soil analyses collection and ensures
// the owner listing and geospatial indexes exist.
func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	coll := db.Collection(analysesCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "sharedWith.userId", Value: 1}}},
		{Keys: bson.D{{Key: "location.coordinates", Value: "2dsphere"}}},
	})
	if err != nil {
		return nil, err
	}
	return &MongoRepo{coll: coll}, nil
}

// Create inserts the analysis document.
func (r *MongoRepo) Create(ctx context.Context, a Analysis) error {
	_, err := r.coll.InsertOne(ctx, a)
	return err
}

// GetByID returns a live analysis, or ErrNotFound.
func (r *MongoRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	var a Analysis
	if err := r.coll.FindOne(ctx, liveByID(analysisID)).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return a, nil
}

// Update replaces the document only while it is still at a.Version. A live
// document at another version yields ErrConflict.
func (r *MongoRepo) Update(ctx context.Context, a Analysis) error {
	expected := a.Version
	a.Version++
	res, err := r.coll.ReplaceOne(ctx, liveAtVersion(a.ID, expected), a)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.coll.CountDocuments(ctx, liveByID(a.ID))
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	return ErrNotFound
}

// Delete marks the analysis deleted. Deleted documents are kept.
func (r *MongoRepo) Delete(ctx context.Context, analysisID string) error {
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, liveByID(analysisID), bson.M{
		"$set": bson.M{"deletedAt": now, "updatedAt": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser pages through the owner's live analyses, newest first.
func (r *MongoRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, liveByOwner(userID), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Analysis{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByUser counts the owner's live analyses.
func (r *MongoRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, liveByOwner(userID))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func liveByID(id string) bson.M {
	return bson.M{"_id": id, "deletedAt": bson.M{"$exists": false}}
}

// liveAtVersion matches a live document at version v. Documents written
// before versioning carry no field and count as version 0.
func liveAtVersion(id string, v int64) bson.M {
	f := liveByID(id)
	if v == 0 {
		f["version"] = bson.M{"$in": bson.A{int64(0), nil}}
		return f
	}
	f["version"] = v
	return f
}

func liveByOwner(userID string) bson.M {
	return bson.M{"userId": userID, "deletedAt": bson.M{"$exists": false}}
}
