package repository

import (
	"context"
	"regexp"
	"time"

	"github.com/xytext/xytext/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection keyed by path.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// paths are the lookup key for every operation
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "path", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Get(ctx context.Context, path string) (*document.Document, error) {
	var d document.Document
	err := m.col.FindOne(ctx, bson.M{"path": path}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) Upsert(ctx context.Context, path, content string) error {
	now := time.Now().UnixMilli()
	// $setOnInsert keeps the original created_at on subsequent writes
	update := bson.M{
		"$set":         bson.M{"content": content, "updated_at": now},
		"$setOnInsert": bson.M{"path": path, "created_at": now},
	}
	_, err := m.col.UpdateOne(ctx, bson.M{"path": path}, update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoRepo) Delete(ctx context.Context, path string) (bool, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"path": path})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (m *MongoRepo) ListByPrefix(ctx context.Context, prefix string) ([]*document.Document, error) {
	filter := bson.M{"path": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	cur, err := m.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "path", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}
