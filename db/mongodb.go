package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoConnectTimeout = 10 * time.Second

func ConnectToMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

// Store is the part of a database the identity contract needs.
type Store interface {
	CreateIndex(ctx context.Context, collection string, model mongo.IndexModel) (string, error)
	ReplaceOne(ctx context.Context, collection string, filter bson.D, replacement any) (*mongo.UpdateResult, error)
}

// MongoStore is a Store backed by a MongoDB database.
type MongoStore struct {
	db *mongo.Database
}

var _ Store = (*MongoStore)(nil)

func NewStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) CreateIndex(ctx context.Context, collection string, model mongo.IndexModel) (string, error) {
	return s.db.Collection(collection).Indexes().CreateOne(ctx, model)
}

// ReplaceOne replaces the matching document without upserting.
func (s *MongoStore) ReplaceOne(ctx context.Context, collection string, filter bson.D, replacement any) (*mongo.UpdateResult, error) {
	return s.db.Collection(collection).ReplaceOne(ctx, filter, replacement)
}
