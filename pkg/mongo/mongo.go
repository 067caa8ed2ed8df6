package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"fixengine/pkg/logs"
)

type Database struct {
	Client *mongo.Client
	Name   string
}

func InitConnection(ctx context.Context, uri, name string) (*Database, error) {
	logs.Log.Info().Str("db", name).Msg("Database connecting...")

	client, err := mongo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err = client.Connect(ctx); err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	logs.Log.Info().Str("db", name).Msg("Database connected!")

	return &Database{Client: client, Name: name}, nil
}

func (db *Database) InitCollection(collectionName string) *mongo.Collection {
	return db.Client.Database(db.Name).Collection(collectionName)
}

func (db *Database) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
