package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client             *mongo.Client
	UserCollection     *mongo.Collection
	BookingsCollection *mongo.Collection
	BinsCollection     *mongo.Collection
}

// Connect dials MongoDB, pings it and wires the collections of database name.
func Connect(ctx context.Context, uri, name string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri).SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(name)
	return &Store{
		Client:             client,
		UserCollection:     database.Collection("users"),
		BookingsCollection: database.Collection("bookings"),
		BinsCollection:     database.Collection("bins"),
	}, nil
}

// EnsureIndexes creates the indexes the stores rely on. Safe to call on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.UserCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_email"),
		},
		{
			Keys:    bson.D{{Key: "userid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_userid"),
		},
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	_, err = s.BookingsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "time_slot", Value: 1}},
			Options: options.Index().SetName("date_slot"),
		},
		{
			Keys:    bson.D{{Key: "userid", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
	})
	if err != nil {
		return fmt.Errorf("booking indexes: %w", err)
	}

	_, err = s.BinsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetName("owner"),
	})
	if err != nil {
		return fmt.Errorf("bin indexes: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
