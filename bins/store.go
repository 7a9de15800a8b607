package bins

import (
	"context"
	"errors"

	"wastewise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrBinNotFound = errors.New("bin not found")

type Store interface {
	Insert(ctx context.Context, b *models.Bin) error
	FindByID(ctx context.Context, id string) (*models.Bin, error)
	// List returns bins owned by ownerID, or every bin when ownerID is empty.
	List(ctx context.Context, ownerID string) ([]models.Bin, error)
	Replace(ctx context.Context, b *models.Bin) error
	Delete(ctx context.Context, id string) error
	StatsByType(ctx context.Context) ([]models.BinTypeStats, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, b *models.Bin) error {
	_, err := s.coll.InsertOne(ctx, b)
	return err
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Bin, error) {
	var b models.Bin
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBinNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MongoStore) List(ctx context.Context, ownerID string) ([]models.Bin, error) {
	filter := bson.M{}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bins := []models.Bin{}
	if err := cur.All(ctx, &bins); err != nil {
		return nil, err
	}
	return bins, nil
}

func (s *MongoStore) Replace(ctx context.Context, b *models.Bin) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBinNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBinNotFound
	}
	return nil
}

func (s *MongoStore) StatsByType(ctx context.Context) ([]models.BinTypeStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            "$type",
			"count":          bson.M{"$sum": 1},
			"total_capacity": bson.M{"$sum": "$capacity"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	stats := []models.BinTypeStats{}
	if err := cur.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
