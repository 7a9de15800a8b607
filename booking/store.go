package booking

import (
	"context"
	"errors"
	"time"

	"wastewise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrBookingNotFound = errors.New("booking not found")

type Store interface {
	Insert(ctx context.Context, b *models.Booking) error
	// FindBetween returns bookings whose date lies in [start, end].
	FindBetween(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, b *models.Booking) error {
	_, err := s.coll.InsertOne(ctx, b)
	return err
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Booking, error) {
	cur, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// betweenFilter matches dates in [start, end], both ends inclusive.
func betweenFilter(start, end time.Time) bson.M {
	return bson.M{"date": bson.M{"$gte": start, "$lte": end}}
}

func (s *MongoStore) FindBetween(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	return s.find(ctx, betweenFilter(start, end))
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, bson.M{"userid": userID}, opts)
}
