package auth

import (
	"context"
	"errors"
	"time"

	"wastewise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
	SetResetOTP(ctx context.Context, userID, otpHash string, expiresAt time.Time) error
	// ClearResetOTP removes the reset fields only while they still hold otpHash.
	ClearResetOTP(ctx context.Context, userID, otpHash string) error
	// FindByResetOTP matches email, stored hash and an expiry after now.
	FindByResetOTP(ctx context.Context, email, otpHash string, now time.Time) (*models.User, error)
	// ResetPassword stores the new hash and clears the reset fields in one
	// update, guarded by the same match as FindByResetOTP. It reports whether
	// a document matched.
	ResetPassword(ctx context.Context, userID, otpHash, passwordHash string, now time.Time) (bool, error)
}

const (
	fieldOTPHash   = "password_reset_otp_hash"
	fieldOTPExpiry = "password_reset_expires_at"
)

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{coll: coll}
}

func (s *MongoUserStore) Create(ctx context.Context, u *models.User) error {
	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"userid": userID})
}

func (s *MongoUserStore) SetResetOTP(ctx context.Context, userID, otpHash string, expiresAt time.Time) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{fieldOTPHash: otpHash, fieldOTPExpiry: expiresAt}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func clearFilter(userID, otpHash string) bson.M {
	return bson.M{"userid": userID, fieldOTPHash: otpHash}
}

func (s *MongoUserStore) ClearResetOTP(ctx context.Context, userID, otpHash string) error {
	_, err := s.coll.UpdateOne(ctx,
		clearFilter(userID, otpHash),
		bson.M{"$unset": bson.M{fieldOTPHash: "", fieldOTPExpiry: ""}},
	)
	return err
}

func resetFilter(otpHash string, now time.Time) bson.M {
	return bson.M{
		fieldOTPHash:   otpHash,
		fieldOTPExpiry: bson.M{"$gt": now},
	}
}

func (s *MongoUserStore) FindByResetOTP(ctx context.Context, email, otpHash string, now time.Time) (*models.User, error) {
	filter := resetFilter(otpHash, now)
	filter["email"] = email
	return s.findOne(ctx, filter)
}

func (s *MongoUserStore) ResetPassword(ctx context.Context, userID, otpHash, passwordHash string, now time.Time) (bool, error) {
	filter := resetFilter(otpHash, now)
	filter["userid"] = userID
	res, err := s.coll.UpdateOne(ctx, filter, bson.M{
		"$set":   bson.M{"password": passwordHash, "updated_at": now},
		"$unset": bson.M{fieldOTPHash: "", fieldOTPExpiry: ""},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
