package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/audiogate_backend/config"
	"github.com/HSouheill/audiogate_backend/models"
	"github.com/HSouheill/audiogate_backend/utils"
)

// ErrOTPNotFound is returned when no unexpired challenge matches
var ErrOTPNotFound = errors.New("otp not found")

// OTPStore holds pending OTP challenges
type OTPStore interface {
	Put(ctx context.Context, challenge models.OTPChallenge) error
	FindValid(ctx context.Context, email, otp string) (*models.OTPChallenge, error)
}

// OTPRepository is the Mongo backed OTPStore. The TTL index on createdAt
// deletes expired documents eventually; FindValid filters on the clock so an
// expired document that Mongo has not reaped yet is never returned.
type OTPRepository struct {
	collection *mongo.Collection
	clock      utils.Clock
	ttl        time.Duration
}

func NewOTPRepository(db *mongo.Database, clock utils.Clock) *OTPRepository {
	return &OTPRepository{
		collection: db.Collection(config.OTPCollection),
		clock:      clock,
		ttl:        config.OTPTTL,
	}
}

func (r *OTPRepository) Put(ctx context.Context, challenge models.OTPChallenge) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, challenge)
	return err
}

func (r *OTPRepository) FindValid(ctx context.Context, email, otp string) (*models.OTPChallenge, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var challenge models.OTPChallenge
	err := r.collection.FindOne(ctx, validOTPFilter(email, otp, r.clock.Now(), r.ttl)).Decode(&challenge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// validOTPFilter matches challenges issued strictly less than ttl before now
func validOTPFilter(email, otp string, now time.Time, ttl time.Duration) bson.M {
	return bson.M{
		"email":     email,
		"otp":       otp,
		"createdAt": bson.M{"$gt": now.Add(-ttl)},
	}
}
