package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taggate/taggate/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines persistence operations for badge holders
type UserRepository interface {
	Insert(ctx context.Context, u *models.User) (*models.User, error)
	FindByTag(ctx context.Context, tag string) (*models.User, error)
}

// MongoUserRepository implements UserRepository using MongoDB. Every call is
// bounded by opTimeout so a stalled storage backend surfaces as an error to
// the caller instead of hanging the request.
type MongoUserRepository struct {
	col       *mongo.Collection
	opTimeout time.Duration
}

// NewMongoUserRepository creates a new repository for the given collection.
// An index on "tag" keeps lookups fast on the hot access-check path and
// rejects duplicate registrations.
func NewMongoUserRepository(col *mongo.Collection, opTimeout time.Duration) *MongoUserRepository {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "tag", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(ctx, idxModel)
	return &MongoUserRepository{col: col, opTimeout: opTimeout}
}

func (r *MongoUserRepository) Insert(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateTag
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *MongoUserRepository) FindByTag(ctx context.Context, tag string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"tag": tag}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by tag: %w", err)
	}
	return &u, nil
}
