package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taggate/taggate/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LogRepository defines persistence operations for access logs. Records are
// append-only: there is intentionally no update or delete.
type LogRepository interface {
	Insert(ctx context.Context, log *models.AccessLog) error
	FindInRange(ctx context.Context, start, end time.Time) ([]models.AccessLog, error)
	FindAll(ctx context.Context) ([]models.AccessLog, error)
}

// MongoLogRepository implements LogRepository using MongoDB. Every call is
// bounded by opTimeout so a stalled storage backend surfaces as an error to
// the caller instead of hanging the request.
type MongoLogRepository struct {
	col       *mongo.Collection
	opTimeout time.Duration
}

func NewMongoLogRepository(col *mongo.Collection, opTimeout time.Duration) *MongoLogRepository {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &MongoLogRepository{col: col, opTimeout: opTimeout}
}

func (r *MongoLogRepository) Insert(ctx context.Context, log *models.AccessLog) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("insert access log: %w", err)
	}
	return nil
}

// FindInRange returns logs with timestamp in [start, end). Result order is
// the collection's natural order and is stable within a single query.
func (r *MongoLogRepository) FindInRange(ctx context.Context, start, end time.Time) ([]models.AccessLog, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	filter := bson.M{"timestamp": bson.M{"$gte": start, "$lt": end}}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query access logs: %w", err)
	}
	return decodeLogs(ctx, cur)
}

func (r *MongoLogRepository) FindAll(ctx context.Context) ([]models.AccessLog, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query access logs: %w", err)
	}
	return decodeLogs(ctx, cur)
}

func decodeLogs(ctx context.Context, cur *mongo.Cursor) ([]models.AccessLog, error) {
	defer cur.Close(ctx)
	out := []models.AccessLog{}
	for cur.Next(ctx) {
		var l models.AccessLog
		if err := cur.Decode(&l); err != nil {
			return nil, fmt.Errorf("decode access log: %w", err)
		}
		out = append(out, l)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("read access logs: %w", err)
	}
	return out, nil
}
