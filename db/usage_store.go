package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contendo/models"
	"contendo/services"
)

// MongoRateLimiter enforces the daily quota on the usage_counters
// collection. The check-and-increment is a single FindOneAndUpdate so two
// concurrent requests can never both slip past the limit.
type MongoRateLimiter struct {
	counters *mongo.Collection
	limit    int
	now      func() time.Time
}

func NewMongoRateLimiter(limit int) *MongoRateLimiter {
	return &MongoRateLimiter{
		counters: UsageCountersCollection,
		limit:    limit,
		now:      time.Now,
	}
}

// CheckRateLimit atomically increments the per-user-per-day counter while it
// is still under the limit. When the counter is at the limit the filter does
// not match and the upsert collides with the existing _id, which Mongo
// reports as a duplicate key: that is the denied path, with the counter left
// untouched.
func (l *MongoRateLimiter) CheckRateLimit(ctx context.Context, userID string) (services.RateLimitResult, error) {
	now := l.now()
	key := services.UsageKey(userID, now)
	resetAt := services.NextUTCMidnight(now)

	filter := bson.M{"_id": key, "count": bson.M{"$lt": l.limit}}
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$setOnInsert": bson.M{
			"userId": userID,
			"date":   now.UTC().Format("2006-01-02"),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.UsageCounter
	err := l.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return services.RateLimitResult{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
		}
		return services.RateLimitResult{}, fmt.Errorf("failed to update usage counter: %w", err)
	}

	return services.RateLimitResult{
		Allowed:   true,
		Remaining: l.limit - counter.Count,
		ResetAt:   resetAt,
	}, nil
}

// GetUsage reads the counter without mutating it.
func (l *MongoRateLimiter) GetUsage(ctx context.Context, userID string) (services.Usage, error) {
	key := services.UsageKey(userID, l.now())

	var counter models.UsageCounter
	err := l.counters.FindOne(ctx, bson.M{"_id": key}).Decode(&counter)
	if err != nil && err != mongo.ErrNoDocuments {
		return services.Usage{}, fmt.Errorf("failed to read usage counter: %w", err)
	}

	remaining := l.limit - counter.Count
	if remaining < 0 {
		remaining = 0
	}
	return services.Usage{Used: counter.Count, Limit: l.limit, Remaining: remaining}, nil
}
