package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contendo/models"
	"contendo/services"
)

// MongoDebateStore persists debates and their turn subcollection. It
// implements services.DebateStore plus the read operations the HTTP layer
// needs.
type MongoDebateStore struct {
	debates *mongo.Collection
	turns   *mongo.Collection
}

func NewMongoDebateStore() *MongoDebateStore {
	return &MongoDebateStore{
		debates: DebatesCollection,
		turns:   DebateTurnsCollection,
	}
}

// CreateDebate inserts the record create-if-absent: a duplicate id (the
// caller's idempotency key) is reported distinctly, never overwritten.
func (s *MongoDebateStore) CreateDebate(ctx context.Context, debate *models.Debate) error {
	_, err := s.debates.InsertOne(ctx, debate)
	if mongo.IsDuplicateKeyError(err) {
		return services.ErrDebateExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert debate: %w", err)
	}
	return nil
}

func (s *MongoDebateStore) AppendTurn(ctx context.Context, turn *models.Turn) error {
	result, err := s.turns.InsertOne(ctx, turn)
	if err != nil {
		return fmt.Errorf("failed to insert turn %d: %w", turn.Idx, err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		turn.ID = id
	}
	return nil
}

// FinalizeDebate flips a running debate to done. The status filter keeps the
// transition monotonic: a record that already left running is never touched.
func (s *MongoDebateStore) FinalizeDebate(ctx context.Context, id string, final services.DebateFinalization) error {
	filter := bson.M{"_id": id, "status": models.StatusRunning}
	update := bson.M{"$set": bson.M{
		"status":         models.StatusDone,
		"summary":        final.Summary,
		"verdict":        final.Verdict,
		"metrics":        final.Metrics,
		"sourceLinks":    final.SourceLinks,
		"sourceMentions": final.SourceMentions,
		"sourceCount":    final.SourceCount,
	}}
	result, err := s.debates.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to finalize debate: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("debate %s is not running", id)
	}
	return nil
}

func (s *MongoDebateStore) FailDebate(ctx context.Context, id string, message string) error {
	filter := bson.M{"_id": id, "status": models.StatusRunning}
	update := bson.M{"$set": bson.M{
		"status": models.StatusError,
		"error":  message,
	}}
	if _, err := s.debates.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark debate as error: %w", err)
	}
	return nil
}

// GetDebate returns one debate by id, or mongo.ErrNoDocuments.
func (s *MongoDebateStore) GetDebate(ctx context.Context, id string) (*models.Debate, error) {
	var debate models.Debate
	if err := s.debates.FindOne(ctx, bson.M{"_id": id}).Decode(&debate); err != nil {
		return nil, err
	}
	return &debate, nil
}

// GetTurns returns a debate's turns in idx order.
func (s *MongoDebateStore) GetTurns(ctx context.Context, debateID string) ([]models.Turn, error) {
	opts := options.Find().SetSort(bson.M{"idx": 1})
	cursor, err := s.turns.Find(ctx, bson.M{"debateId": debateID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer cursor.Close(ctx)

	var turns []models.Turn
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode turns: %w", err)
	}
	return turns, nil
}

// ListDebatesByUser returns the caller's debates, newest first.
func (s *MongoDebateStore) ListDebatesByUser(ctx context.Context, userID string, limit int64) ([]models.Debate, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := s.debates.Find(ctx, bson.M{"createdBy": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query debates: %w", err)
	}
	defer cursor.Close(ctx)

	var debates []models.Debate
	if err := cursor.All(ctx, &debates); err != nil {
		return nil, fmt.Errorf("failed to decode debates: %w", err)
	}
	return debates, nil
}

// IncrementLikes bumps the likes counter of a finished debate.
func (s *MongoDebateStore) IncrementLikes(ctx context.Context, id string) error {
	result, err := s.debates.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusDone},
		bson.M{"$inc": bson.M{"likesCount": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to update likes: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
