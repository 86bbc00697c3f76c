package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	DebatesCollection       *mongo.Collection
	DebateTurnsCollection   *mongo.Collection
	UsageCountersCollection *mongo.Collection
)

// extractDBName parses the database name from the URI, defaulting to "contendo"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "contendo"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "contendo"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	DebatesCollection = MongoDatabase.Collection("debates")
	DebateTurnsCollection = MongoDatabase.Collection("debate_turns")
	UsageCountersCollection = MongoDatabase.Collection("usage_counters")

	return ensureIndexes(ctx)
}

// ensureIndexes creates the lookup indexes for turns and user listings.
// Debate and counter ids live in _id, which Mongo indexes on its own.
func ensureIndexes(ctx context.Context) error {
	_, err := DebateTurnsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "debateId", Value: 1}, {Key: "idx", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create turn index: %w", err)
	}
	_, err = DebatesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create debate index: %w", err)
	}
	return nil
}
