package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	messages := MongoDatabase().Collection("messages")
	_, err := messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// thread reads
		{
			Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_conversation_created"),
		},
		// inbox aggregation
		{
			Keys:    bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_sender_created"),
		},
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_recipient_created"),
		},
		// unread counters
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index().SetName("by_recipient_read"),
		},
	})
	return err
}
