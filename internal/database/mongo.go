package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo establishes a connection to MongoDB and returns the named database.
func ConnectMongo(ctx context.Context, url, database string) (*mongo.Database, error) {
	if url == "" {
		return nil, fmt.Errorf("mongo url must not be empty")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database name must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("unable to reach mongo: %w", err)
	}

	return client.Database(database), nil
}

// EnsureIndexes creates the unique indexes the repositories rely on: student
// email, the (student_id, course_id) enrollment pair and the problem slug.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("students").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create student email index: %w", err)
	}

	_, err = db.Collection("enrollments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "student_id", Value: 1},
			{Key: "course_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create enrollment pair index: %w", err)
	}

	_, err = db.Collection("submission_problems").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create submission problem slug index: %w", err)
	}

	return nil
}
