package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unibridge/bridge-go-api/internal/models"
)

// SubmissionProblemRepository stores submission lists keyed by problem slug.
type SubmissionProblemRepository interface {
	// Replace upserts the document for the slug, discarding any prior
	// submission list.
	Replace(ctx context.Context, slug string, submissions []models.Submission) error
	GetBySlug(ctx context.Context, slug string) (models.SubmissionProblem, error)
}

type submissionProblemRepository struct {
	collection *mongo.Collection
}

// NewSubmissionProblemRepository constructs a submission problem repository.
func NewSubmissionProblemRepository(db *mongo.Database) SubmissionProblemRepository {
	return &submissionProblemRepository{collection: db.Collection("submission_problems")}
}

func (r *submissionProblemRepository) Replace(ctx context.Context, slug string, submissions []models.Submission) error {
	if submissions == nil {
		submissions = []models.Submission{}
	}

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"slug": slug},
		bson.M{
			"$set":         bson.M{"slug": slug, "submissions": submissions},
			"$setOnInsert": bson.M{"_id": uuid.NewString()},
		},
		options.Update().SetUpsert(true),
	)

	return err
}

func (r *submissionProblemRepository) GetBySlug(ctx context.Context, slug string) (models.SubmissionProblem, error) {
	var problem models.SubmissionProblem
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&problem); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.SubmissionProblem{}, ErrNotFound
		}
		return models.SubmissionProblem{}, err
	}

	return problem, nil
}
