package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unibridge/bridge-go-api/internal/models"
)

// CourseRepository provides access to course records.
type CourseRepository interface {
	Create(ctx context.Context, course models.Course) (models.Course, error)
	GetByID(ctx context.Context, id string) (models.Course, error)
	GetAll(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, id string, course models.Course) (models.Course, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type courseRepository struct {
	collection *mongo.Collection
}

// NewCourseRepository constructs a course repository backed by the given database.
func NewCourseRepository(db *mongo.Database) CourseRepository {
	return &courseRepository{collection: db.Collection("courses")}
}

func (r *courseRepository) Create(ctx context.Context, course models.Course) (models.Course, error) {
	course.ID = primitive.NewObjectID()
	if course.ExerciseIDs == nil {
		course.ExerciseIDs = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, course); err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (models.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a stored document.
		return models.Course{}, ErrNotFound
	}

	var course models.Course
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&course); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Course{}, ErrNotFound
		}
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, id string, course models.Course) (models.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Course{}, ErrNotFound
	}

	course.ID = oid
	if course.ExerciseIDs == nil {
		course.ExerciseIDs = []string{}
	}

	var updated models.Course
	err = r.collection.FindOneAndReplace(
		ctx,
		bson.M{"_id": oid},
		course,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Course{}, ErrNotFound
		}
		return models.Course{}, err
	}

	return updated, nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}

	return result.DeletedCount == 1, nil
}
