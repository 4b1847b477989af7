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

// StudentRepository provides access to student records. Email uniqueness is
// enforced by a unique index on the collection.
type StudentRepository interface {
	Create(ctx context.Context, student models.Student) (models.Student, error)
	GetByID(ctx context.Context, id string) (models.Student, error)
	GetByEmail(ctx context.Context, email string) (models.Student, error)
	GetAll(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, id string, student models.Student) (models.Student, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type studentRepository struct {
	collection *mongo.Collection
}

// NewStudentRepository constructs a student repository backed by the given database.
func NewStudentRepository(db *mongo.Database) StudentRepository {
	return &studentRepository{collection: db.Collection("students")}
}

func (r *studentRepository) Create(ctx context.Context, student models.Student) (models.Student, error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}

	if _, err := r.collection.InsertOne(ctx, student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Student{}, ErrDuplicateEmail
		}
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (models.Student, error) {
	var student models.Student
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetAll(ctx context.Context) ([]models.Student, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, id string, student models.Student) (models.Student, error) {
	student.ID = id

	var updated models.Student
	err := r.collection.FindOneAndReplace(
		ctx,
		bson.M{"_id": id},
		student,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Student{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return models.Student{}, ErrDuplicateEmail
		}
		return models.Student{}, err
	}

	return updated, nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}

	return result.DeletedCount == 1, nil
}
