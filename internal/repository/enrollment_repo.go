package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/unibridge/bridge-go-api/internal/models"
)

// EnrollmentRepository provides access to enrollment records and the reverse
// lookups between students and courses.
type EnrollmentRepository interface {
	Add(ctx context.Context, enrollment models.Enrollment) error
	AddBulk(ctx context.Context, enrollments []models.Enrollment) error
	CoursesForStudent(ctx context.Context, studentID string) ([]string, error)
	StudentsForCourse(ctx context.Context, courseID string) ([]string, error)
	Remove(ctx context.Context, studentID, courseID string) (bool, error)
}

type enrollmentRepository struct {
	collection *mongo.Collection
}

// NewEnrollmentRepository constructs an enrollment repository backed by the given database.
func NewEnrollmentRepository(db *mongo.Database) EnrollmentRepository {
	return &enrollmentRepository{collection: db.Collection("enrollments")}
}

func (r *enrollmentRepository) Add(ctx context.Context, enrollment models.Enrollment) error {
	if _, err := r.collection.InsertOne(ctx, enrollment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEnrollment
		}
		return err
	}

	return nil
}

func (r *enrollmentRepository) AddBulk(ctx context.Context, enrollments []models.Enrollment) error {
	if len(enrollments) == 0 {
		return nil
	}

	documents := make([]interface{}, 0, len(enrollments))
	for _, enrollment := range enrollments {
		documents = append(documents, enrollment)
	}

	if _, err := r.collection.InsertMany(ctx, documents); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEnrollment
		}
		return err
	}

	return nil
}

func (r *enrollmentRepository) CoursesForStudent(ctx context.Context, studentID string) ([]string, error) {
	return r.collectField(ctx, bson.M{"student_id": studentID}, "course_id")
}

func (r *enrollmentRepository) StudentsForCourse(ctx context.Context, courseID string) ([]string, error) {
	return r.collectField(ctx, bson.M{"course_id": courseID}, "student_id")
}

func (r *enrollmentRepository) Remove(ctx context.Context, studentID, courseID string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"student_id": studentID,
		"course_id":  courseID,
	})
	if err != nil {
		return false, err
	}

	return result.DeletedCount == 1, nil
}

func (r *enrollmentRepository) collectField(ctx context.Context, filter bson.M, field string) ([]string, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	values := []string{}
	for cursor.Next(ctx) {
		var enrollment models.Enrollment
		if err := cursor.Decode(&enrollment); err != nil {
			return nil, err
		}
		switch field {
		case "course_id":
			values = append(values, enrollment.CourseID)
		case "student_id":
			values = append(values, enrollment.StudentID)
		}
	}

	return values, cursor.Err()
}
