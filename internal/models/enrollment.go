package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment links a student to a course. The (student_id, course_id) pair is
// unique, enforced by a compound index on the collection.
type Enrollment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID  string             `bson:"student_id" json:"student_id"`
	CourseID   string             `bson:"course_id" json:"course_id"`
	EnrolledAt time.Time          `bson:"enrolled_at" json:"enrolled_at"`
}
