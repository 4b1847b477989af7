package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Course represents a course that students can be enrolled into. Exercises live
// in their own collection and are referenced by id.
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	CS50ID      *int64             `bson:"cs50_id,omitempty" json:"cs50_id,omitempty"`
	ExerciseIDs []string           `bson:"exercise_ids" json:"exercise_ids"`
}
