package dto

import "github.com/unibridge/bridge-go-api/internal/models"

// CourseCreateRequest is the payload for creating a course.
type CourseCreateRequest struct {
	Name        string   `json:"name" validate:"required,min=1"`
	CS50ID      *int64   `json:"cs50_id"`
	ExerciseIDs []string `json:"exercise_ids"`
}

// CourseUpdateRequest is the payload for updating a course; all fields optional.
type CourseUpdateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1"`
	CS50ID      *int64    `json:"cs50_id"`
	ExerciseIDs *[]string `json:"exercise_ids"`
}

// CourseResponse is the representation returned to clients.
type CourseResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CS50ID      *int64   `json:"cs50_id,omitempty"`
	ExerciseIDs []string `json:"exercise_ids"`
}

// NewCourseResponse converts a course model into its response representation.
func NewCourseResponse(course models.Course) CourseResponse {
	exerciseIDs := course.ExerciseIDs
	if exerciseIDs == nil {
		exerciseIDs = []string{}
	}

	return CourseResponse{
		ID:          course.ID.Hex(),
		Name:        course.Name,
		CS50ID:      course.CS50ID,
		ExerciseIDs: exerciseIDs,
	}
}

// NewCourseResponseSlice converts a slice of course models.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}
