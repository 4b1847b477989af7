package dto

import "github.com/unibridge/bridge-go-api/internal/models"

// StudentCreateRequest is the payload for creating a student.
type StudentCreateRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name"`
	GithubUsername string `json:"github_username"`
}

// StudentUpdateRequest is the payload for updating a student; all fields optional.
type StudentUpdateRequest struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	Name           *string `json:"name"`
	GithubID       *int64  `json:"github_id"`
	GithubUsername *string `json:"github_username"`
}

// StudentResponse is the representation returned to clients.
type StudentResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	GithubID       *int64 `json:"github_id,omitempty"`
	GithubUsername string `json:"github_username"`
}

// NewStudentResponse converts a student model into its response representation.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:             student.ID,
		Email:          student.Email,
		Name:           student.Name,
		GithubID:       student.GithubID,
		GithubUsername: student.GithubUsername,
	}
}

// NewStudentResponseSlice converts a slice of student models.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
