package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/dto"
	"github.com/unibridge/bridge-go-api/internal/models"
	"github.com/unibridge/bridge-go-api/internal/repository"
)

var (
	// ErrStudentNotFound indicates a student could not be found.
	ErrStudentNotFound = errors.New("student not found")

	// ErrDuplicateEmail indicates another student already uses the email.
	ErrDuplicateEmail = errors.New("student email already in use")
)

// StudentService orchestrates student management use cases.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	GetByEmail(ctx context.Context, email string) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Get(ctx context.Context, id string) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) GetByEmail(ctx context.Context, email string) (dto.StudentResponse, error) {
	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		Email:          payload.Email,
		Name:           payload.Name,
		GithubUsername: payload.GithubUsername,
	}

	created, err := s.students.Create(ctx, student)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return dto.StudentResponse{}, ErrDuplicateEmail
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", created.ID).Msg("student created")

	return dto.NewStudentResponse(created), nil
}

func (s *studentService) Update(ctx context.Context, id string, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.Email != nil {
		student.Email = *payload.Email
	}
	if payload.Name != nil {
		student.Name = *payload.Name
	}
	if payload.GithubID != nil {
		student.GithubID = payload.GithubID
	}
	if payload.GithubUsername != nil {
		student.GithubUsername = *payload.GithubUsername
	}

	updated, err := s.students.Update(ctx, id, student)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return dto.StudentResponse{}, ErrStudentNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return dto.StudentResponse{}, ErrDuplicateEmail
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", id).Msg("student updated")

	return dto.NewStudentResponse(updated), nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.students.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrStudentNotFound
	}

	s.logger.Info().Str("student_id", id).Msg("student deleted")

	return nil
}
