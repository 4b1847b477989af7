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

// ErrCourseNotFound indicates a course could not be found.
var ErrCourseNotFound = errors.New("course not found")

// CourseService orchestrates course management use cases.
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id string) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id string, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id string) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Name:        payload.Name,
		CS50ID:      payload.CS50ID,
		ExerciseIDs: payload.ExerciseIDs,
	}

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", created.ID.Hex()).Msg("course created")

	return dto.NewCourseResponse(created), nil
}

func (s *courseService) Update(ctx context.Context, id string, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Name != nil {
		course.Name = *payload.Name
	}
	if payload.CS50ID != nil {
		course.CS50ID = payload.CS50ID
	}
	if payload.ExerciseIDs != nil {
		course.ExerciseIDs = *payload.ExerciseIDs
	}

	updated, err := s.courses.Update(ctx, id, course)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", id).Msg("course updated")

	return dto.NewCourseResponse(updated), nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	deleted, err := s.courses.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCourseNotFound
	}

	s.logger.Info().Str("course_id", id).Msg("course deleted")

	return nil
}
