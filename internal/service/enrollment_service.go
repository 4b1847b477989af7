package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unibridge/bridge-go-api/internal/dto"
	"github.com/unibridge/bridge-go-api/internal/models"
	"github.com/unibridge/bridge-go-api/internal/observability"
	"github.com/unibridge/bridge-go-api/internal/repository"
)

var (
	// ErrInvalidCSVFormat indicates a CSV upload is missing required columns or
	// cannot be parsed.
	ErrInvalidCSVFormat = errors.New("invalid csv format")

	// ErrEnrollmentNotFound indicates the (student, course) pair is not enrolled.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// Column headers of a Moodle roster export. The observed deployment exports
// German headers.
const (
	rosterColumnFirstName = "Vorname"
	rosterColumnLastName  = "Nachname"
	rosterColumnEmail     = "E-Mail-Adresse"
)

// Moodle's export pipeline writes the literal string "nan" for blank cells.
const missingValueMarker = "nan"

// EnrollmentService imports roster CSVs and manages enrollments.
type EnrollmentService interface {
	ImportRoster(ctx context.Context, courseID string, file io.Reader) (dto.EnrollmentImportResult, error)
	CoursesForStudent(ctx context.Context, studentID string) ([]string, error)
	StudentsForCourse(ctx context.Context, courseID string) ([]string, error)
	Unenroll(ctx context.Context, studentID, courseID string) error
}

type enrollmentService struct {
	students    repository.StudentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	events      ImportEventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(
	students repository.StudentRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	events ImportEventPublisher,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		events:      events,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		tracer:      otel.Tracer("github.com/unibridge/bridge-go-api/internal/service/enrollment"),
		now:         time.Now,
	}
}

// ImportRoster reads a Moodle roster CSV and creates missing students plus one
// enrollment per data row. Students are matched by email, so re-importing the
// same roster never duplicates them; an already enrolled pair counts as
// enrolled without inserting a second document.
func (s *enrollmentService) ImportRoster(ctx context.Context, courseID string, file io.Reader) (dto.EnrollmentImportResult, error) {
	ctx, span := s.tracer.Start(ctx, "enrollment.import_roster",
		trace.WithAttributes(attribute.String("course.id", courseID)))
	defer span.End()

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.EnrollmentImportResult{}, ErrCourseNotFound
		}
		return dto.EnrollmentImportResult{}, err
	}

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return dto.EnrollmentImportResult{}, fmt.Errorf("%w: %v", ErrInvalidCSVFormat, err)
	}

	columns, err := rosterColumns(header)
	if err != nil {
		return dto.EnrollmentImportResult{}, err
	}

	result := dto.EnrollmentImportResult{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dto.EnrollmentImportResult{}, fmt.Errorf("%w: %v", ErrInvalidCSVFormat, err)
		}

		email := strings.TrimSpace(row[columns.email])
		if email == "" || email == missingValueMarker {
			result.RowsSkipped++
			observability.ImportRows().WithLabelValues("roster", "skipped").Inc()
			continue
		}

		student, err := s.lookupOrCreateStudent(ctx, email, row[columns.firstName], row[columns.lastName], &result)
		if err != nil {
			return dto.EnrollmentImportResult{}, err
		}

		enrollment := models.Enrollment{
			StudentID:  student.ID,
			CourseID:   courseID,
			EnrolledAt: s.now().UTC(),
		}
		if err := s.enrollments.Add(ctx, enrollment); err != nil && !errors.Is(err, repository.ErrDuplicateEnrollment) {
			return dto.EnrollmentImportResult{}, err
		}
		result.EnrollmentsCreated++
		observability.ImportRows().WithLabelValues("roster", "enrolled").Inc()
	}

	span.SetAttributes(
		attribute.Int("roster.students_created", result.StudentsCreated),
		attribute.Int("roster.enrollments_created", result.EnrollmentsCreated),
		attribute.Int("roster.rows_skipped", result.RowsSkipped),
	)

	s.logger.Info().
		Str("course_id", courseID).
		Int("students_created", result.StudentsCreated).
		Int("enrollments_created", result.EnrollmentsCreated).
		Int("rows_skipped", result.RowsSkipped).
		Msg("roster import finished")

	if s.events != nil {
		s.events.PublishImportEvent(ImportEvent{
			Kind:               "roster",
			CourseID:           courseID,
			StudentsCreated:    result.StudentsCreated,
			EnrollmentsCreated: result.EnrollmentsCreated,
			RowsSkipped:        result.RowsSkipped,
		})
	}

	return result, nil
}

func (s *enrollmentService) lookupOrCreateStudent(ctx context.Context, email, firstName, lastName string, result *dto.EnrollmentImportResult) (models.Student, error) {
	student, err := s.students.GetByEmail(ctx, email)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.Student{}, err
	}

	created, err := s.students.Create(ctx, models.Student{
		Email: email,
		Name:  strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a race with a concurrent import; the student exists now.
			return s.students.GetByEmail(ctx, email)
		}
		return models.Student{}, err
	}

	result.StudentsCreated++
	observability.ImportRows().WithLabelValues("roster", "student_created").Inc()

	return created, nil
}

func (s *enrollmentService) CoursesForStudent(ctx context.Context, studentID string) ([]string, error) {
	return s.enrollments.CoursesForStudent(ctx, studentID)
}

func (s *enrollmentService) StudentsForCourse(ctx context.Context, courseID string) ([]string, error) {
	return s.enrollments.StudentsForCourse(ctx, courseID)
}

func (s *enrollmentService) Unenroll(ctx context.Context, studentID, courseID string) error {
	removed, err := s.enrollments.Remove(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrEnrollmentNotFound
	}

	return nil
}

type rosterColumnIndexes struct {
	firstName int
	lastName  int
	email     int
}

func rosterColumns(header []string) (rosterColumnIndexes, error) {
	indexes := rosterColumnIndexes{firstName: -1, lastName: -1, email: -1}

	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")) {
		case rosterColumnFirstName:
			indexes.firstName = i
		case rosterColumnLastName:
			indexes.lastName = i
		case rosterColumnEmail:
			indexes.email = i
		}
	}

	if indexes.firstName < 0 || indexes.lastName < 0 || indexes.email < 0 {
		return rosterColumnIndexes{}, fmt.Errorf("%w: missing required roster columns", ErrInvalidCSVFormat)
	}

	return indexes, nil
}
