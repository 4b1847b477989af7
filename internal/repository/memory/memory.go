// Package memory provides map-backed implementations of the repository
// interfaces. They enforce the same uniqueness constraints as the mongo
// indexes and back the service tests and the admin UI's offline mode.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/unibridge/bridge-go-api/internal/models"
	"github.com/unibridge/bridge-go-api/internal/repository"
)

// CourseRepository is an in-memory implementation of repository.CourseRepository.
type CourseRepository struct {
	mu      sync.RWMutex
	courses map[string]models.Course
}

// NewCourseRepository constructs an empty in-memory course repository.
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{courses: make(map[string]models.Course)}
}

// Create inserts the course under a fresh object id.
func (r *CourseRepository) Create(_ context.Context, course models.Course) (models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	course.ID = primitive.NewObjectID()
	if course.ExerciseIDs == nil {
		course.ExerciseIDs = []string{}
	}
	r.courses[course.ID.Hex()] = course

	return course, nil
}

// GetByID returns the course or repository.ErrNotFound.
func (r *CourseRepository) GetByID(_ context.Context, id string) (models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	course, ok := r.courses[id]
	if !ok {
		return models.Course{}, repository.ErrNotFound
	}

	return course, nil
}

// GetAll returns every stored course in no particular order.
func (r *CourseRepository) GetAll(_ context.Context) ([]models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]models.Course, 0, len(r.courses))
	for _, course := range r.courses {
		courses = append(courses, course)
	}

	return courses, nil
}

// Update replaces the course by id, never creating one.
func (r *CourseRepository) Update(_ context.Context, id string, course models.Course) (models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.courses[id]
	if !ok {
		return models.Course{}, repository.ErrNotFound
	}

	course.ID = existing.ID
	if course.ExerciseIDs == nil {
		course.ExerciseIDs = []string{}
	}
	r.courses[id] = course

	return course, nil
}

// Delete removes the course, reporting whether anything was removed.
func (r *CourseRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[id]; !ok {
		return false, nil
	}
	delete(r.courses, id)

	return true, nil
}

// StudentRepository is an in-memory implementation of repository.StudentRepository.
type StudentRepository struct {
	mu       sync.RWMutex
	students map[string]models.Student
}

// NewStudentRepository constructs an empty in-memory student repository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{students: make(map[string]models.Student)}
}

// Create inserts the student, rejecting duplicate emails like the unique index does.
func (r *StudentRepository) Create(_ context.Context, student models.Student) (models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.students {
		if existing.Email == student.Email {
			return models.Student{}, repository.ErrDuplicateEmail
		}
	}

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	r.students[student.ID] = student

	return student, nil
}

// GetByID returns the student or repository.ErrNotFound.
func (r *StudentRepository) GetByID(_ context.Context, id string) (models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	student, ok := r.students[id]
	if !ok {
		return models.Student{}, repository.ErrNotFound
	}

	return student, nil
}

// GetByEmail returns the student with the exact email or repository.ErrNotFound.
func (r *StudentRepository) GetByEmail(_ context.Context, email string) (models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, student := range r.students {
		if student.Email == email {
			return student, nil
		}
	}

	return models.Student{}, repository.ErrNotFound
}

// GetAll returns every stored student in no particular order.
func (r *StudentRepository) GetAll(_ context.Context) ([]models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	students := make([]models.Student, 0, len(r.students))
	for _, student := range r.students {
		students = append(students, student)
	}

	return students, nil
}

// Update replaces the student by id, never creating one.
func (r *StudentRepository) Update(_ context.Context, id string, student models.Student) (models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.students[id]
	if !ok {
		return models.Student{}, repository.ErrNotFound
	}

	for otherID, existing := range r.students {
		if otherID != id && existing.Email == student.Email {
			return models.Student{}, repository.ErrDuplicateEmail
		}
	}

	student.ID = current.ID
	r.students[id] = student

	return student, nil
}

// Delete removes the student, reporting whether anything was removed.
func (r *StudentRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return false, nil
	}
	delete(r.students, id)

	return true, nil
}

type enrollmentKey struct {
	studentID string
	courseID  string
}

// EnrollmentRepository is an in-memory implementation of repository.EnrollmentRepository.
type EnrollmentRepository struct {
	mu          sync.RWMutex
	enrollments map[enrollmentKey]models.Enrollment
}

// NewEnrollmentRepository constructs an empty in-memory enrollment repository.
func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{enrollments: make(map[enrollmentKey]models.Enrollment)}
}

// Add inserts the enrollment, rejecting a duplicate (student, course) pair.
func (r *EnrollmentRepository) Add(_ context.Context, enrollment models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.add(enrollment)
}

// AddBulk inserts the enrollments; an empty slice is a no-op.
func (r *EnrollmentRepository) AddBulk(_ context.Context, enrollments []models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, enrollment := range enrollments {
		if err := r.add(enrollment); err != nil {
			return err
		}
	}

	return nil
}

func (r *EnrollmentRepository) add(enrollment models.Enrollment) error {
	key := enrollmentKey{studentID: enrollment.StudentID, courseID: enrollment.CourseID}
	if _, ok := r.enrollments[key]; ok {
		return repository.ErrDuplicateEnrollment
	}

	if enrollment.ID.IsZero() {
		enrollment.ID = primitive.NewObjectID()
	}
	r.enrollments[key] = enrollment

	return nil
}

// CoursesForStudent lists the course ids the student is enrolled in.
func (r *EnrollmentRepository) CoursesForStudent(_ context.Context, studentID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := []string{}
	for key := range r.enrollments {
		if key.studentID == studentID {
			courses = append(courses, key.courseID)
		}
	}

	return courses, nil
}

// StudentsForCourse lists the student ids enrolled in the course.
func (r *EnrollmentRepository) StudentsForCourse(_ context.Context, courseID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	students := []string{}
	for key := range r.enrollments {
		if key.courseID == courseID {
			students = append(students, key.studentID)
		}
	}

	return students, nil
}

// Remove deletes the enrollment pair, reporting whether anything was removed.
func (r *EnrollmentRepository) Remove(_ context.Context, studentID, courseID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := enrollmentKey{studentID: studentID, courseID: courseID}
	if _, ok := r.enrollments[key]; !ok {
		return false, nil
	}
	delete(r.enrollments, key)

	return true, nil
}

// Len reports the number of stored enrollments.
func (r *EnrollmentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.enrollments)
}

// SubmissionProblemRepository is an in-memory implementation of
// repository.SubmissionProblemRepository.
type SubmissionProblemRepository struct {
	mu       sync.RWMutex
	problems map[string]models.SubmissionProblem
}

// NewSubmissionProblemRepository constructs an empty in-memory submission problem repository.
func NewSubmissionProblemRepository() *SubmissionProblemRepository {
	return &SubmissionProblemRepository{problems: make(map[string]models.SubmissionProblem)}
}

// Replace upserts the submission list for the slug.
func (r *SubmissionProblemRepository) Replace(_ context.Context, slug string, submissions []models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if submissions == nil {
		submissions = []models.Submission{}
	}

	problem, ok := r.problems[slug]
	if !ok {
		problem = models.SubmissionProblem{ID: uuid.NewString(), Slug: slug}
	}
	problem.Submissions = submissions
	r.problems[slug] = problem

	return nil
}

// GetBySlug returns the problem for the slug or repository.ErrNotFound.
func (r *SubmissionProblemRepository) GetBySlug(_ context.Context, slug string) (models.SubmissionProblem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	problem, ok := r.problems[slug]
	if !ok {
		return models.SubmissionProblem{}, repository.ErrNotFound
	}

	return problem, nil
}
