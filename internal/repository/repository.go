package repository

import "errors"

// Sentinel errors surfaced by the repositories. Services translate these into
// their own error vocabulary; handlers map that onto HTTP statuses.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail indicates a student insert violated the unique email index.
	ErrDuplicateEmail = errors.New("student email already exists")

	// ErrDuplicateEnrollment indicates an enrollment insert violated the unique
	// (student_id, course_id) index.
	ErrDuplicateEnrollment = errors.New("enrollment already exists")
)
