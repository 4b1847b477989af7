package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unibridge/bridge-go-api/internal/dto"
	"github.com/unibridge/bridge-go-api/internal/observability"
	"github.com/unibridge/bridge-go-api/internal/repository"
)

// ErrGithubUnavailable indicates the GitHub lookup failed for a reason other
// than the username not existing.
var ErrGithubUnavailable = errors.New("github lookup failed")

// Column headers of a Moodle text-submission export used for reconciliation.
const (
	reconcileColumnEmail    = "E-Mail-Adresse"
	reconcileColumnUsername = "Texteingabe online"
)

// GithubUserResolver maps a free-text username to a numeric GitHub account id.
// found is false when no such account exists.
type GithubUserResolver interface {
	UserID(ctx context.Context, username string) (id int64, found bool, err error)
}

// GithubService backfills verified GitHub ids onto students from a
// reconciliation CSV.
type GithubService interface {
	ImportUsernames(ctx context.Context, file io.Reader) (dto.ReconcileResult, error)
}

type githubService struct {
	students repository.StudentRepository
	resolver GithubUserResolver
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewGithubService constructs a GithubService instance.
func NewGithubService(students repository.StudentRepository, resolver GithubUserResolver, logger zerolog.Logger) GithubService {
	return &githubService{
		students: students,
		resolver: resolver,
		logger:   logger.With().Str("component", "github_service").Logger(),
		tracer:   otel.Tracer("github.com/unibridge/bridge-go-api/internal/service/github"),
	}
}

// ImportUsernames walks the CSV and, for each row naming a known student with
// a changed username, resolves the username to an account id and stores both.
// A username the resolver cannot find leaves the student untouched: storing an
// unverified name would silently replace a previously correct one.
func (s *githubService) ImportUsernames(ctx context.Context, file io.Reader) (dto.ReconcileResult, error) {
	ctx, span := s.tracer.Start(ctx, "github.import_usernames")
	defer span.End()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return dto.ReconcileResult{}, fmt.Errorf("%w: %v", ErrInvalidCSVFormat, err)
	}

	emailIdx, usernameIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")) {
		case reconcileColumnEmail:
			emailIdx = i
		case reconcileColumnUsername:
			usernameIdx = i
		}
	}
	if emailIdx < 0 || usernameIdx < 0 {
		return dto.ReconcileResult{}, fmt.Errorf("%w: missing required reconciliation columns", ErrInvalidCSVFormat)
	}

	result := dto.ReconcileResult{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dto.ReconcileResult{}, fmt.Errorf("%w: %v", ErrInvalidCSVFormat, err)
		}

		email := strings.TrimSpace(row[emailIdx])
		username := strings.TrimSpace(row[usernameIdx])

		if email == "" || email == missingValueMarker || username == "" || username == missingValueMarker {
			result.RowsSkipped++
			continue
		}

		student, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Unknown students are ignored, not an error.
				result.RowsSkipped++
				continue
			}
			return dto.ReconcileResult{}, err
		}

		if student.GithubUsername == username {
			result.RowsSkipped++
			continue
		}

		id, found, err := s.resolver.UserID(ctx, username)
		if err != nil {
			observability.GithubLookups().WithLabelValues("error").Inc()
			return dto.ReconcileResult{}, fmt.Errorf("%w for %q: %v", ErrGithubUnavailable, username, err)
		}
		observability.GithubLookups().WithLabelValues(lookupOutcome(found)).Inc()
		if !found {
			s.logger.Warn().Str("email", email).Str("github_username", username).Msg("github username not found, keeping stored value")
			result.Unresolved++
			observability.ImportRows().WithLabelValues("reconcile", "unresolved").Inc()
			continue
		}

		student.GithubID = &id
		student.GithubUsername = username

		if _, err := s.students.Update(ctx, student.ID, student); err != nil {
			return dto.ReconcileResult{}, err
		}
		result.StudentsUpdated++
		observability.ImportRows().WithLabelValues("reconcile", "updated").Inc()
	}

	span.SetAttributes(
		attribute.Int("reconcile.students_updated", result.StudentsUpdated),
		attribute.Int("reconcile.rows_skipped", result.RowsSkipped),
		attribute.Int("reconcile.unresolved", result.Unresolved),
	)

	s.logger.Info().
		Int("students_updated", result.StudentsUpdated).
		Int("rows_skipped", result.RowsSkipped).
		Int("unresolved", result.Unresolved).
		Msg("github reconciliation finished")

	return result, nil
}

func lookupOutcome(found bool) string {
	if found {
		return "found"
	}
	return "not_found"
}
