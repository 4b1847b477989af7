package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
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
	// ErrInvalidJSONFormat indicates a submission upload is not parseable JSON
	// or has an unexpected top-level shape.
	ErrInvalidJSONFormat = errors.New("invalid json format")

	// ErrInvalidSubmission indicates a submission record in an otherwise
	// well-shaped export is missing fields or has an unparsable timestamp.
	ErrInvalidSubmission = errors.New("invalid submission record")

	// ErrSubmissionProblemNotFound indicates no submissions exist for the slug.
	ErrSubmissionProblemNotFound = errors.New("submission problem not found")
)

// SubmissionService imports submit50 exports and serves submission problems.
type SubmissionService interface {
	Import(ctx context.Context, slug string, file io.Reader) (dto.SubmissionUploadResult, error)
	Get(ctx context.Context, slug string) (dto.SubmissionProblemResponse, error)
}

type submissionService struct {
	problems  repository.SubmissionProblemRepository
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	events    ImportEventPublisher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewSubmissionService constructs a SubmissionService instance. The redis
// client is optional; without it every Get hits the repository.
func NewSubmissionService(
	problems repository.SubmissionProblemRepository,
	validate *validator.Validate,
	cache *redis.Client,
	ttl time.Duration,
	events ImportEventPublisher,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		problems:  problems,
		validator: validate,
		cache:     cache,
		cacheTTL:  ttl,
		events:    events,
		logger:    logger.With().Str("component", "submission_service").Logger(),
		tracer:    otel.Tracer("github.com/unibridge/bridge-go-api/internal/service/submission"),
	}
}

// Import parses a submit50 export and replaces the stored submission list for
// the slug. The export is either an object keyed by slug or a bare array. An
// object without the requested slug imports nothing and is not an error.
func (s *submissionService) Import(ctx context.Context, slug string, file io.Reader) (dto.SubmissionUploadResult, error) {
	ctx, span := s.tracer.Start(ctx, "submission.import",
		trace.WithAttributes(attribute.String("problem.slug", slug)))
	defer span.End()

	raw, err := io.ReadAll(file)
	if err != nil {
		return dto.SubmissionUploadResult{}, fmt.Errorf("failed to read upload: %w", err)
	}

	items, found, err := submissionItems(raw, slug)
	if err != nil {
		return dto.SubmissionUploadResult{}, err
	}
	if !found {
		return dto.SubmissionUploadResult{Slug: slug}, nil
	}

	submissions := make([]models.Submission, 0, len(items))
	for _, itemRaw := range items {
		var item dto.SubmissionImportItem
		if err := json.Unmarshal(itemRaw, &item); err != nil {
			return dto.SubmissionUploadResult{}, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		if err := s.validator.Struct(item); err != nil {
			return dto.SubmissionUploadResult{}, err
		}

		submission, err := item.ToModel()
		if err != nil {
			return dto.SubmissionUploadResult{}, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		submissions = append(submissions, submission)
	}

	if err := s.problems.Replace(ctx, slug, submissions); err != nil {
		return dto.SubmissionUploadResult{}, err
	}

	s.invalidateCache(ctx, slug)

	observability.ImportRows().WithLabelValues("submissions", "imported").Add(float64(len(submissions)))
	span.SetAttributes(attribute.Int("submissions.added", len(submissions)))

	s.logger.Info().Str("slug", slug).Int("submissions_added", len(submissions)).Msg("submission import finished")

	if s.events != nil {
		s.events.PublishImportEvent(ImportEvent{
			Kind:             "submissions",
			Slug:             slug,
			SubmissionsAdded: len(submissions),
		})
	}

	return dto.SubmissionUploadResult{Slug: slug, SubmissionsAdded: len(submissions)}, nil
}

// Get returns the submission problem for the slug, read through the cache
// when one is configured.
func (s *submissionService) Get(ctx context.Context, slug string) (dto.SubmissionProblemResponse, error) {
	cacheKey := "cs50:problem:" + slug

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.SubmissionProblemResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("slug", slug).Msg("submission problem cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read submission problem cache")
		}
	}

	problem, err := s.problems.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.SubmissionProblemResponse{}, ErrSubmissionProblemNotFound
		}
		return dto.SubmissionProblemResponse{}, err
	}

	response := dto.NewSubmissionProblemResponse(problem)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store submission problem cache")
			}
		}
	}

	return response, nil
}

func (s *submissionService) invalidateCache(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, "cs50:problem:"+slug).Err(); err != nil {
		s.logger.Warn().Err(err).Str("slug", slug).Msg("failed to invalidate submission problem cache")
	}
}

// submissionItems extracts the raw submission array for the slug. found is
// false when the export is an object that does not mention the slug.
func submissionItems(raw []byte, slug string) (items []json.RawMessage, found bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, ErrInvalidJSONFormat
	}

	switch trimmed[0] {
	case '{':
		var byProblem map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &byProblem); err != nil {
			return nil, false, ErrInvalidJSONFormat
		}
		itemsRaw, ok := byProblem[slug]
		if !ok {
			return nil, false, nil
		}
		if err := json.Unmarshal(itemsRaw, &items); err != nil {
			return nil, false, ErrInvalidJSONFormat
		}
		return items, true, nil
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false, ErrInvalidJSONFormat
		}
		return items, true, nil
	default:
		// Scalars and malformed input alike are unusable exports.
		return nil, false, ErrInvalidJSONFormat
	}
}
