package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/service"
	"github.com/unibridge/bridge-go-api/internal/utils"
)

// SubmissionHandler manages submit50 import and lookup endpoints. Slugs
// contain slashes ("cs50/problems/2024/x/hello"), so the routes use
// wildcard segments.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/*/import", h.importSubmissions)
	router.Get("/*", h.get)
}

func (h *SubmissionHandler) importSubmissions(c *fiber.Ctx) error {
	// Import stores the slug in the problem record, so detach it from
	// fiber's reusable request buffer before handing it over.
	slug := fiberutils.CopyString(strings.Trim(c.Params("*"), "/"))
	if slug == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "slug is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "file field is required")
	}

	if !isJSONUpload(file) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid file type, JSON required")
	}

	reader, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer reader.Close()

	result, err := h.service.Import(c.UserContext(), slug, reader)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions imported", result)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	slug := strings.Trim(c.Params("*"), "/")
	if slug == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "slug is required")
	}

	problem, err := h.service.Get(c.UserContext(), slug)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission problem retrieved", problem)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSubmissionProblemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission problem not found")
	case errors.Is(err, service.ErrInvalidJSONFormat):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid JSON format")
	case errors.Is(err, service.ErrInvalidSubmission):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		logger := requestLogger(h.logger, c)
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
