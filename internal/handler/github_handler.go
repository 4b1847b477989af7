package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/service"
	"github.com/unibridge/bridge-go-api/internal/utils"
)

// GithubHandler manages the GitHub username reconciliation endpoint.
type GithubHandler struct {
	service service.GithubService
	logger  zerolog.Logger
}

// NewGithubHandler builds a github handler instance.
func NewGithubHandler(service service.GithubService, logger zerolog.Logger) *GithubHandler {
	return &GithubHandler{
		service: service,
		logger:  logger.With().Str("component", "github_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GithubHandler) Register(router fiber.Router) {
	router.Post("/reconcile", h.reconcile)
}

func (h *GithubHandler) reconcile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "file field is required")
	}

	if !isCSVUpload(file) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid file type, CSV required")
	}

	reader, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer reader.Close()

	result, err := h.service.ImportUsernames(c.UserContext(), reader)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "github usernames reconciled", result)
}

func (h *GithubHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCSVFormat):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGithubUnavailable):
		logger := requestLogger(h.logger, c)
		logger.Error().Err(err).Msg("github lookup failed")
		return utils.SendError(c, fiber.StatusBadGateway, "github reconciliation failed")
	default:
		logger := requestLogger(h.logger, c)
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
