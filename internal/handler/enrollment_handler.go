package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/service"
	"github.com/unibridge/bridge-go-api/internal/utils"
)

// EnrollmentHandler manages roster imports and enrollment lookups.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler builds an enrollment handler instance.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("/:course_id", h.importRoster)
	router.Delete("/:course_id/:student_id", h.unenroll)
	router.Get("/courses/:course_id", h.studentsForCourse)
	router.Get("/students/:student_id", h.coursesForStudent)
}

func (h *EnrollmentHandler) importRoster(c *fiber.Ctx) error {
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

	// ImportRoster stores the course id in enrollment records, so detach it
	// from fiber's reusable request buffer before handing it over.
	courseID := fiberutils.CopyString(c.Params("course_id"))

	result, err := h.service.ImportRoster(c.UserContext(), courseID, reader)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "roster imported", result)
}

func (h *EnrollmentHandler) unenroll(c *fiber.Ctx) error {
	err := h.service.Unenroll(c.UserContext(), c.Params("student_id"), c.Params("course_id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "enrollment removed", nil)
}

func (h *EnrollmentHandler) studentsForCourse(c *fiber.Ctx) error {
	students, err := h.service.StudentsForCourse(c.UserContext(), c.Params("course_id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *EnrollmentHandler) coursesForStudent(c *fiber.Ctx) error {
	courses, err := h.service.CoursesForStudent(c.UserContext(), c.Params("student_id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *EnrollmentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course does not exist")
	case errors.Is(err, service.ErrEnrollmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "enrollment not found")
	case errors.Is(err, service.ErrInvalidCSVFormat):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		logger := requestLogger(h.logger, c)
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
