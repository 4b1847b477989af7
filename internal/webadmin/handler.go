package webadmin

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/dto"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Handler serves the course administration pages.
type Handler struct {
	directory CourseDirectory
	templates *template.Template
	logger    zerolog.Logger
}

// NewHandler constructs the admin page handler.
func NewHandler(directory CourseDirectory, logger zerolog.Logger) (*Handler, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	return &Handler{
		directory: directory,
		templates: templates,
		logger:    logger.With().Str("component", "webadmin").Logger(),
	}, nil
}

// Register wires the admin routes into the fiber application.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.coursesPage)
	app.Post("/courses", h.createCourse)
}

type coursesPageData struct {
	Courses []dto.CourseResponse
	Error   string
}

func (h *Handler) coursesPage(c *fiber.Ctx) error {
	data := coursesPageData{
		Error: c.Query("error"),
	}

	courses, err := h.directory.List(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list courses")
		data.Error = "failed to load courses"
	} else {
		data.Courses = courses
	}

	return h.render(c, "courses.html.tmpl", data)
}

func (h *Handler) createCourse(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.Redirect("/?error=course+name+is+required")
	}

	req := dto.CourseCreateRequest{Name: name}

	if raw := strings.TrimSpace(c.FormValue("cs50_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Redirect("/?error=cs50+course+id+must+be+numeric")
		}
		req.CS50ID = &id
	}

	if _, err := h.directory.Create(c.UserContext(), req); err != nil {
		h.logger.Error().Err(err).Str("name", name).Msg("failed to create course")
		return c.Redirect("/?error=failed+to+create+course")
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *Handler) render(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("failed to render template")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
