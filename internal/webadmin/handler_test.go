package webadmin

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/unibridge/bridge-go-api/internal/dto"
	"github.com/unibridge/bridge-go-api/internal/repository/memory"
	"github.com/unibridge/bridge-go-api/internal/service"
)

func newTestApp(t *testing.T) (*fiber.App, CourseDirectory) {
	t.Helper()

	courses := service.NewCourseService(
		memory.NewCourseRepository(),
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
	directory := NewServiceDirectory(courses)

	handler, err := NewHandler(directory, zerolog.Nop())
	require.NoError(t, err)

	app := fiber.New()
	handler.Register(app)

	return app, directory
}

func TestCoursesPageListsCourses(t *testing.T) {
	app, directory := newTestApp(t)

	_, err := directory.Create(context.Background(), dto.CourseCreateRequest{Name: "Programming 1"})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Programming 1")
}

func TestCreateCourseFormRedirects(t *testing.T) {
	app, directory := newTestApp(t)

	form := url.Values{}
	form.Set("name", "Programming 2")
	form.Set("cs50_id", "99")

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	courses, err := directory.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "Programming 2", courses[0].Name)
	require.NotNil(t, courses[0].CS50ID)
	require.Equal(t, int64(99), *courses[0].CS50ID)
}

func TestCreateCourseRejectsEmptyName(t *testing.T) {
	app, directory := newTestApp(t)

	form := url.Values{}
	form.Set("name", "   ")

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	courses, err := directory.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, courses)
}

func TestRESTDirectoryParsesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/courses", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"message":"success","data":[{"id":"abc","name":"Programming 1","exercise_ids":[]}]}`))
	}))
	defer server.Close()

	directory := NewRESTDirectory(server.URL, nil, zerolog.Nop())

	courses, err := directory.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "Programming 1", courses[0].Name)
}

func TestRESTDirectorySurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"course name is required"}`))
	}))
	defer server.Close()

	directory := NewRESTDirectory(server.URL, nil, zerolog.Nop())

	_, err := directory.Create(context.Background(), dto.CourseCreateRequest{})
	require.ErrorContains(t, err, "course name is required")
}
