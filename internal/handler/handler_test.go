package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/unibridge/bridge-go-api/internal/repository/memory"
	"github.com/unibridge/bridge-go-api/internal/service"
)

type testRepos struct {
	courses     *memory.CourseRepository
	students    *memory.StudentRepository
	enrollments *memory.EnrollmentRepository
	problems    *memory.SubmissionProblemRepository
}

type stubResolver struct {
	ids map[string]int64
	err error
}

func (r stubResolver) UserID(_ context.Context, username string) (int64, bool, error) {
	if r.err != nil {
		return 0, false, r.err
	}
	id, ok := r.ids[username]
	return id, ok, nil
}

func newBridgeApp(t *testing.T, resolver service.GithubUserResolver) (*fiber.App, testRepos) {
	t.Helper()

	repos := testRepos{
		courses:     memory.NewCourseRepository(),
		students:    memory.NewStudentRepository(),
		enrollments: memory.NewEnrollmentRepository(),
		problems:    memory.NewSubmissionProblemRepository(),
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()

	if resolver == nil {
		resolver = stubResolver{}
	}

	courseService := service.NewCourseService(repos.courses, validate, logger)
	studentService := service.NewStudentService(repos.students, validate, logger)
	enrollmentService := service.NewEnrollmentService(repos.students, repos.courses, repos.enrollments, nil, logger)
	submissionService := service.NewSubmissionService(repos.problems, validate, nil, time.Minute, nil, logger)
	githubService := service.NewGithubService(repos.students, resolver, logger)

	app := fiber.New()
	api := app.Group("/api/v1")

	NewCourseHandler(courseService, logger).Register(api.Group("/courses"))
	NewStudentHandler(studentService, logger).Register(api.Group("/students"))
	NewEnrollmentHandler(enrollmentService, logger).Register(api.Group("/enroll"))
	NewSubmissionHandler(submissionService, logger).Register(api.Group("/cs50/submissions"))
	NewGithubHandler(githubService, logger).Register(api.Group("/github"))

	return app, repos
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) apiEnvelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope apiEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope), "body: %s", body)

	return envelope
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	return req
}

func uploadRequest(t *testing.T, target, contentType, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="upload"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, target, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}
