package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unibridge/bridge-go-api/internal/dto"
	"github.com/unibridge/bridge-go-api/internal/models"
)

const testRoster = "Vorname,Nachname,E-Mail-Adresse\nAda,Lovelace,ada@example.edu\n"

func createTestCourse(t *testing.T, repos testRepos) string {
	t.Helper()

	course, err := repos.courses.Create(context.Background(), models.Course{Name: "Programming 1"})
	require.NoError(t, err)

	return course.ID.Hex()
}

func TestRosterImport(t *testing.T) {
	app, repos := newBridgeApp(t, nil)
	courseID := createTestCourse(t, repos)

	resp, err := app.Test(uploadRequest(t, "/api/v1/enroll/"+courseID, "text/csv", testRoster))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.EnrollmentImportResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &result))
	require.Equal(t, dto.EnrollmentImportResult{StudentsCreated: 1, EnrollmentsCreated: 1}, result)
}

func TestRosterImportAcceptsExcelContentType(t *testing.T) {
	app, repos := newBridgeApp(t, nil)
	courseID := createTestCourse(t, repos)

	resp, err := app.Test(uploadRequest(t, "/api/v1/enroll/"+courseID, "application/vnd.ms-excel", testRoster))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRosterImportUnknownCourse(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/enroll/64b000000000000000000000", "text/csv", testRoster))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRosterImportRejectsNonCSVContentType(t *testing.T) {
	app, repos := newBridgeApp(t, nil)
	courseID := createTestCourse(t, repos)

	resp, err := app.Test(uploadRequest(t, "/api/v1/enroll/"+courseID, "application/pdf", testRoster))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRosterImportMissingFileField(t *testing.T) {
	app, repos := newBridgeApp(t, nil)
	courseID := createTestCourse(t, repos)

	req := jsonRequest(t, http.MethodPost, "/api/v1/enroll/"+courseID, map[string]string{})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRosterImportRejectsMissingColumns(t *testing.T) {
	app, repos := newBridgeApp(t, nil)
	courseID := createTestCourse(t, repos)

	resp, err := app.Test(uploadRequest(t, "/api/v1/enroll/"+courseID, "text/csv", "first,last,mail\n"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRosterImportKeepsCourseIDAfterLaterRequests(t *testing.T) {
	app, repos := newBridgeApp(t, nil)
	courseID := createTestCourse(t, repos)

	resp, err := app.Test(uploadRequest(t, "/api/v1/enroll/"+courseID, "text/csv", testRoster))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Later requests reuse the server's request buffers; the stored
	// enrollment must hold its own copy of the course id.
	for i := 0; i < 3; i++ {
		resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/courses/64b999999999999999999999", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	student, err := repos.students.GetByEmail(context.Background(), "ada@example.edu")
	require.NoError(t, err)

	courses, err := repos.enrollments.CoursesForStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, []string{courseID}, courses)
}

func TestUnenrollAndLookups(t *testing.T) {
	app, repos := newBridgeApp(t, nil)
	courseID := createTestCourse(t, repos)

	resp, err := app.Test(uploadRequest(t, "/api/v1/enroll/"+courseID, "text/csv", testRoster))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	student, err := repos.students.GetByEmail(context.Background(), "ada@example.edu")
	require.NoError(t, err)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/enroll/courses/"+courseID, nil))
	require.NoError(t, err)
	var students []string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &students))
	require.Equal(t, []string{student.ID}, students)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/v1/enroll/"+courseID+"/"+student.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/v1/enroll/"+courseID+"/"+student.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
