package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unibridge/bridge-go-api/internal/dto"
)

const testExport = `[{
	"archive": "https://github.com/org/checks/archive/main.zip",
	"checks_passed": 5,
	"checks_run": 6,
	"github_id": 583231,
	"github_url": "https://github.com/octocat/problem",
	"github_username": "octocat",
	"name": "Ada Lovelace",
	"slug": "cs50/problems/2024/x/credit",
	"timestamp": "2024-10-02T14:00:00Z"
}]`

func TestSubmissionImportWithSlashSlug(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/cs50/submissions/cs50/problems/2024/x/credit/import", "application/json", testExport))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.SubmissionUploadResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &result))
	require.Equal(t, "cs50/problems/2024/x/credit", result.Slug)
	require.Equal(t, 1, result.SubmissionsAdded)
}

func TestSubmissionImportAcceptsOctetStreamJSON(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/cs50/submissions/cs50/credit/import", "application/octet-stream", testExport))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubmissionImportRejectsNonJSONContentType(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/cs50/submissions/cs50/credit/import", "text/csv", testExport))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmissionImportRejectsMalformedJSON(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/cs50/submissions/cs50/credit/import", "application/json", "{broken"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid JSON format", decodeEnvelope(t, resp).Message)
}

func TestSubmissionImportMissingFileField(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/cs50/submissions/cs50/credit/import", map[string]string{}))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmissionImportKeepsSlugAfterLaterRequests(t *testing.T) {
	app, repos := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/cs50/submissions/cs50/problems/2024/x/credit/import", "application/json", testExport))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Later requests reuse the server's request buffers; the stored
	// problem must hold its own copy of the slug.
	for i := 0; i < 3; i++ {
		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cs50/submissions/some/other/very/long/slug/path", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	problem, err := repos.problems.GetBySlug(context.Background(), "cs50/problems/2024/x/credit")
	require.NoError(t, err)
	require.Equal(t, "cs50/problems/2024/x/credit", problem.Slug)
}

func TestSubmissionGet(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/cs50/submissions/cs50/problems/2024/x/credit/import", "application/json", testExport))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cs50/submissions/cs50/problems/2024/x/credit", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var problem dto.SubmissionProblemResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &problem))
	require.Equal(t, "cs50/problems/2024/x/credit", problem.Slug)
	require.Len(t, problem.Submissions, 1)
}

func TestSubmissionGetMissingSlug(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cs50/submissions/unknown/slug", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
