package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unibridge/bridge-go-api/internal/dto"
	"github.com/unibridge/bridge-go-api/internal/models"
)

const testReconcileCSV = "E-Mail-Adresse,Texteingabe online\nada@example.edu,octocat\n"

func TestReconcileUpdatesStudent(t *testing.T) {
	app, repos := newBridgeApp(t, stubResolver{ids: map[string]int64{"octocat": 583231}})

	_, err := repos.students.Create(context.Background(), models.Student{Email: "ada@example.edu", Name: "Ada Lovelace"})
	require.NoError(t, err)

	resp, err := app.Test(uploadRequest(t, "/api/v1/github/reconcile", "text/csv", testReconcileCSV))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.ReconcileResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &result))
	require.Equal(t, dto.ReconcileResult{StudentsUpdated: 1}, result)

	student, err := repos.students.GetByEmail(context.Background(), "ada@example.edu")
	require.NoError(t, err)
	require.Equal(t, "octocat", student.GithubUsername)
	require.NotNil(t, student.GithubID)
}

func TestReconcileUpstreamFailure(t *testing.T) {
	app, repos := newBridgeApp(t, stubResolver{err: errors.New("rate limited")})

	_, err := repos.students.Create(context.Background(), models.Student{Email: "ada@example.edu"})
	require.NoError(t, err)

	resp, err := app.Test(uploadRequest(t, "/api/v1/github/reconcile", "text/csv", testReconcileCSV))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestReconcileRejectsMissingColumns(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/github/reconcile", "text/csv", "email,username\n"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReconcileRejectsNonCSVUpload(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(uploadRequest(t, "/api/v1/github/reconcile", "application/json", testReconcileCSV))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReconcileMissingFileField(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/github/reconcile", map[string]string{}))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
