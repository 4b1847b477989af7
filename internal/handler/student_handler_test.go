package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unibridge/bridge-go-api/internal/dto"
)

func TestStudentCreateAndList(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/students", dto.StudentCreateRequest{
		Email: "ada@example.edu",
		Name:  "Ada Lovelace",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var students []dto.StudentResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &students))
	require.Len(t, students, 1)
	require.Equal(t, "ada@example.edu", students[0].Email)
}

func TestStudentLookupByEmailQuery(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/students", dto.StudentCreateRequest{Email: "ada@example.edu"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students?email=ada@example.edu", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students?email=unknown@example.edu", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStudentCreateDuplicateEmailConflicts(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/students", dto.StudentCreateRequest{Email: "ada@example.edu"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/v1/students", dto.StudentCreateRequest{Email: "ada@example.edu"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestStudentCreateRejectsInvalidEmail(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/students", dto.StudentCreateRequest{Email: "not-an-email"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStudentGetUnknownID(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students/no-such-id", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
