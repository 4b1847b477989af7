package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unibridge/bridge-go-api/internal/dto"
)

func TestCourseCreateAndGet(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/courses", dto.CourseCreateRequest{Name: "Programming 1"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)

	var created dto.CourseResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &created))
	require.NotEmpty(t, created.ID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/"+created.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched dto.CourseResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &fetched))
	require.Equal(t, created, fetched)
}

func TestCourseCreateRejectsMissingName(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/courses", dto.CourseCreateRequest{}))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, decodeEnvelope(t, resp).Success)
}

func TestCourseGetUnknownID(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/not-a-hex-id", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCourseUpdateUnknownID(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	name := "renamed"
	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/v1/courses/64b000000000000000000000", dto.CourseUpdateRequest{Name: &name}))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCourseDelete(t *testing.T) {
	app, _ := newBridgeApp(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/courses", dto.CourseCreateRequest{Name: "Programming 1"}))
	require.NoError(t, err)

	var created dto.CourseResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &created))

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/courses/"+created.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/courses/"+created.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
