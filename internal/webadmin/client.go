// Package webadmin serves a small course administration UI on top of the
// bridge REST API.
package webadmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/dto"
	"github.com/unibridge/bridge-go-api/internal/service"
)

// CourseDirectory is the admin UI's view of the course catalogue.
type CourseDirectory interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Create(ctx context.Context, req dto.CourseCreateRequest) (dto.CourseResponse, error)
}

type restDirectory struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewRESTDirectory returns a CourseDirectory backed by the bridge REST API at
// baseURL (for example http://localhost:8080).
func NewRESTDirectory(baseURL string, httpClient *http.Client, logger zerolog.Logger) CourseDirectory {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &restDirectory{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "admin_rest_client").Logger(),
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (d *restDirectory) List(ctx context.Context) ([]dto.CourseResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/api/v1/courses", nil)
	if err != nil {
		return nil, err
	}

	var courses []dto.CourseResponse
	if err := d.do(req, &courses); err != nil {
		return nil, err
	}

	return courses, nil
}

func (d *restDirectory) Create(ctx context.Context, createReq dto.CourseCreateRequest) (dto.CourseResponse, error) {
	body, err := json.Marshal(createReq)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/v1/courses", bytes.NewReader(body))
	if err != nil {
		return dto.CourseResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var course dto.CourseResponse
	if err := d.do(req, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	return course, nil
}

func (d *restDirectory) do(req *http.Request, out any) error {
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bridge api request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode bridge api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !envelope.Success {
		return fmt.Errorf("bridge api returned status %d: %s", resp.StatusCode, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode bridge api payload: %w", err)
		}
	}

	return nil
}

type serviceDirectory struct {
	courses service.CourseService
}

// NewServiceDirectory returns a CourseDirectory that talks to a course service
// directly, used for the offline mock mode.
func NewServiceDirectory(courses service.CourseService) CourseDirectory {
	return &serviceDirectory{courses: courses}
}

func (d *serviceDirectory) List(ctx context.Context) ([]dto.CourseResponse, error) {
	return d.courses.List(ctx)
}

func (d *serviceDirectory) Create(ctx context.Context, req dto.CourseCreateRequest) (dto.CourseResponse, error) {
	return d.courses.Create(ctx, req)
}
