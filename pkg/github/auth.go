// Package github talks to the GitHub REST API on behalf of a GitHub App
// installation and resolves usernames to numeric account ids.
package github

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	// DefaultAPIBaseURL is the public GitHub REST endpoint.
	DefaultAPIBaseURL = "https://api.github.com"

	acceptHeader = "application/vnd.github+json"

	// Installation tokens are valid for an hour; refreshing after 55 minutes
	// keeps a margin for clock skew on either side.
	tokenLifetime = 55 * time.Minute

	defaultRefreshMargin = 60 * time.Second
)

// AuthProvider supplies the headers for an outbound GitHub API request.
type AuthProvider interface {
	Headers(ctx context.Context) (http.Header, error)
}

// AnonymousAuth authenticates nothing; requests run against the public rate limit.
type AnonymousAuth struct{}

// Headers returns the Accept header only.
func (AnonymousAuth) Headers(context.Context) (http.Header, error) {
	return acceptHeaders(), nil
}

// AppAuthConfig contains the GitHub App installation credentials.
type AppAuthConfig struct {
	AppID            int64
	InstallationID   int64
	PrivateKeyBase64 string

	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string

	// RefreshMargin forces a refresh when the cached token is this close to
	// its expiry. Zero means the default of 60 seconds.
	RefreshMargin time.Duration

	HTTPClient *http.Client
}

// AppAuth exchanges a signed app assertion for an installation token and
// caches it until it nears expiry. Safe for concurrent use.
type AppAuth struct {
	appID          int64
	installationID int64
	signingKey     *rsa.PrivateKey
	baseURL        string
	refreshMargin  time.Duration
	httpClient     *http.Client
	logger         zerolog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewAppAuth constructs an AppAuth from a base64-encoded PEM private key.
func NewAppAuth(cfg AppAuthConfig, logger zerolog.Logger) (*AppAuth, error) {
	if cfg.AppID == 0 || cfg.InstallationID == 0 || cfg.PrivateKeyBase64 == "" {
		return nil, fmt.Errorf("github app credentials must be provided")
	}

	pemBytes, err := base64.StdEncoding.DecodeString(cfg.PrivateKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode github private key: %w", err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse github private key: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	margin := cfg.RefreshMargin
	if margin <= 0 {
		margin = defaultRefreshMargin
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &AppAuth{
		appID:          cfg.AppID,
		installationID: cfg.InstallationID,
		signingKey:     key,
		baseURL:        baseURL,
		refreshMargin:  margin,
		httpClient:     httpClient,
		logger:         logger.With().Str("component", "github_auth").Logger(),
		now:            time.Now,
	}, nil
}

// Headers returns the Accept and Authorization headers, refreshing the cached
// installation token if needed.
func (a *AppAuth) Headers(ctx context.Context) (http.Header, error) {
	token, err := a.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	headers := acceptHeaders()
	headers.Set("Authorization", "token "+token)
	return headers, nil
}

func (a *AppAuth) ensureToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && a.now().Before(a.expiresAt.Add(-a.refreshMargin)) {
		return a.token, nil
	}

	if err := a.refreshToken(ctx); err != nil {
		return "", err
	}

	return a.token, nil
}

func (a *AppAuth) refreshToken(ctx context.Context) error {
	now := a.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-60 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		Issuer:    strconv.FormatInt(a.appID, 10),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.signingKey)
	if err != nil {
		return fmt.Errorf("failed to sign github app assertion: %w", err)
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", a.baseURL, a.installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header = acceptHeaders()
	req.Header.Set("Authorization", "Bearer "+assertion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("github token exchange returned status %d", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode github token response: %w", err)
	}

	a.token = payload.Token
	a.expiresAt = now.Add(tokenLifetime)

	a.logger.Debug().Time("expires_at", a.expiresAt).Msg("github installation token refreshed")

	return nil
}

func acceptHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Accept", acceptHeader)
	return headers
}
