package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/common"
	"github.com/dmitrijs2005/menuup/internal/logging"
	"github.com/google/uuid"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (tests use the one
// from httptest.Server).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

// NewHTTPClient builds a client for the backend at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{},
		timeout: timeout,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "senha": password}

	var res LoginResult
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, body, &res); err != nil {
		return nil, err
	}
	if res.Token == "" || !res.User.Valid() {
		return nil, fmt.Errorf("%w: login response without token or user", ErrMalformedResponse)
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"nome": name, "email": email, "senha": password}

	var res struct {
		Success bool `json:"success"`
	}
	status, err := c.do(ctx, http.MethodPost, "/auth/register", "", nil, body, &res)
	if err != nil {
		return err
	}
	if status != http.StatusCreated && !res.Success {
		return fmt.Errorf("%w: registration not confirmed (status %d)", ErrBadRequest, status)
	}
	return nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil, nil)
	return err
}

func (c *HTTPClient) ValidateToken(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodGet, "/auth/validate-token", token, nil, nil, nil)
	return err
}

func (c *HTTPClient) ChangePassword(ctx context.Context, token string, change models.PasswordChange) error {
	_, err := c.do(ctx, http.MethodPatch, "/auth/change-password", token, nil, change, nil)
	return err
}

func (c *HTTPClient) ListPublicRecipes(ctx context.Context, token string, filter RecipeFilter) ([]models.RecipeSummary, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Type != "" {
		q.Set("type", string(filter.Type))
	}

	var out []models.RecipeSummary
	if _, err := c.do(ctx, http.MethodGet, "/receitas/publicas", token, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetRecipe(ctx context.Context, token string, id int64) (*models.Recipe, error) {
	var out models.Recipe
	if _, err := c.do(ctx, http.MethodGet, "/receitas/"+strconv.FormatInt(id, 10), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, token string, recipe models.NewRecipe) (*models.Recipe, error) {
	var out models.Recipe
	if _, err := c.do(ctx, http.MethodPost, "/receitas/create", token, nil, recipe, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one JSON round trip. out may be nil; an empty 2xx body leaves
// out untouched. The returned status is 0 when no response arrived.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, query url.Values, body, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, mapStatus(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.StatusCode, nil
}

func mapStatus(resp *http.Response) error {
	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		sentinel = ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		sentinel = ErrNotFound
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusUnprocessableEntity:
		sentinel = ErrBadRequest
	case resp.StatusCode >= 500:
		sentinel = ErrUnavailable
	default:
		sentinel = fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if msg := errorMessage(resp.Body); msg != "" {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	return sentinel
}

// errorMessage extracts {"message": ...} or {"error": ...}. The backend
// sometimes sends message as an array of validation messages; the first
// one is used.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Message, &s); err == nil && s != "" {
		return s
	}
	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return body.Error
}
