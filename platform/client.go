package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/makerhub/project-editor-backend/errs"
	"github.com/makerhub/project-editor-backend/models"
	"github.com/makerhub/project-editor-backend/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client talks to the platform REST API that owns project persistence.
// Every call forwards the caller's bearer token unchanged.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds a client for the given API base URL (e.g.
// "https://api.example.com/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     log.With().Str("component", "platformClient").Logger(),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// FetchProject retrieves the full project record with resolved sub-entities.
func (c *Client) FetchProject(ctx context.Context, token string, id int64) (*ProjectRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/", id), token, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewRemoteUnavailableError(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform API response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.NewNotFoundError(fmt.Sprintf("project %d not found", id))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp.StatusCode, bodyBytes)
	}

	var record ProjectRecord
	if err := json.Unmarshal(bodyBytes, &record); err != nil {
		return nil, fmt.Errorf("failed to parse project record: %w", err)
	}
	return &record, nil
}

// FetchCategories retrieves the category list. Both a bare array and a
// paginated {"results": [...]} envelope are accepted.
func (c *Client) FetchCategories(ctx context.Context, token string) ([]models.Category, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/categories/", token, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewRemoteUnavailableError(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp.StatusCode, bodyBytes)
	}

	var categories []models.Category
	if err := json.Unmarshal(bodyBytes, &categories); err == nil {
		return categories, nil
	}
	var page categoryPage
	if err := json.Unmarshal(bodyBytes, &page); err != nil {
		return nil, fmt.Errorf("failed to parse category list: %w", err)
	}
	return page.Results, nil
}

// CreateProject submits a new project as a multipart body and returns the
// identifier the platform assigned.
func (c *Client) CreateProject(ctx context.Context, token string, ps transport.ParameterSet) (int64, error) {
	return c.submit(ctx, http.MethodPost, "/projects/", token, ps)
}

// UpdateProject rewrites an existing project in place.
func (c *Client) UpdateProject(ctx context.Context, token string, id int64, ps transport.ParameterSet) (int64, error) {
	return c.submit(ctx, http.MethodPut, fmt.Sprintf("/projects/%d/", id), token, ps)
}

func (c *Client) submit(ctx context.Context, method, path, token string, ps transport.ParameterSet) (int64, error) {
	body, contentType, err := transport.EncodeMultipart(ps)
	if err != nil {
		return 0, err
	}

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errs.NewRemoteUnavailableError(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read platform API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return 0, remoteError(resp.StatusCode, bodyBytes)
	}

	// Some deployments answer an accepted update with an empty body; the
	// caller falls back to the identifier it already knows.
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return 0, nil
	}

	var parsed saveResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse save response: %w", err)
	}

	c.logger.Info().
		Str("method", method).
		Int64("projectId", parsed.ID).
		Msg("Project submitted to platform API")

	return parsed.ID, nil
}

// DeleteProject removes a project from the platform.
func (c *Client) DeleteProject(ctx context.Context, token string, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d/", id), token, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewRemoteUnavailableError(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read platform API response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return errs.NewNotFoundError(fmt.Sprintf("project %d not found", id))
	default:
		return remoteError(resp.StatusCode, bodyBytes)
	}
}

// remoteError decodes an error response body. A 4xx body of the form
// {"field": ["message", ...], ...} is mapped to per-field messages; anything
// else becomes a generic remote failure.
func remoteError(statusCode int, body []byte) error {
	if statusCode >= 400 && statusCode < 500 {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(body, &raw); err == nil && len(raw) > 0 {
			fields := make(map[string]string, len(raw))
			for field, value := range raw {
				fields[field] = firstMessage(value)
			}
			return &errs.RemoteValidationError{StatusCode: statusCode, Fields: fields}
		}
	}
	return fmt.Errorf("platform API error (status %d): %s", statusCode, strings.TrimSpace(string(body)))
}

// firstMessage extracts a displayable message from a DRF-style error value,
// which may be a string or a list of strings.
func firstMessage(value json.RawMessage) string {
	var single string
	if err := json.Unmarshal(value, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(value, &many); err == nil && len(many) > 0 {
		return many[0]
	}
	return strings.TrimSpace(string(value))
}
