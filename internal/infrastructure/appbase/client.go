// Package appbase is the HTTP client for the backend-as-a-service vendor
// that owns identity sessions and the document database.
package appbase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client handles communication with the Appbase REST API.
//
// A client constructed with an API key acts with admin privileges.
// WithSession derives a client scoped to one user session; session-scoped
// clients never send the admin key.
type Client struct {
	httpClient *http.Client
	endpoint   string
	projectID  string
	apiKey     string
	session    string
}

// NewClient creates an admin client for the given project.
func NewClient(endpoint, projectID, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		endpoint:   endpoint,
		projectID:  projectID,
		apiKey:     apiKey,
	}
}

// WithSession returns a copy of the client authenticated as the session's
// user instead of the admin key.
func (c *Client) WithSession(sessionToken string) *Client {
	derived := *c
	derived.apiKey = ""
	derived.session = sessionToken
	return &derived
}

// Error is a typed error returned by the Appbase API.
type Error struct {
	StatusCode int    `json:"code"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("appbase error (status %d): %s - %s", e.StatusCode, e.Type, e.Message)
}

// IsUnauthorized reports whether err is an Appbase 401 rejection
// (missing, expired or revoked session).
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is an Appbase 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// do executes one API call. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appbase-Project", c.projectID)
	if c.session != "" {
		req.Header.Set("X-Appbase-Session", c.session)
	} else if c.apiKey != "" {
		req.Header.Set("X-Appbase-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Message = string(respBody)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
