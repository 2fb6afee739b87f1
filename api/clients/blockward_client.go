package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/blockward/blockward-backend/api"
	"github.com/blockward/blockward-backend/interfaces"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       api.ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Body.Details != "" {
		return fmt.Sprintf("server returned %d: %s: %s", e.StatusCode, e.Body.Error, e.Body.Details)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body.Error)
}

// BlockWardClient calls a BlockWard API server.
type BlockWardClient struct {
	// ServerAddr is the base URL of the server.
	ServerAddr string

	// Token is the issuer JWT sent as a bearer token.
	Token string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Health runs the chain health check.
func (c *BlockWardClient) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health/chain", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Issue mints a BlockWard. A non-empty idempotencyKey makes retries safe.
func (c *BlockWardClient) Issue(ctx context.Context, req api.IssueRequest, idempotencyKey string) (*api.IssueResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if idempotencyKey != "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}

	var resp api.IssueResponse
	if err := c.do(ctx, http.MethodPost, "/api/blockwards/issue", header, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StudentRecords lists a student's BlockWards.
func (c *BlockWardClient) StudentRecords(ctx context.Context, studentID string) (*api.RecordsResponse, error) {
	var resp api.RecordsResponse
	path := "/api/students/" + url.PathEscape(studentID) + "/blockwards"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Record fetches one BlockWard record.
func (c *BlockWardClient) Record(ctx context.Context, id string) (*interfaces.BlockWardRecord, error) {
	var resp interfaces.BlockWardRecord
	if err := c.do(ctx, http.MethodGet, "/api/blockwards/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *BlockWardClient) do(ctx context.Context, method, path string, header http.Header, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.ServerAddr+path, reader)
	if err != nil {
		return err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil || json.Unmarshal(bodyBytes, &statusErr.Body) != nil || statusErr.Body.Error == "" {
			statusErr.Body.Error = string(bytes.TrimSpace(bodyBytes))
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse response of %s: %w", path, err)
	}
	return nil
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
