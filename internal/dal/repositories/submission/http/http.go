package submissionhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/handywriterz/order-admin-svc/internal/service/models/submission"
	"github.com/spf13/viper"
)

// ErrUnexpectedStatus is returned when the endpoint answers with a non-2xx code.
var ErrUnexpectedStatus = errors.New("unexpected response status")

type listResponse struct {
	Submissions []submission.Submission `json:"submissions"`
}

// SubmissionClient reads submissions from the submissions endpoint.
type SubmissionClient struct {
	baseURL string
	client  *http.Client
}

// NewSubmissionClient creates a new submissions endpoint client.
func NewSubmissionClient(baseURL string, client *http.Client) *SubmissionClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &SubmissionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// MustNewSubmissionClient creates a client configured from viper.
func MustNewSubmissionClient() *SubmissionClient {
	baseURL := viper.GetString("submissions.base_url")
	if baseURL == "" {
		panic("submissions.base_url is not set in config")
	}

	timeout := viper.GetInt("submissions.timeout_seconds")
	if timeout == 0 {
		timeout = 15
	}

	return NewSubmissionClient(baseURL, &http.Client{Timeout: time.Duration(timeout) * time.Second})
}

// List fetches every submission visible to the bearer token.
func (c *SubmissionClient) List(ctx context.Context, token string) ([]submission.Submission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/submissions", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, fmt.Errorf("%w: %d, body: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	var res listResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if res.Submissions == nil {
		return []submission.Submission{}, nil
	}

	return res.Submissions, nil
}
