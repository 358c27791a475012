package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// RetryPolicy bounds the exponential backoff applied to transient failures.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries three times starting at 200ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// HTTPClient provides common HTTP functionality for the console API
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	name    string // client name for logging and User-Agent
	retry   RetryPolicy
}

// NewHTTPClient creates a new HTTP client with default settings
func NewHTTPClient(name string, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		name:  name,
		retry: DefaultRetryPolicy(),
	}
}

// SetBaseURL sets the base URL for all requests
func (c *HTTPClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetAPIKey sets the bearer key sent with every request
func (c *HTTPClient) SetAPIKey(apiKey string) {
	c.apiKey = apiKey
}

// SetRetryPolicy replaces the retry policy
func (c *HTTPClient) SetRetryPolicy(p RetryPolicy) {
	c.retry = p
}

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// retryable reports whether a status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Get makes a GET request
func (c *HTTPClient) Get(ctx context.Context, endpoint string) (*HTTPResponse, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// PostJSON makes a POST request with JSON payload
func (c *HTTPClient) PostJSON(ctx context.Context, endpoint string, payload any) (*HTTPResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, body)
}

// do runs the request under the retry policy. Transport errors, 429 and 5xx
// are retried; any other non-2xx is returned as a permanent *StatusError.
func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body []byte) (*HTTPResponse, error) {
	url := c.baseURL + endpoint

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialInterval
	b.MaxInterval = c.retry.MaxInterval
	b.MaxElapsedTime = 0
	var policy backoff.BackOff = b
	if c.retry.MaxRetries >= 0 {
		policy = backoff.WithMaxRetries(b, uint64(c.retry.MaxRetries))
	}
	policy = backoff.WithContext(policy, ctx)

	attempt := 0
	operation := func() (*HTTPResponse, error) {
		attempt++
		resp, err := c.once(ctx, method, url, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if resp.IsSuccess() {
			return resp, nil
		}
		statusErr := &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: truncate(resp.String(), 512)}
		if retryable(resp.StatusCode) {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().
			Str("client", c.name).
			Str("method", method).
			Str("url", url).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Err(err).
			Msg("HTTP request failed, retrying")
	}

	resp, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err != nil {
		log.Error().
			Str("client", c.name).
			Str("method", method).
			Str("url", url).
			Int("attempts", attempt).
			Err(err).
			Msg("HTTP request failed")
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) once(ctx context.Context, method, url string, body []byte) (*HTTPResponse, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("consolenav/%s", c.name))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	log.Debug().
		Str("client", c.name).
		Str("method", method).
		Str("url", url).
		Msg("making HTTP request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	return c.handleResponse(resp)
}

// handleResponse processes the HTTP response
func (c *HTTPClient) handleResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("client", c.name).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("received HTTP response")

	return &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess checks if the response indicates success (2xx status code)
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnmarshalJSON unmarshals the response body into the provided struct
func (r *HTTPResponse) UnmarshalJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// String returns the response body as a string
func (r *HTTPResponse) String() string {
	return string(r.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
