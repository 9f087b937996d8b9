package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/loyaltytoken/loyalty-platform/internal/logger"
)

// ErrStatusNotFound is returned when the remote service answered 404
var ErrStatusNotFound = errors.New("resource not found")

// HTTPClient defines an interface for HTTP client operations to enable mocking
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// GetBytes performs a GET request and returns the raw response body
	GetBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error)

	// PostJSON performs a POST request with a JSON body and returns the response body
	PostJSON(ctx context.Context, url string, headers map[string]string, payload interface{}) ([]byte, error)

	// PostFile performs a multipart POST uploading content under the given
	// field and file name, with extra form fields, and returns the response body
	PostFile(ctx context.Context, url string, headers map[string]string, field, filename string, content []byte, form map[string]string) ([]byte, error)
}

// RealHTTPClient implements HTTPClient using the standard http package with
// exponential backoff retry for transient failures (network errors, 429, 5xx).
type RealHTTPClient struct {
	client      *http.Client
	maxAttempts uint64
}

// NewHTTPClient creates a new real HTTP client. maxAttempts caps the number
// of tries per request; zero means a single attempt with no retry.
func NewHTTPClient(timeout time.Duration, maxAttempts uint64) HTTPClient {
	return &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		maxAttempts: maxAttempts,
	}
}

// doRequestWithRetry executes a request, retrying transient failures with
// exponential backoff. buildReq is called per attempt so the body reader is
// fresh on each retry.
func (c *RealHTTPClient) doRequestWithRetry(ctx context.Context, buildReq func() (*http.Request, error)) ([]byte, error) {
	var respBody []byte

	operation := func() error {
		req, err := buildReq()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			// Network errors are retryable
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
			}
		}()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			logger.Warn("transient upstream failure, retrying with backoff",
				zap.Int("status", resp.StatusCode),
				zap.String("url", req.URL.String()),
			)
			return fmt.Errorf("upstream returned status %d", resp.StatusCode)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrStatusNotFound)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			body, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body)))
		}

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5 // jitter to prevent thundering herd

	var policy backoff.BackOff = backoff.WithContext(b, ctx)
	if c.maxAttempts > 0 {
		policy = backoff.WithMaxRetries(policy, c.maxAttempts-1)
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return respBody, nil
}

func applyHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// GetBytes performs a GET request and returns the raw response body
func (c *RealHTTPClient) GetBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		applyHeaders(req, headers)
		return req, nil
	})
}

// PostJSON performs a POST request with a JSON body and returns the response body
func (c *RealHTTPClient) PostJSON(ctx context.Context, url string, headers map[string]string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		applyHeaders(req, headers)
		return req, nil
	})
}

// PostFile performs a multipart POST uploading content and returns the response body
func (c *RealHTTPClient) PostFile(ctx context.Context, url string, headers map[string]string, field, filename string, content []byte, form map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	for k, v := range form {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write form field %q: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	body := buf.Bytes()
	contentType := writer.FormDataContentType()
	return c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		applyHeaders(req, headers)
		return req, nil
	})
}
