package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second

	// maxErrorBody limits how much of an error response is kept
	maxErrorBody = 512
)

// HTTP posts the form as JSON to an endpoint
type HTTP struct {
	// URL receives the POST request
	URL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for retryable failures
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration
}

// NewHTTP creates an HTTP submitter with default timeout and retry settings
func NewHTTP(url string) *HTTP {
	return &HTTP{
		URL:           url,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetTimeout sets the per-request timeout
func (c *HTTP) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *HTTP) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Submit posts the form, retrying network failures and 5xx responses
func (c *HTTP) Submit(ctx context.Context, data form.FormData) error {
	body, err := json.Marshal(newPayload(ctx, data))
	if err != nil {
		return &Error{Type: ErrTypeEncode, Message: "failed to encode form", Err: err}
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			logging.Debug("Retrying submission",
				zap.String("url", c.URL),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ClassifyError("submission abandoned", ctx.Err())
			case <-time.After(delay):
			}
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// backoff returns the wait before the given retry attempt (1-based)
func (c *HTTP) backoff(attempt int) time.Duration {
	delay := c.RetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if c.MaxRetryDelay > 0 && delay > c.MaxRetryDelay {
			return c.MaxRetryDelay
		}
	}
	return delay
}

func (c *HTTP) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return &Error{Type: ErrTypeEncode, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return ClassifyError("failed to reach receiver", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		rejected := NewRejectedError(msg)
		rejected.StatusCode = resp.StatusCode
		return rejected
	}

	return NewHTTPError(resp.StatusCode, fmt.Sprintf("receiver returned %d: %s", resp.StatusCode, msg))
}
