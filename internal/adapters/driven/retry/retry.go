// Package retry provides bounded exponential backoff for HTTP capability
// calls. Retries happen only at this adapter boundary; once the budget is
// exhausted the last error surfaces as a single terminal failure.
package retry

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// MaxRetries is the retry budget for transient failures.
const MaxRetries = 3

// TransientError indicates a retryable HTTP failure (5xx, 429).
type TransientError struct {
	StatusCode int
	Body       string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Do executes an HTTP request with exponential backoff for transient
// errors (network failures, 5xx, 429). buildReq is called per attempt
// because a request body can only be read once.
func Do(ctx context.Context, client *http.Client, buildReq func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter to avoid thundering herd.
			base := time.Duration(attempt*attempt) * time.Second
			jitter := time.Duration(rand.Int64N(int64(base/2 + 1)))
			backoff := base + jitter
			logger.Warn("retrying request (attempt %d, backoff %s)", attempt+1, backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := buildReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < MaxRetries {
				logger.Warn("request failed, will retry: %v", err)
				continue
			}
			return nil, fmt.Errorf("request failed after %d retries: %w", MaxRetries, err)
		}

		// Retry on 5xx server errors and 429 rate-limit.
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = &TransientError{StatusCode: resp.StatusCode, Body: string(body)}
			if attempt < MaxRetries {
				logger.Warn("server error %d, will retry", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("server error after %d retries: %w", MaxRetries, lastErr)
		}

		return resp, nil
	}

	return nil, lastErr
}
