package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	maxAttempts  = 3
	retryBackoff = 5 * time.Second
)

// retryable reports whether an HTTP status is worth retrying.
// 529 is Anthropic's overloaded status.
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, 529:
		return true
	}
	return status >= 500 && status < 600
}

// doWithRetry executes an HTTP request up to maxAttempts times with a
// fixed backoff between attempts. The request body must be rebuildable,
// so callers pass a factory instead of a request.
func doWithRetry(ctx context.Context, client *http.Client, build func() (*http.Request, error)) (*http.Response, error) {
	var lastStatus int
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			if attempt == maxAttempts {
				return nil, err
			}
		} else if !retryable(resp.StatusCode) {
			return resp, nil
		} else {
			lastStatus = resp.StatusCode
			resp.Body.Close()
			if attempt == maxAttempts {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts (last status %d)", maxAttempts, lastStatus)
}
