package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	defaultMaxTokens   = 2000

	// maxResponseBytes bounds how much of a provider response is read.
	maxResponseBytes = 4 << 20

	// maxErrorDetail bounds how many characters of an error body reach error text.
	maxErrorDetail = 200
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// postJSON sends payload to url and returns the response body of a 2xx answer.
// Non-2xx statuses and transport failures are mapped onto the package sentinels.
func postJSON(ctx context.Context, client *http.Client, name, url string, payload []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: request abandoned: %w", name, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w: request failed: %w", name, ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: read response: %w", name, ErrProviderUnavailable, err)
	}

	if err := statusError(name, resp, body); err != nil {
		return nil, err
	}
	return body, nil
}

// statusError maps a non-2xx response onto ErrRateLimited or ErrProviderUnavailable.
func statusError(name string, resp *http.Response, body []byte) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	detail := truncateRunes(strings.TrimSpace(string(body)), maxErrorDetail)
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w: unexpected status %s: %s", name, ErrRateLimited, resp.Status, detail)
	}
	return fmt.Errorf("%s: %w: unexpected status %s: %s", name, ErrProviderUnavailable, resp.Status, detail)
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// malformed wraps a decode failure as ErrMalformedResponse.
func malformed(name, what string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w: %s", name, ErrMalformedResponse, what)
	}
	return fmt.Errorf("%s: %w: %s: %w", name, ErrMalformedResponse, what, err)
}

// IsRecoverable reports whether err is one of the provider failures that an
// analysis module is expected to absorb.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
