package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/publu/gearbox-sentinel/internal/observability/metrics"
)

const userAgent = "gearbox-sentinel/1.0"

// HttpClient is implemented by every upstream source client.
type HttpClient interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

// HttpClientOptions carries the per-request path. TemplatePath is the
// parameterless form used as a metrics label to keep cardinality bounded.
type HttpClientOptions struct {
	Path         string
	TemplatePath string
	Headers      map[string]string
}

// HttpResponseError is returned for non-2xx upstream responses.
type HttpResponseError struct {
	StatusCode int
	Body       string
}

func (e *HttpResponseError) Error() string {
	if e.StatusCode == http.StatusTooManyRequests {
		return fmt.Sprintf("rate limit exceeded: status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// SendRequest performs a single JSON request against the client's base URL
// and decodes the response body into O. Retrying is the caller's concern.
func SendRequest[I, O any](
	ctx context.Context,
	c HttpClient,
	method string,
	opts *HttpClientOptions,
	input *I,
) (*O, error) {
	url := c.GetBaseURL() + opts.Path

	var body io.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	timeout := c.GetDefaultRequestTimeout()
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if input != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.GetHttpClient().Do(req)
	if err != nil {
		metrics.RecordClientRequestDuration(c.GetBaseURL(), method, opts.TemplatePath, 0, time.Since(start))
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	metrics.RecordClientRequestDuration(c.GetBaseURL(), method, opts.TemplatePath, resp.StatusCode, time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &HttpResponseError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out O
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return &out, nil
}
