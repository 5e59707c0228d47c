package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"interview-core/internal/domain/entity"
)

const maxErrorBody = 900

// newHTTPClient returns a client with a hard timeout that never follows
// redirects; a 3xx is reported to the caller as a failed call.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// doJSON sends payload (if any) as JSON and returns the response body.
// Non-2xx responses become *entity.ProviderCallFailure; client errors other
// than 408 and 429 are marked fatal.
func doJSON(ctx context.Context, client *http.Client, provider string, req *http.Request, payload any) ([]byte, error) {
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, entity.Fatal(provider, fmt.Errorf("marshal request: %w", err))
		}
		req.Body = io.NopCloser(bytes.NewReader(b))
		req.ContentLength = int64(len(b))
		req.Header.Set("Content-Type", "application/json")
	}
	return do(ctx, client, provider, req)
}

func do(ctx context.Context, client *http.Client, provider string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &entity.ProviderCallFailure{Provider: provider, Cause: fmt.Errorf("http request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &entity.ProviderCallFailure{Provider: provider, Cause: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusFailure(provider, resp.StatusCode, body)
	}
	return body, nil
}

func statusFailure(provider string, status int, body []byte) error {
	transient := status >= 500 || status == http.StatusRequestTimeout || status == http.StatusTooManyRequests
	return &entity.ProviderCallFailure{
		Provider:   provider,
		StatusCode: status,
		Fatal:      !transient,
		Cause:      fmt.Errorf("provider returned status %d: %s", status, snippet(body)),
	}
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}

func newRequest(ctx context.Context, provider, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, entity.Fatal(provider, fmt.Errorf("build request: %w", err))
	}
	return req, nil
}

func requireKey(provider, key string) error {
	if strings.TrimSpace(key) == "" {
		return entity.Fatal(provider, entity.ErrMissingAPIKey)
	}
	return nil
}

func requirePrompt(provider, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return entity.Fatal(provider, fmt.Errorf("prompt is empty"))
	}
	return nil
}
