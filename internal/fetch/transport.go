package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Get retrieves a URL and returns the response body, classifying failures:
// transport errors and 5xx responses are ErrNetwork (retryable), 4xx
// responses are ErrUpstreamFormat (permanent).
func Get(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	return do(client, req)
}

// PostForm sends a form-encoded POST and returns the response body, with the
// same error classification as Get.
func PostForm(ctx context.Context, client *http.Client, rawURL string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(client, req)
}

func do(client *http.Client, req *http.Request) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %s: %w", ErrNetwork, req.URL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: %s returned %d", ErrNetwork, req.URL, resp.StatusCode)
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("%w: %s returned %d", ErrUpstreamFormat, req.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: read %s: %w", ErrNetwork, req.URL, err)
	}
	return string(body), nil
}
