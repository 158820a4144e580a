package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPExtractor calls a remote extraction endpoint over HTTP.
type HTTPExtractor struct {
	url    string
	client *http.Client
}

// NewHTTPExtractor creates an extractor for the given endpoint URL.
// PRE: url is the full extraction endpoint (e.g. ".../extract-assignments")
// POST: every request carries the given timeout
func NewHTTPExtractor(url string, timeout time.Duration) *HTTPExtractor {
	return &HTTPExtractor{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Extract POSTs {"text": ...} and decodes the detected assignment list.
// PRE: text is non-empty (callers skip the call for empty input)
// POST: on non-2xx the error matches ErrFailed; transport errors are wrapped
func (x *HTTPExtractor) Extract(ctx context.Context, text string) ([]Item, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("extractor_failed", "status", resp.StatusCode, "url", x.url)
		return nil, fmt.Errorf("%w: http %d", ErrFailed, resp.StatusCode)
	}

	items, err := decodeItems(resp.Body)
	if err != nil {
		return nil, err
	}
	slog.Info("extractor_done", "items", len(items))
	return items, nil
}

// decodeItems accepts both response shapes the service has been seen to
// produce: a bare array, or an object wrapping the array under "__root__".
func decodeItems(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read extraction response: %w", err)
	}

	var wrapped struct {
		Root []Item `json:"__root__"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Root != nil {
		return wrapped.Root, nil
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return items, nil
}
