// Package stac forwards item searches to a STAC API.
package stac

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	domstac "github.com/hydrovibe/hydrosearch/internal/domain/stac"
)

// maxErrorBody caps how much of an upstream error body is kept.
const maxErrorBody = 2048

// StatusError is a non-2xx STAC API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("STAC API returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return domain.ErrStacUnavailable }

// Config holds the STAC client settings.
type Config struct {
	SearchURL string
	Timeout   time.Duration
}

// Client posts item searches.
type Client struct {
	searchURL string
	client    *http.Client
}

// NewClient creates a STAC search client.
func NewClient(cfg *Config) *Client {
	return &Client{
		searchURL: cfg.SearchURL,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Search posts s and returns the raw JSON feature collection.
func (c *Client) Search(ctx context.Context, s domstac.Search) (json.RawMessage, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal stac search: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create stac request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stac request: %w: %w", err, domain.ErrStacUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stac response: %w: %w", err, domain.ErrStacUnavailable)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("stac response is not valid JSON: %w", domain.ErrStacUnavailable)
	}

	return json.RawMessage(data), nil
}
