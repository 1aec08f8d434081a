// Package websearch performs web research through the Tavily search
// API: it runs a query, fetches the top result pages, converts them to
// plain text, and optionally summarizes each page with an LLM call.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"repoprobe/internal/errs"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Client queries the Tavily search API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewClient creates a search client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   tavilyEndpoint,
		apiKey:     apiKey,
	}
}

// SetEndpoint overrides the search endpoint (for tests).
func (c *Client) SetEndpoint(url string) {
	c.endpoint = url
}

// Search runs a query and returns up to maxResults hits. Each hit
// carries Tavily's own content snippet, used as a fallback when the
// page itself cannot be fetched.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 3
	}

	reqBody := map[string]any{
		"api_key":     c.apiKey,
		"query":       query,
		"max_results": maxResults,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errs.NetworkError{Op: "web search", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &errs.AuthError{Credential: "TAVILY_API_KEY"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &errs.RateLimitError{API: "Tavily"}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Results []Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return parsed.Results, nil
}

// FetchPage downloads a result page and converts it to plain text.
// The body read is capped at 2 MiB.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", "repoprobe/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errs.NetworkError{Op: "page fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch returned %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", &errs.NetworkError{Op: "page fetch", Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/plain") {
		return string(body), nil
	}
	return HTMLToText(string(body)), nil
}
