// Package websearch implements the search-based collector and its
// provider client.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

const defaultEndpoint = "https://api.tavily.com/search"

// Client talks to a Tavily-compatible search API.
type Client struct {
	endpoint   string
	apiKey     string
	maxResults int
	httpClient *http.Client
}

var _ ports.SearchClient = (*Client)(nil)

// NewClient builds a search client; endpoint defaults to the hosted API.
func NewClient(endpoint, apiKey string, maxResults int) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Search runs one query and normalizes the provider's hits.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("search client misconfigured: missing API key")
	}

	body, err := json.Marshal(map[string]any{
		"api_key":             c.apiKey,
		"query":               query,
		"search_depth":        "basic",
		"include_answer":      false,
		"include_raw_content": false,
		"max_results":         c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search provider %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var payload struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
			Source:  domainOf(r.URL),
		})
	}
	return results, nil
}

// domainOf names the result's source by its host, www-stripped.
func domainOf(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "Unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
