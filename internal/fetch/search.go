package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kawaragi/meguri/internal/cache"
	"github.com/kawaragi/meguri/internal/model"
)

// SearchClient runs queries against a Google Custom Search-shaped
// JSON API
type SearchClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	engineID   string
	opts       Options
}

// NewSearchClient creates a search fetcher. baseURL points at the
// query endpoint (e.g. https://www.googleapis.com/customsearch/v1).
func NewSearchClient(baseURL, apiKey, engineID string, opts Options) *SearchClient {
	o := opts.withDefaults()
	return &SearchClient{
		httpClient: o.httpClient(),
		baseURL:    baseURL,
		apiKey:     apiKey,
		engineID:   engineID,
		opts:       o,
	}
}

// customSearchResponse mirrors the Custom Search JSON shape
type customSearchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Search runs one query. Callers treat any error as "this query
// contributes no snippets".
func (c *SearchClient) Search(ctx context.Context, query string) ([]model.SearchHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("num", "8")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	if c.engineID != "" {
		params.Set("cx", c.engineID)
	}

	endpoint := c.baseURL + "?" + params.Encode()

	body, err := c.fetch(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	var parsed customSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	hits := make([]model.SearchHit, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		hits = append(hits, model.SearchHit{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
		})
	}
	return hits, nil
}

func (c *SearchClient) fetch(ctx context.Context, endpoint, cacheInput string) ([]byte, error) {
	key := cache.ResponseKey("search", cacheInput)
	if c.opts.Cache != nil {
		if body, found := c.opts.Cache.Get(key); found {
			return body, nil
		}
	}

	if err := c.opts.waitLimiter(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("search quota exhausted (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := readBody(resp, c.opts.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	if c.opts.Cache != nil {
		_ = c.opts.Cache.Set(key, body, c.opts.CacheTTL)
	}
	return body, nil
}
