package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kawaragi/meguri/internal/cache"
	"github.com/kawaragi/meguri/internal/model"
	"golang.org/x/net/html"
)

// PageFetcher retrieves corroboration pages for search hits, honoring
// robots.txt, and reduces them to visible text
type PageFetcher struct {
	httpClient *http.Client
	robots     *RobotsChecker
	opts       Options
}

// NewPageFetcher creates a page fetcher
func NewPageFetcher(opts Options) *PageFetcher {
	o := opts.withDefaults()
	return &PageFetcher{
		httpClient: o.httpClient(),
		robots:     NewRobotsChecker(o.UserAgent, o.Timeout),
		opts:       o,
	}
}

// maxPageTextRunes bounds how much page text enriches one snippet
const maxPageTextRunes = 600

// FetchText fetches one page and returns its visible text, truncated
// to a corpus-friendly length. Disallowed or unreachable pages return
// an error the caller downgrades to "no enrichment".
func (f *PageFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return "", fmt.Errorf("robots.txt disallows %s", rawURL)
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	key := cache.ResponseKey("page", rawURL)
	if f.opts.Cache != nil {
		if body, found := f.opts.Cache.Get(key); found {
			return string(body), nil
		}
	}

	if err := f.opts.waitLimiter(ctx, rawURL); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := readBody(resp, f.opts.MaxBodyBytes)
	if err != nil {
		return "", err
	}

	text := truncateRunes(VisibleText(string(body)), maxPageTextRunes)

	if f.opts.Cache != nil {
		_ = f.opts.Cache.Set(key, []byte(text), f.opts.CacheTTL)
	}
	return text, nil
}

// VisibleText extracts text nodes from HTML, skipping script/style
// subtrees
func VisibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// EnrichedSearch wraps a search fetcher and expands the first hit of
// each query with visible text from the hit's page
type EnrichedSearch struct {
	inner interface {
		Search(ctx context.Context, query string) ([]model.SearchHit, error)
	}
	pages *PageFetcher
}

// NewEnrichedSearch creates the wrapper
func NewEnrichedSearch(inner *SearchClient, pages *PageFetcher) *EnrichedSearch {
	return &EnrichedSearch{inner: inner, pages: pages}
}

// Search runs the query and appends page text to the top hit's
// snippet. Page failures leave the hit untouched.
func (e *EnrichedSearch) Search(ctx context.Context, query string) ([]model.SearchHit, error) {
	hits, err := e.inner.Search(ctx, query)
	if err != nil || len(hits) == 0 {
		return hits, err
	}

	if text, pageErr := e.pages.FetchText(ctx, hits[0].URL); pageErr == nil && text != "" {
		hits[0].Snippet = strings.TrimSpace(hits[0].Snippet + " " + text)
	}
	return hits, nil
}
