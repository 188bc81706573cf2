package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kawaragi/meguri/internal/cache"
	"github.com/kawaragi/meguri/internal/model"
)

// CommentClient fetches viewer comments from a YouTube Data
// API-shaped endpoint (commentThreads with snippet part)
type CommentClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	opts       Options
}

// NewCommentClient creates a comment fetcher. baseURL points at the
// API root (e.g. https://www.googleapis.com/youtube/v3).
func NewCommentClient(baseURL, apiKey string, opts Options) *CommentClient {
	o := opts.withDefaults()
	return &CommentClient{
		httpClient: o.httpClient(),
		baseURL:    baseURL,
		apiKey:     apiKey,
		opts:       o,
	}
}

// commentThreadsResponse mirrors the commentThreads JSON shape
type commentThreadsResponse struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					TextDisplay       string    `json:"textDisplay"`
					AuthorDisplayName string    `json:"authorDisplayName"`
					PublishedAt       time.Time `json:"publishedAt"`
					LikeCount         int       `json:"likeCount"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

// FetchComments retrieves top-level comments for one subject. Callers
// treat any error as "this source contributes no text".
func (c *CommentClient) FetchComments(ctx context.Context, subjectID string) ([]model.Comment, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", subjectID)
	params.Set("maxResults", "50")
	params.Set("order", "relevance")
	params.Set("textFormat", "plainText")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	endpoint := c.baseURL + "/commentThreads?" + params.Encode()

	body, err := c.fetch(ctx, endpoint, subjectID)
	if err != nil {
		return nil, err
	}

	var parsed commentThreadsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse comment response: %w", err)
	}

	comments := make([]model.Comment, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		s := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, model.Comment{
			Text:        s.TextDisplay,
			Author:      s.AuthorDisplayName,
			PublishedAt: s.PublishedAt,
			LikeCount:   s.LikeCount,
		})
	}
	return comments, nil
}

func (c *CommentClient) fetch(ctx context.Context, endpoint, cacheInput string) ([]byte, error) {
	key := cache.ResponseKey("comments", cacheInput)
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
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("comment quota exhausted (status %d)", resp.StatusCode)
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
