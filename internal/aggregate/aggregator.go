// Package aggregate gathers every text source available for one
// subject into a tagged corpus. External fetchers are injected by the
// caller; this is the seam to the comment and search collaborators.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kawaragi/meguri/internal/model"
	"golang.org/x/time/rate"
)

// CommentFetcher retrieves viewer comments for a subject. May return an
// empty list on quota/error conditions it handles itself.
type CommentFetcher interface {
	FetchComments(ctx context.Context, subjectID string) ([]model.Comment, error)
}

// SearchFetcher runs one search-engine query. May return an empty list
// on quota/error conditions it handles itself.
type SearchFetcher interface {
	Search(ctx context.Context, query string) ([]model.SearchHit, error)
}

// maxComments bounds how many comments feed the corpus; beyond this the
// signal is pure repetition
const maxComments = 50

// Aggregator builds the corpus for one subject. A fetcher failure
// degrades to "that source contributes no text": it is logged as a
// warning and recorded, never propagated as a hard error.
type Aggregator struct {
	comments    CommentFetcher // nil disables the comment source
	search      SearchFetcher  // nil disables the snippet source
	callTimeout time.Duration
	throttle    *rate.Limiter // Fixed-interval pacing between external calls
	logger      *slog.Logger
}

// New creates an aggregator. interval is the flat delay between
// successive external calls; callTimeout guards each individual call.
func New(comments CommentFetcher, search SearchFetcher, callTimeout, interval time.Duration, logger *slog.Logger) *Aggregator {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		comments:    comments,
		search:      search,
		callTimeout: callTimeout,
		throttle:    rate.NewLimiter(rate.Every(interval), 1),
		logger:      logger,
	}
}

// Aggregate returns the subject's own text plus everything the comment
// fetcher produced. Returned warnings describe degraded sources.
func (a *Aggregator) Aggregate(ctx context.Context, subject model.Subject) ([]model.SourceText, []string) {
	var sources []model.SourceText
	var warnings []string

	if title := strings.TrimSpace(subject.Title); title != "" {
		sources = append(sources, model.SourceText{Origin: model.OriginTitle, Content: title})
	}
	if desc := strings.TrimSpace(subject.Description); desc != "" {
		sources = append(sources, model.SourceText{Origin: model.OriginDescription, Content: desc})
	}

	if a.comments != nil {
		comments, err := a.fetchComments(ctx, subject.ID)
		if err != nil {
			w := fmt.Sprintf("comment fetch degraded: %v", err)
			a.logger.Warn("comment fetch failed, continuing without comments",
				"subject_id", subject.ID, "error", err)
			warnings = append(warnings, w)
		}
		for i, c := range comments {
			if i >= maxComments {
				break
			}
			if text := strings.TrimSpace(c.Text); text != "" {
				sources = append(sources, model.SourceText{Origin: model.OriginComment, Content: text})
			}
		}
	}

	return sources, warnings
}

// FetchSnippets runs each query through the search fetcher, pacing
// calls with the fixed-interval throttle. Failed queries are skipped;
// a timed-out fetch is treated identically to an empty result.
func (a *Aggregator) FetchSnippets(ctx context.Context, queries []string) ([]model.SourceText, []string) {
	if a.search == nil || len(queries) == 0 {
		return nil, nil
	}

	var sources []model.SourceText
	var warnings []string

	for _, query := range queries {
		if err := a.throttle.Wait(ctx); err != nil {
			warnings = append(warnings, fmt.Sprintf("snippet fetch aborted: %v", err))
			break
		}

		hits, err := a.searchOne(ctx, query)
		if err != nil {
			a.logger.Warn("search fetch failed, skipping query", "query", query, "error", err)
			warnings = append(warnings, fmt.Sprintf("search %q degraded: %v", query, err))
			continue
		}

		for _, hit := range hits {
			content := strings.TrimSpace(strings.Join([]string{hit.Title, hit.Snippet}, " "))
			if content == "" {
				continue
			}
			sources = append(sources, model.SourceText{
				Origin:    model.OriginSnippet,
				Content:   content,
				SourceURL: hit.URL,
			})
		}
	}

	return sources, warnings
}

func (a *Aggregator) fetchComments(ctx context.Context, subjectID string) ([]model.Comment, error) {
	if err := a.throttle.Wait(ctx); err != nil {
		return nil, err
	}
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()
	return a.comments.FetchComments(callCtx, subjectID)
}

func (a *Aggregator) searchOne(ctx context.Context, query string) ([]model.SearchHit, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()
	return a.search.Search(callCtx, query)
}
