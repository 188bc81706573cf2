package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/kawaragi/meguri/internal/model"
)

type stubComments struct {
	comments []model.Comment
	err      error
	calls    int
}

func (s *stubComments) FetchComments(ctx context.Context, subjectID string) ([]model.Comment, error) {
	s.calls++
	return s.comments, s.err
}

type stubSearch struct {
	hits map[string][]model.SearchHit
	err  error
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]model.SearchHit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.hits[query], nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAggregator(c CommentFetcher, s SearchFetcher) *Aggregator {
	return New(c, s, time.Second, time.Millisecond, quietLogger())
}

func TestAggregate_AllSources(t *testing.T) {
	comments := &stubComments{comments: []model.Comment{
		{Text: "一蘭のラーメン美味しそう"},
		{Text: "  "},
		{Text: "場所どこですか？"},
	}}
	a := newTestAggregator(comments, nil)

	subject := model.Subject{
		ID:          "ep-1",
		Title:       "東京さんぽ",
		Description: "渋谷で食べ歩き",
	}
	sources, warnings := a.Aggregate(context.Background(), subject)

	if len(warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", warnings)
	}
	// title + description + 2 non-blank comments
	if len(sources) != 4 {
		t.Fatalf("Expected 4 sources, got %d: %+v", len(sources), sources)
	}
	if sources[0].Origin != model.OriginTitle || sources[0].Content != "東京さんぽ" {
		t.Errorf("First source = %+v, want title", sources[0])
	}
	if sources[1].Origin != model.OriginDescription {
		t.Errorf("Second source = %+v, want description", sources[1])
	}
	for _, src := range sources[2:] {
		if src.Origin != model.OriginComment {
			t.Errorf("Expected comment origin, got %+v", src)
		}
	}
}

func TestAggregate_CommentFailureDegrades(t *testing.T) {
	comments := &stubComments{err: errors.New("quota exhausted")}
	a := newTestAggregator(comments, nil)

	sources, warnings := a.Aggregate(context.Background(), model.Subject{ID: "ep-1", Title: "東京さんぽ"})

	if len(sources) != 1 {
		t.Fatalf("Expected title-only corpus on comment failure, got %+v", sources)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "quota exhausted") {
		t.Errorf("Expected degradation warning, got %v", warnings)
	}
}

func TestAggregate_NilFetchers(t *testing.T) {
	a := newTestAggregator(nil, nil)

	sources, warnings := a.Aggregate(context.Background(), model.Subject{ID: "ep-1", Title: "東京さんぽ"})
	if len(sources) != 1 || len(warnings) != 0 {
		t.Errorf("Expected 1 source and no warnings, got %+v / %v", sources, warnings)
	}
}

func TestAggregate_EmptySubject(t *testing.T) {
	a := newTestAggregator(nil, nil)

	sources, _ := a.Aggregate(context.Background(), model.Subject{ID: "ep-1"})
	if len(sources) != 0 {
		t.Errorf("Expected empty corpus, got %+v", sources)
	}
}

func TestAggregate_CommentCap(t *testing.T) {
	var many []model.Comment
	for i := 0; i < 80; i++ {
		many = append(many, model.Comment{Text: fmt.Sprintf("コメント%d", i)})
	}
	a := newTestAggregator(&stubComments{comments: many}, nil)

	sources, _ := a.Aggregate(context.Background(), model.Subject{ID: "ep-1", Title: "東京さんぽ"})
	commentCount := 0
	for _, src := range sources {
		if src.Origin == model.OriginComment {
			commentCount++
		}
	}
	if commentCount != maxComments {
		t.Errorf("Expected %d comments, got %d", maxComments, commentCount)
	}
}

func TestFetchSnippets(t *testing.T) {
	search := &stubSearch{hits: map[string][]model.SearchHit{
		"一蘭 場所": {
			{Title: "一蘭 渋谷店", Snippet: "住所: 東京都渋谷区", URL: "https://example.com/ichiran"},
		},
	}}
	a := newTestAggregator(nil, search)

	sources, warnings := a.FetchSnippets(context.Background(), []string{"一蘭 場所", "該当なし"})
	if len(warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", warnings)
	}
	if len(sources) != 1 {
		t.Fatalf("Expected 1 snippet source, got %+v", sources)
	}
	got := sources[0]
	if got.Origin != model.OriginSnippet {
		t.Errorf("Origin = %q", got.Origin)
	}
	if got.Content != "一蘭 渋谷店 住所: 東京都渋谷区" {
		t.Errorf("Content = %q", got.Content)
	}
	if got.SourceURL != "https://example.com/ichiran" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
}

func TestFetchSnippets_FailedQuerySkipped(t *testing.T) {
	a := newTestAggregator(nil, &stubSearch{err: errors.New("rate limited")})

	sources, warnings := a.FetchSnippets(context.Background(), []string{"一蘭 場所", "ユニクロ 購入"})
	if len(sources) != 0 {
		t.Errorf("Expected no sources, got %+v", sources)
	}
	if len(warnings) != 2 {
		t.Errorf("Expected one warning per failed query, got %v", warnings)
	}
}

func TestFetchSnippets_NilSearch(t *testing.T) {
	a := newTestAggregator(nil, nil)
	sources, warnings := a.FetchSnippets(context.Background(), []string{"一蘭 場所"})
	if sources != nil || warnings != nil {
		t.Errorf("Expected nil results without a search fetcher, got %+v / %v", sources, warnings)
	}
}

func TestFetchSnippets_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestAggregator(nil, &stubSearch{})
	_, warnings := a.FetchSnippets(ctx, []string{"一蘭 場所"})
	if len(warnings) != 1 || !strings.Contains(warnings[0], "aborted") {
		t.Errorf("Expected abort warning on cancelled context, got %v", warnings)
	}
}
