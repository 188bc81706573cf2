package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/kawaragi/meguri/internal/aggregate"
	"github.com/kawaragi/meguri/internal/model"
	"github.com/kawaragi/meguri/internal/rules"
)

type stubComments struct {
	comments []model.Comment
	err      error
}

func (s *stubComments) FetchComments(ctx context.Context, subjectID string) ([]model.Comment, error) {
	return s.comments, s.err
}

type stubSearch struct {
	hits map[string][]model.SearchHit
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]model.SearchHit, error) {
	return s.hits[query], nil
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = time.Second
	cfg.Throttle.Interval = time.Millisecond
	return cfg
}

func newTestPipeline(t *testing.T, comments aggregate.CommentFetcher, search aggregate.SearchFetcher) *Pipeline {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(testConfig(), rules.Builtin(), comments, search, logger)
}

func findCandidate(candidates []model.Candidate, name string) *model.Candidate {
	for i := range candidates {
		if candidates[i].NormalizedName == name {
			return &candidates[i]
		}
	}
	return nil
}

// A title with no recognizable entities still yields a complete,
// well-formed result.
func TestCurate_NoCandidates(t *testing.T) {
	p := newTestPipeline(t, nil, nil)

	result := p.Curate(context.Background(), model.Subject{
		ID:    "ep-446",
		Title: "#446【朝食!!】肉肉肉肉肉肉肉日",
	})

	if result.SubjectID != "ep-446" {
		t.Errorf("SubjectID = %q", result.SubjectID)
	}
	if len(result.LocationCandidates) != 0 || len(result.ItemCandidates) != 0 {
		t.Errorf("Expected no candidates, got %+v / %+v",
			result.LocationCandidates, result.ItemCandidates)
	}
	if !strings.Contains(result.ManualNotes, "no location candidates found") {
		t.Errorf("ManualNotes = %q", result.ManualNotes)
	}
	if result.Diagnostics.SourcesAggregated != 1 {
		t.Errorf("SourcesAggregated = %d, want 1", result.Diagnostics.SourcesAggregated)
	}
	if result.CuratedAt.IsZero() {
		t.Error("CuratedAt not set")
	}
}

// A pattern-matched location corroborated by a search snippet carrying
// address and hours context must clear the review threshold.
func TestCurate_SearchCorroboration(t *testing.T) {
	search := &stubSearch{hits: map[string][]model.SearchHit{
		"渋谷ハンバーグ店 場所": {
			{
				Title:   "渋谷ハンバーグ店",
				Snippet: "住所: 東京都渋谷区 営業時間 11:00-21:00",
				URL:     "https://tabelog.example.com/shibuya-hamburg",
			},
		},
	}}
	p := newTestPipeline(t, nil, search)

	result := p.Curate(context.Background(), model.Subject{
		ID:          "ep-1",
		Title:       "渋谷グルメ旅",
		Description: "今日は、渋谷ハンバーグ店に行ってきた。",
	})

	got := findCandidate(result.LocationCandidates, "渋谷ハンバーグ店")
	if got == nil {
		t.Fatalf("渋谷ハンバーグ店 not found in %+v", result.LocationCandidates)
	}
	if got.Confidence < model.DefaultScoringWeights().ReviewThreshold {
		t.Errorf("Confidence = %d, want >= %d (notes: %s)",
			got.Confidence, model.DefaultScoringWeights().ReviewThreshold, got.Notes)
	}
	if !got.HasOrigin(model.OriginDescription) || !got.HasOrigin(model.OriginSnippet) {
		t.Errorf("Origins = %v, want description and search corroboration", got.OriginsMatched)
	}
	if got.SourceURL != "https://tabelog.example.com/shibuya-hamburg" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
	if !strings.Contains(result.ManualNotes, "high-confidence location candidate") {
		t.Errorf("ManualNotes = %q", result.ManualNotes)
	}

	found := false
	for _, q := range result.SearchQueriesUsed {
		if q == "渋谷ハンバーグ店 場所" {
			found = true
		}
	}
	if !found {
		t.Errorf("Derived queries missing keyword query: %v", result.SearchQueriesUsed)
	}
}

// The same chain name seen in the title and in comments collapses to
// one candidate carrying both origins.
func TestCurate_DuplicateAcrossSources(t *testing.T) {
	comments := &stubComments{comments: []model.Comment{
		{Text: "スターバックスの新作ですか？"},
		{Text: "私もスターバックス行きました"},
	}}
	p := newTestPipeline(t, comments, nil)

	result := p.Curate(context.Background(), model.Subject{
		ID:    "ep-2",
		Title: "スターバックス新作レビュー",
	})

	count := 0
	for _, c := range result.LocationCandidates {
		if strings.Contains(c.NormalizedName, "スターバックス") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Expected 1 merged candidate, got %d: %+v", count, result.LocationCandidates)
	}

	got := findCandidate(result.LocationCandidates, "スターバックス")
	if got == nil {
		t.Fatal("スターバックス missing")
	}
	if !got.HasOrigin(model.OriginTitle) || !got.HasOrigin(model.OriginComment) {
		t.Errorf("Origins = %v, want title and comment", got.OriginsMatched)
	}
	// Keyword base + title origin + comment origin
	w := model.DefaultScoringWeights()
	want := w.KeywordBase + w.TitleOriginBonus + w.CommentOriginBonus
	if got.Confidence != want {
		t.Errorf("Confidence = %d, want %d (notes: %s)", got.Confidence, want, got.Notes)
	}
}

// A failing comment fetcher degrades the corpus and is surfaced in the
// diagnostics, never as an error.
func TestCurate_CommentFetchDegrades(t *testing.T) {
	comments := &stubComments{err: errors.New("quota exhausted")}
	p := newTestPipeline(t, comments, nil)

	result := p.Curate(context.Background(), model.Subject{
		ID:    "ep-3",
		Title: "スターバックス巡り",
	})

	if len(result.Diagnostics.FetchWarnings) != 1 {
		t.Fatalf("FetchWarnings = %v", result.Diagnostics.FetchWarnings)
	}
	if !strings.Contains(result.Diagnostics.FetchWarnings[0], "quota exhausted") {
		t.Errorf("Warning = %q", result.Diagnostics.FetchWarnings[0])
	}
	if !strings.Contains(result.ManualNotes, "degraded during aggregation") {
		t.Errorf("ManualNotes = %q", result.ManualNotes)
	}
	// Title extraction still ran
	if findCandidate(result.LocationCandidates, "スターバックス") == nil {
		t.Errorf("Title-derived candidate missing: %+v", result.LocationCandidates)
	}
}

// Short curated chain names survive to the final result: the noise
// filter's length bounds exist for loose pattern captures and must not
// eat keyword matches like 一蘭 (2 runes).
func TestCurate_ShortChainNameSurvives(t *testing.T) {
	comments := &stubComments{comments: []model.Comment{
		{Text: "一蘭に行きたい"},
	}}
	p := newTestPipeline(t, comments, nil)

	result := p.Curate(context.Background(), model.Subject{
		ID:    "ep-7",
		Title: "一蘭のラーメンを食べた",
	})

	got := findCandidate(result.LocationCandidates, "一蘭")
	if got == nil {
		t.Fatalf("一蘭 missing from %+v (diagnostics %+v)",
			result.LocationCandidates, result.Diagnostics)
	}
	if !got.HasOrigin(model.OriginTitle) || !got.HasOrigin(model.OriginComment) {
		t.Errorf("Origins = %v, want title and comment", got.OriginsMatched)
	}
	if result.Diagnostics.NoiseRejected != 0 {
		t.Errorf("NoiseRejected = %d, want 0", result.Diagnostics.NoiseRejected)
	}

	// The looser pattern capture 一蘭のラーメン folds into the chain name
	count := 0
	for _, c := range result.LocationCandidates {
		if strings.HasPrefix(c.NormalizedName, "一蘭") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected 1 merged 一蘭 candidate, got %d: %+v", count, result.LocationCandidates)
	}
}

// Platform vocabulary matched by loose patterns is rejected and counted.
func TestCurate_NoiseRejection(t *testing.T) {
	comments := &stubComments{comments: []model.Comment{
		{Text: "動画で紹介されたラーメン屋どこ？"},
	}}
	p := newTestPipeline(t, comments, nil)

	result := p.Curate(context.Background(), model.Subject{
		ID:    "ep-4",
		Title: "東京グルメ",
	})

	if result.Diagnostics.NoiseRejected == 0 {
		t.Errorf("Expected noise rejections, diagnostics = %+v", result.Diagnostics)
	}
	for _, c := range result.LocationCandidates {
		if strings.Contains(c.NormalizedName, "動画") {
			t.Errorf("Noise candidate survived: %+v", c)
		}
	}
}

// An entirely empty subject produces the manual-review note.
func TestCurate_EmptySubject(t *testing.T) {
	p := newTestPipeline(t, nil, nil)

	result := p.Curate(context.Background(), model.Subject{ID: "ep-5"})
	if result.Diagnostics.SourcesAggregated != 0 {
		t.Errorf("SourcesAggregated = %d", result.Diagnostics.SourcesAggregated)
	}
	if !strings.Contains(result.ManualNotes, "no text sources available") {
		t.Errorf("ManualNotes = %q", result.ManualNotes)
	}
}

// Result lists never exceed the configured bound.
func TestCurate_MaxResults(t *testing.T) {
	var comments []model.Comment
	names := []string{"一蘭", "スターバックス", "サイゼリヤ", "スシロー", "マクドナルド", "コメダ珈琲", "ドン・キホーテ"}
	for _, n := range names {
		comments = append(comments, model.Comment{Text: n + "に行きたい"})
	}

	cfg := testConfig()
	cfg.Scoring.MaxResults = 3
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(cfg, rules.Builtin(), &stubComments{comments: comments}, nil, logger)

	result := p.Curate(context.Background(), model.Subject{ID: "ep-6", Title: "チェーン店巡り"})
	if len(result.LocationCandidates) > 3 {
		t.Errorf("Got %d location candidates, max is 3", len(result.LocationCandidates))
	}
}
