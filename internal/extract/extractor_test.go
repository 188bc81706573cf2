package extract

import (
	"testing"

	"github.com/kawaragi/meguri/internal/model"
	"github.com/kawaragi/meguri/internal/rules"
)

func testLibrary(t *testing.T) *rules.Library {
	t.Helper()
	lib, err := rules.NewLibrary([]model.Rule{
		{
			ID:       "loc-restaurant-suffix",
			Category: "restaurant",
			Family:   model.FamilyLocation,
			Kind:     model.RuleKindPattern,
			Matcher:  "[一-龯ぁ-んァ-ヶA-Za-z0-9ー々]{2,20}(?:店|屋|亭)",
		},
		{
			ID:       "loc-starbucks",
			Category: "cafe",
			Family:   model.FamilyLocation,
			Kind:     model.RuleKindKeyword,
			Matcher:  "スターバックス",
		},
		{
			ID:       "item-uniqlo",
			Category: "fashion",
			Family:   model.FamilyItem,
			Kind:     model.RuleKindKeyword,
			Matcher:  "ユニクロ",
		},
	}, nil)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return lib
}

func TestExtract_PatternMatch(t *testing.T) {
	e := New(testLibrary(t))

	corpus := []model.SourceText{
		{
			Origin:    model.OriginSnippet,
			Content:   "昨日、渋谷ハンバーグ店でランチしました",
			SourceURL: "https://example.com/blog",
		},
	}

	raw := e.Extract(corpus)
	if len(raw) != 1 {
		t.Fatalf("Expected 1 raw candidate, got %d: %+v", len(raw), raw)
	}

	got := raw[0]
	if got.RawName != "渋谷ハンバーグ店" {
		t.Errorf("RawName = %q, want 渋谷ハンバーグ店", got.RawName)
	}
	if got.RuleID != "loc-restaurant-suffix" {
		t.Errorf("RuleID = %q, want loc-restaurant-suffix", got.RuleID)
	}
	if got.Family != model.FamilyLocation {
		t.Errorf("Family = %q, want location", got.Family)
	}
	if got.Origin != model.OriginSnippet {
		t.Errorf("Origin = %q, want %q", got.Origin, model.OriginSnippet)
	}
	if got.SourceURL != "https://example.com/blog" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
}

func TestExtract_KeywordMultipleOccurrences(t *testing.T) {
	e := New(testLibrary(t))

	corpus := []model.SourceText{
		{Origin: model.OriginComment, Content: "スターバックス最高！またスターバックス行きたい"},
	}

	raw := e.Extract(corpus)
	count := 0
	for _, r := range raw {
		if r.RuleID == "loc-starbucks" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("Expected 2 keyword hits, got %d", count)
	}
}

func TestExtract_NoDedup(t *testing.T) {
	e := New(testLibrary(t))

	// Same name appearing in two sources must yield two raw tuples
	corpus := []model.SourceText{
		{Origin: model.OriginTitle, Content: "ユニクロ購入品紹介"},
		{Origin: model.OriginDescription, Content: "ユニクロで買いました"},
	}

	raw := e.Extract(corpus)
	count := 0
	origins := map[model.Origin]bool{}
	for _, r := range raw {
		if r.RuleID == "item-uniqlo" {
			count++
			origins[r.Origin] = true
		}
	}
	if count != 2 {
		t.Errorf("Expected 2 raw tuples (no dedup), got %d", count)
	}
	if !origins[model.OriginTitle] || !origins[model.OriginDescription] {
		t.Errorf("Expected both origins preserved, got %v", origins)
	}
}

func TestExtract_NoMatches(t *testing.T) {
	e := New(testLibrary(t))

	corpus := []model.SourceText{
		{Origin: model.OriginTitle, Content: "#446【朝食!!】肉肉肉肉肉肉肉日"},
	}

	if raw := e.Extract(corpus); len(raw) != 0 {
		t.Errorf("Expected no candidates, got %+v", raw)
	}
}

func TestExtract_EmptyCorpus(t *testing.T) {
	e := New(testLibrary(t))
	if raw := e.Extract(nil); len(raw) != 0 {
		t.Errorf("Expected empty result for nil corpus, got %+v", raw)
	}
}

func TestCleanName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ラーメン屋に行ってきた", "ラーメン屋"},
		{"【渋谷カフェ】", "渋谷カフェ"},
		{"「一蘭」", "一蘭"},
		{"スターバックス  コーヒー", "スターバックス コーヒー"},
		{"ユニクロを購入", "ユニクロ"},
		{"お寿司を食べました", "お寿司"},
		{"ドン・キホーテ", "ドン・キホーテ"},
		{"、、渋谷店。", "渋谷店"},
		{"【】", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := CleanName(tc.in); got != tc.want {
			t.Errorf("CleanName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
