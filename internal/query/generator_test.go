package query

import (
	"reflect"
	"testing"
)

func TestGenerate_TitleTemplates(t *testing.T) {
	got := Generate("東京さんぽ", nil, nil)

	want := []string{
		"東京さんぽ ロケ地",
		"東京さんぽ 撮影場所",
		"東京さんぽ 店舗",
		"東京さんぽ 着用",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate = %v, want %v", got, want)
	}
}

func TestGenerate_TitleCleaning(t *testing.T) {
	got := Generate("#446【朝食!!】東京さんぽ", nil, nil)
	if len(got) == 0 {
		t.Fatal("Expected queries from decorated title")
	}
	if got[0] != "446 朝食 東京さんぽ ロケ地" {
		t.Errorf("First query = %q", got[0])
	}
}

func TestGenerate_KeywordSuffixes(t *testing.T) {
	got := Generate("", []string{"一蘭"}, []string{"ユニクロ"})

	want := []string{
		"一蘭 場所",
		"一蘭 アクセス",
		"ユニクロ ブランド",
		"ユニクロ 購入",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate = %v, want %v", got, want)
	}
}

func TestGenerate_Bounded(t *testing.T) {
	locs := []string{"一蘭", "明治神宮", "東京タワー", "浅草寺", "上野公園"}
	items := []string{"ユニクロ", "ナイキ", "カシオ"}

	got := Generate("東京さんぽ", locs, items)
	if len(got) > MaxQueries {
		t.Errorf("Generated %d queries, max is %d", len(got), MaxQueries)
	}
}

func TestGenerate_Dedup(t *testing.T) {
	got := Generate("", []string{"一蘭", "一蘭"}, nil)
	if len(got) != 2 {
		t.Errorf("Expected 2 deduplicated queries, got %v", got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate("東京さんぽ", []string{"一蘭"}, []string{"ユニクロ"})
	for i := 0; i < 3; i++ {
		if got := Generate("東京さんぽ", []string{"一蘭"}, []string{"ユニクロ"}); !reflect.DeepEqual(got, first) {
			t.Fatalf("Generate not deterministic: %v vs %v", got, first)
		}
	}
}

func TestGenerate_Empty(t *testing.T) {
	if got := Generate("", nil, nil); len(got) != 0 {
		t.Errorf("Expected no queries, got %v", got)
	}
	if got := Generate("【!!】", nil, nil); len(got) != 0 {
		t.Errorf("Expected no queries from decoration-only title, got %v", got)
	}
}
