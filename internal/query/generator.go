// Package query derives follow-up search-engine queries used to fetch
// corroborating text. Pure string composition, no I/O.
package query

import "strings"

// MaxQueries bounds the generated set
const MaxQueries = 8

var (
	titleSuffixes    = []string{"ロケ地", "撮影場所", "店舗", "着用"}
	locationSuffixes = []string{"場所", "アクセス"}
	itemSuffixes     = []string{"ブランド", "購入"}
)

// titleCleaner drops decoration that hurts search recall
var titleCleaner = strings.NewReplacer(
	"【", " ", "】", " ",
	"[", " ", "]", " ",
	"!", " ", "！", " ",
	"?", " ", "？", " ",
	"#", " ",
)

// Generate combines the subject title with fixed suffix templates and
// already-extracted keywords with category-appropriate suffixes. The
// result is deterministic, deduplicated, and bounded by MaxQueries.
func Generate(subjectTitle string, locationKeywords, itemKeywords []string) []string {
	queries := make([]string, 0, MaxQueries)
	seen := make(map[string]bool)

	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] || len(queries) >= MaxQueries {
			return
		}
		seen[q] = true
		queries = append(queries, q)
	}

	title := cleanTitle(subjectTitle)
	if title != "" {
		for _, suffix := range titleSuffixes {
			add(title + " " + suffix)
		}
	}

	for _, kw := range locationKeywords {
		for _, suffix := range locationSuffixes {
			add(kw + " " + suffix)
		}
	}
	for _, kw := range itemKeywords {
		for _, suffix := range itemSuffixes {
			add(kw + " " + suffix)
		}
	}

	return queries
}

func cleanTitle(title string) string {
	return strings.Join(strings.Fields(titleCleaner.Replace(title)), " ")
}
