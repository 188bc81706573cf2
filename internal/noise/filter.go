// Package noise rejects false-positive candidates before they reach the
// scorer. Noise is the expected, high-frequency case: rejections are
// counted but never logged as errors.
package noise

import (
	"strings"
	"unicode"

	"github.com/kawaragi/meguri/internal/model"
)

// Bounds are rune-length limits for a candidate family
type Bounds struct {
	Min int
	Max int
}

// Filter holds the blocklist and the structural heuristics. Read-only
// after construction, safe for concurrent use.
type Filter struct {
	entries []model.NoiseEntry
	bounds  map[model.CandidateFamily]Bounds

	// Families whose candidates must contain Japanese script. Pure
	// ASCII or pure numeric matches in these families are almost always
	// transliterated brand fragments or counter noise.
	requireJapanese map[model.CandidateFamily]bool
}

// urlFragments inside a candidate name mean the match swallowed a link
var urlFragments = []string{"http", "://", ".com", ".jp", "www."}

// New creates a filter from blocklist entries with the default
// structural bounds (3-30 runes for locations, 3-25 for items).
func New(entries []model.NoiseEntry) *Filter {
	return &Filter{
		entries: entries,
		bounds: map[model.CandidateFamily]Bounds{
			model.FamilyLocation: {Min: 3, Max: 30},
			model.FamilyItem:     {Min: 3, Max: 25},
		},
		requireJapanese: map[model.CandidateFamily]bool{
			model.FamilyLocation: true,
		},
	}
}

// IsNoise reports whether a normalized candidate name should be
// dropped for the given family. All checks apply.
func (f *Filter) IsNoise(name string, family model.CandidateFamily) bool {
	return f.IsNoiseMatch(name, family, model.RuleKindPattern)
}

// IsNoiseMatch is IsNoise with the producing rule kind. Keyword rules
// carry curated chain and brand names, so their matches skip the
// structural heuristics (length bounds, script check) that exist to
// tame loose pattern captures; the blocklist and URL checks still
// apply. Short names like 一蘭 only enter the corpus through the
// curated tables.
func (f *Filter) IsNoiseMatch(name string, family model.CandidateFamily, kind model.RuleKind) bool {
	folded := strings.ToLower(strings.TrimSpace(name))
	if folded == "" {
		return true
	}

	// (a) Blocklist: exact match or substring containment
	for _, entry := range f.entries {
		if entry.AppliesTo != model.FamilyBoth && entry.AppliesTo != family {
			continue
		}
		term := strings.ToLower(entry.Term)
		if term != "" && strings.Contains(folded, term) {
			return true
		}
	}

	if kind != model.RuleKindKeyword {
		// (b) Length bounds
		if b, ok := f.bounds[family]; ok {
			n := len([]rune(folded))
			if n < b.Min || n > b.Max {
				return true
			}
		}

		// (c) Script check for Japanese-required families
		if f.requireJapanese[family] && !containsJapanese(name) {
			return true
		}
	}

	// (d) URL fragments
	for _, frag := range urlFragments {
		if strings.Contains(folded, frag) {
			return true
		}
	}

	return false
}

// containsJapanese reports whether any rune is hiragana, katakana, or
// a CJK ideograph
func containsJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}
