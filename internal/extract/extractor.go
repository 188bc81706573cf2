// Package extract sweeps a tagged corpus with the rule library and
// produces raw candidate tuples. It deliberately performs no
// deduplication; that is the ranker's sole responsibility.
package extract

import (
	"strings"

	"github.com/kawaragi/meguri/internal/model"
	"github.com/kawaragi/meguri/internal/rules"
)

// Extractor applies every applicable rule to every source text
type Extractor struct {
	lib *rules.Library
}

// New creates an extractor over the given rule library
func New(lib *rules.Library) *Extractor {
	return &Extractor{lib: lib}
}

// Extract finds all non-overlapping rule matches in the corpus. Each
// match yields one RawCandidate; a rule may fire multiple times per
// text.
func (e *Extractor) Extract(corpus []model.SourceText) []model.RawCandidate {
	var raw []model.RawCandidate

	for _, src := range corpus {
		for _, rule := range e.lib.Rules() {
			for _, match := range matchRule(rule, src.Content) {
				name := CleanName(match)
				if name == "" {
					continue
				}
				raw = append(raw, model.RawCandidate{
					RawName:   name,
					Category:  rule.Category,
					Family:    rule.Family,
					Origin:    src.Origin,
					RuleID:    rule.ID,
					RuleKind:  rule.Kind,
					SourceURL: src.SourceURL,
				})
			}
		}
	}

	return raw
}

// matchRule returns all non-overlapping matches of one rule in text
func matchRule(rule rules.CompiledRule, text string) []string {
	switch rule.Kind {
	case model.RuleKindKeyword:
		return keywordMatches(text, rule.Matcher)
	case model.RuleKindPattern:
		return rule.Pattern.FindAllString(text, -1)
	}
	return nil
}

// keywordMatches finds every case-insensitive occurrence of the
// keyword, returning the keyword itself per hit
func keywordMatches(text, keyword string) []string {
	lowerText := strings.ToLower(text)
	lowerKw := strings.ToLower(keyword)
	if lowerKw == "" {
		return nil
	}

	var matches []string
	for offset := 0; ; {
		idx := strings.Index(lowerText[offset:], lowerKw)
		if idx < 0 {
			break
		}
		matches = append(matches, keyword)
		offset += idx + len(lowerKw)
	}
	return matches
}
