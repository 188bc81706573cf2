package rules

import (
	"fmt"
	"regexp"

	"github.com/kawaragi/meguri/internal/model"
)

// CompiledRule is a rule with its pattern compiled. Compilation happens
// once at library load; a malformed pattern is a configuration error.
type CompiledRule struct {
	model.Rule
	Pattern *regexp.Regexp // nil for keyword-kind rules
}

// Library is the immutable rule table the whole pipeline shares.
// It is read-only after construction and safe for concurrent use.
type Library struct {
	rules []CompiledRule
	noise []model.NoiseEntry
}

// NewLibrary compiles a rule set into a Library. Any invalid regex or
// incomplete rule fails the whole load; rule problems are never
// discovered during per-subject processing.
func NewLibrary(ruleSpecs []model.Rule, noise []model.NoiseEntry) (*Library, error) {
	compiled := make([]CompiledRule, 0, len(ruleSpecs))
	seen := make(map[string]bool, len(ruleSpecs))

	for _, spec := range ruleSpecs {
		if spec.ID == "" {
			return nil, fmt.Errorf("rule with matcher %q has no id", spec.Matcher)
		}
		if seen[spec.ID] {
			return nil, fmt.Errorf("duplicate rule id %q", spec.ID)
		}
		seen[spec.ID] = true

		if spec.Matcher == "" {
			return nil, fmt.Errorf("rule %s: empty matcher", spec.ID)
		}
		if spec.Family != model.FamilyLocation && spec.Family != model.FamilyItem {
			return nil, fmt.Errorf("rule %s: family must be location or item, got %q", spec.ID, spec.Family)
		}

		cr := CompiledRule{Rule: spec}
		switch spec.Kind {
		case model.RuleKindKeyword:
			// Matched by case-insensitive containment at extraction time
		case model.RuleKindPattern:
			re, err := regexp.Compile(spec.Matcher)
			if err != nil {
				return nil, fmt.Errorf("rule %s: compile pattern: %w", spec.ID, err)
			}
			cr.Pattern = re
		default:
			return nil, fmt.Errorf("rule %s: unknown kind %q", spec.ID, spec.Kind)
		}

		compiled = append(compiled, cr)
	}

	return &Library{rules: compiled, noise: noise}, nil
}

// Rules returns every compiled rule
func (l *Library) Rules() []CompiledRule {
	return l.rules
}

// ForFamily returns the subset of rules for one candidate family
func (l *Library) ForFamily(family model.CandidateFamily) []CompiledRule {
	var subset []CompiledRule
	for _, r := range l.rules {
		if r.Family == family {
			subset = append(subset, r)
		}
	}
	return subset
}

// Noise returns the blocklist entries loaded alongside the rules
func (l *Library) Noise() []model.NoiseEntry {
	return l.noise
}

// Len returns the number of rules in the library
func (l *Library) Len() int {
	return len(l.rules)
}
