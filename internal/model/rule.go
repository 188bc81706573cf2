package model

// RuleKind distinguishes how a rule's matcher is applied
type RuleKind string

const (
	RuleKindKeyword RuleKind = "keyword" // Case-insensitive substring containment
	RuleKindPattern RuleKind = "pattern" // Regular expression match
)

// CandidateFamily groups categories into the two curated entity families
type CandidateFamily string

const (
	FamilyLocation CandidateFamily = "location" // Physical places (restaurants, shops, landmarks)
	FamilyItem     CandidateFamily = "item"     // Consumer items (fashion, food, gadgets)
	FamilyBoth     CandidateFamily = "both"
)

// Rule is one entry of the rule library. Static, loaded at process
// start, never mutated at runtime.
type Rule struct {
	ID         string          `json:"id" yaml:"id"`
	Category   string          `json:"category" yaml:"category"`
	Family     CandidateFamily `json:"family" yaml:"family"`
	Kind       RuleKind        `json:"kind" yaml:"kind"`
	Matcher    string          `json:"matcher" yaml:"matcher"`
	WeightHint int             `json:"weight_hint,omitempty" yaml:"weight_hint,omitempty"`
}

// NoiseEntry is one blocklist term of the noise filter
type NoiseEntry struct {
	Term      string          `json:"term" yaml:"term"`
	AppliesTo CandidateFamily `json:"applies_to" yaml:"applies_to"`
}
