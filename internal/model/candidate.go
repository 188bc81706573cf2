package model

import "sort"

// RawCandidate is a single rule match before cleanup survives the
// noise filter. The extractor emits one per match; it never dedups.
type RawCandidate struct {
	RawName   string          `json:"raw_name"` // Matched substring after cleanup
	Category  string          `json:"category"` // Rule's category
	Family    CandidateFamily `json:"family"`
	Origin    Origin          `json:"origin"` // Source text the match came from
	RuleID    string          `json:"rule_id"`
	RuleKind  RuleKind        `json:"rule_kind"`
	SourceURL string          `json:"source_url,omitempty"`
}

// Candidate is an extracted, not-yet-confirmed entity name. Created by
// the extractor, refined by the scorer, merged by the ranker.
type Candidate struct {
	RawName        string          `json:"raw_name"`
	NormalizedName string          `json:"normalized_name"`
	Category       string          `json:"category"`
	Family         CandidateFamily `json:"family"`
	OriginsMatched []Origin        `json:"origins_matched"`
	MatchedRuleIDs []string        `json:"matched_rule_ids"`
	Confidence     int             `json:"confidence"` // 0-100
	Notes          string          `json:"notes,omitempty"`
	SourceURL      string          `json:"source_url,omitempty"`
}

// HasOrigin reports whether the candidate was seen in the given origin
func (c *Candidate) HasOrigin(origin Origin) bool {
	for _, o := range c.OriginsMatched {
		if o == origin {
			return true
		}
	}
	return false
}

// AddOrigin records an origin, keeping the set deduplicated and sorted
// so that candidate equality is stable across runs
func (c *Candidate) AddOrigin(origin Origin) {
	if c.HasOrigin(origin) {
		return
	}
	c.OriginsMatched = append(c.OriginsMatched, origin)
	sort.Slice(c.OriginsMatched, func(i, j int) bool {
		return c.OriginsMatched[i] < c.OriginsMatched[j]
	})
}

// AddRuleID records a matched rule id without duplicating it
func (c *Candidate) AddRuleID(id string) {
	for _, existing := range c.MatchedRuleIDs {
		if existing == id {
			return
		}
	}
	c.MatchedRuleIDs = append(c.MatchedRuleIDs, id)
	sort.Strings(c.MatchedRuleIDs)
}
