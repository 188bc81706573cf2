package model

import "time"

// CurationResult is the final output for one subject, consumed by a
// human reviewer or a persistence step outside this engine. Immutable
// after assembly.
type CurationResult struct {
	SubjectID          string      `json:"subject_id"`
	SubjectTitle       string      `json:"subject_title"`
	LocationCandidates []Candidate `json:"location_candidates"`
	ItemCandidates     []Candidate `json:"item_candidates"`
	SearchQueriesUsed  []string    `json:"search_queries_used"`
	ManualNotes        string      `json:"manual_notes"`
	ProcessingTimeMs   int64       `json:"processing_time_ms"`
	CuratedAt          time.Time   `json:"curated_at"`

	Diagnostics Diagnostics `json:"diagnostics"`

	// ReviewerBrief is the optional LLM-generated brief. It is produced
	// strictly after scoring and never affects any confidence value.
	ReviewerBrief *ReviewerBrief `json:"reviewer_brief,omitempty"`
}

// Diagnostics records what each pipeline stage saw, for auditability
type Diagnostics struct {
	SourcesAggregated int      `json:"sources_aggregated"`
	RawMatches        int      `json:"raw_matches"`
	NoiseRejected     int      `json:"noise_rejected"`
	FetchWarnings     []string `json:"fetch_warnings,omitempty"`
}

// ReviewerBrief is an optional LLM summary for the human reviewer
type ReviewerBrief struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	BriefMD  string   `json:"brief_md,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
