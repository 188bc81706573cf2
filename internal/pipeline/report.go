package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/kawaragi/meguri/internal/model"
)

// assembleInput carries the ranked output and diagnostics into the
// report assembler
type assembleInput struct {
	Locations   []model.Candidate
	Items       []model.Candidate
	Queries     []string
	Threshold   int
	Diagnostics model.Diagnostics
	Elapsed     time.Duration
}

// assemble packages the final immutable result plus a short
// human-readable note for the reviewer. No network or storage side
// effects.
func assemble(subject model.Subject, in assembleInput) *model.CurationResult {
	return &model.CurationResult{
		SubjectID:          subject.ID,
		SubjectTitle:       subject.Title,
		LocationCandidates: in.Locations,
		ItemCandidates:     in.Items,
		SearchQueriesUsed:  in.Queries,
		ManualNotes:        manualNotes(in),
		ProcessingTimeMs:   in.Elapsed.Milliseconds(),
		CuratedAt:          time.Now().UTC(),
		Diagnostics:        in.Diagnostics,
	}
}

// manualNotes derives the reviewer guidance with simple rule-based
// heuristics
func manualNotes(in assembleInput) string {
	var notes []string

	if in.Diagnostics.SourcesAggregated == 0 {
		notes = append(notes, "no text sources available - manual review required")
	}

	if len(in.Locations) == 0 {
		notes = append(notes, "no location candidates found - manual video review recommended")
	} else {
		high := countAtOrAbove(in.Locations, in.Threshold)
		if high > 0 {
			notes = append(notes, fmt.Sprintf("%d high-confidence location candidate(s) - proceed to linking", high))
		} else {
			notes = append(notes, "only low-confidence location candidates - verify against the video before linking")
		}
	}

	if len(in.Items) == 0 {
		notes = append(notes, "no item candidates found")
	} else {
		high := countAtOrAbove(in.Items, in.Threshold)
		if high > 0 {
			notes = append(notes, fmt.Sprintf("%d high-confidence item candidate(s) - proceed to linking", high))
		} else {
			notes = append(notes, "only low-confidence item candidates - verify before linking")
		}
	}

	if len(in.Diagnostics.FetchWarnings) > 0 {
		notes = append(notes, fmt.Sprintf("%d source(s) degraded during aggregation", len(in.Diagnostics.FetchWarnings)))
	}

	return strings.Join(notes, "; ")
}

func countAtOrAbove(candidates []model.Candidate, threshold int) int {
	n := 0
	for _, c := range candidates {
		if c.Confidence >= threshold {
			n++
		}
	}
	return n
}
