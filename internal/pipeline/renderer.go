package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kawaragi/meguri/internal/model"
)

// Renderer writes curation results to disk and to stdout
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON
func (r *Renderer) RenderJSON(result *model.CurationResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a reviewer-facing Markdown report
func (r *Renderer) RenderMarkdown(result *model.CurationResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Curation: %s\n\n", result.SubjectTitle)
	fmt.Fprintf(&b, "Subject ID: `%s`  \n", result.SubjectID)
	fmt.Fprintf(&b, "Processed in %d ms, %d sources, %d raw matches (%d noise)\n\n",
		result.ProcessingTimeMs,
		result.Diagnostics.SourcesAggregated,
		result.Diagnostics.RawMatches,
		result.Diagnostics.NoiseRejected)

	writeCandidateTable(&b, "Location candidates", result.LocationCandidates)
	writeCandidateTable(&b, "Item candidates", result.ItemCandidates)

	if len(result.SearchQueriesUsed) > 0 {
		b.WriteString("## Search queries used\n\n")
		for _, q := range result.SearchQueriesUsed {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Notes\n\n%s\n", result.ManualNotes)

	if r.includeFooter {
		b.WriteString("\n---\nGenerated by meguri. Candidates are heuristic suggestions; confirm against the video before persisting.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func writeCandidateTable(b *strings.Builder, heading string, candidates []model.Candidate) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if len(candidates) == 0 {
		b.WriteString("_none_\n\n")
		return
	}

	b.WriteString("| Name | Category | Confidence | Origins | Notes |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, c := range candidates {
		origins := make([]string, 0, len(c.OriginsMatched))
		for _, o := range c.OriginsMatched {
			origins = append(origins, string(o))
		}
		fmt.Fprintf(b, "| %s | %s | %d | %s | %s |\n",
			c.RawName, c.Category, c.Confidence, strings.Join(origins, ", "), c.Notes)
	}
	b.WriteString("\n")
}

// RenderSummary prints a one-screen summary to stdout
func (r *Renderer) RenderSummary(result *model.CurationResult) {
	fmt.Printf("Subject: %s (%s)\n", result.SubjectTitle, result.SubjectID)
	fmt.Printf("Locations: %d, Items: %d, Queries: %d, %d ms\n",
		len(result.LocationCandidates), len(result.ItemCandidates),
		len(result.SearchQueriesUsed), result.ProcessingTimeMs)

	for _, c := range topN(result.LocationCandidates, 3) {
		fmt.Printf("  [loc %3d] %s (%s)\n", c.Confidence, c.RawName, c.Category)
	}
	for _, c := range topN(result.ItemCandidates, 3) {
		fmt.Printf("  [item %3d] %s (%s)\n", c.Confidence, c.RawName, c.Category)
	}

	fmt.Printf("Notes: %s\n", result.ManualNotes)
}

func topN(candidates []model.Candidate, n int) []model.Candidate {
	if len(candidates) < n {
		return candidates
	}
	return candidates[:n]
}

// RenderBriefMarkdown writes the optional reviewer brief to its own
// file, kept separate from the scored report
func (r *Renderer) RenderBriefMarkdown(brief *model.ReviewerBrief, path string) error {
	if brief == nil || brief.BriefMD == "" {
		return nil
	}
	var b strings.Builder
	b.WriteString("# Reviewer brief (LLM-generated)\n\n")
	b.WriteString("This brief is advisory only and never affects confidence scores.\n\n")
	b.WriteString(brief.BriefMD)
	b.WriteString("\n")
	if len(brief.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range brief.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write brief: %w", err)
	}
	return nil
}
