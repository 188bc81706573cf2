package llm

import (
	"fmt"
	"strings"

	"github.com/kawaragi/meguri/internal/model"
)

// BuildPrompt constructs the default prompt for brief generation. The
// prompt carries the scored result verbatim; the model is asked to
// orient the reviewer, not to re-score anything.
func BuildPrompt(result *model.CurationResult) string {
	var b strings.Builder

	b.WriteString(`You are writing a short brief for a human curator reviewing entity candidates extracted from a video episode.

RULES:
1. Candidate names and confidence scores below are final. Do not adjust, re-rank, or second-guess them.
2. Do not invent locations or items that are not listed.
3. Point out which candidates deserve the reviewer's attention first and why.
4. If the lists are empty or weak, say so plainly and recommend manual video review.

`)

	fmt.Fprintf(&b, "Episode: %s (id %s)\n", result.SubjectTitle, result.SubjectID)
	fmt.Fprintf(&b, "Pipeline notes: %s\n\n", result.ManualNotes)

	writeCandidates(&b, "Location candidates", result.LocationCandidates)
	writeCandidates(&b, "Item candidates", result.ItemCandidates)

	b.WriteString("\nWrite a 3-5 sentence brief in plain English.")
	return b.String()
}

func writeCandidates(b *strings.Builder, heading string, candidates []model.Candidate) {
	fmt.Fprintf(b, "%s:\n", heading)
	if len(candidates) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, c := range candidates {
		fmt.Fprintf(b, "  - %s [%s] confidence %d (%s)\n",
			c.RawName, c.Category, c.Confidence, c.Notes)
	}
}
