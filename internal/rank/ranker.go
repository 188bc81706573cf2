// Package rank merges duplicate candidates and orders the survivors.
// Ranking is idempotent: running it on its own output is a no-op.
package rank

import (
	"sort"
	"strings"

	"github.com/kawaragi/meguri/internal/model"
)

// DefaultMaxResults bounds the ranked list when no limit is configured
const DefaultMaxResults = 8

// Rank normalizes names, merges duplicates, folds containment pairs,
// sorts by confidence descending, and truncates to maxResults.
func Rank(candidates []model.Candidate, maxResults int) []model.Candidate {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if len(candidates) == 0 {
		return []model.Candidate{}
	}

	merged := mergeByName(candidates)
	merged = foldContainment(merged)

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Confidence != merged[j].Confidence {
			return merged[i].Confidence > merged[j].Confidence
		}
		// Tie-break: a title mention is the most reliable provenance
		iTitle := merged[i].HasOrigin(model.OriginTitle)
		jTitle := merged[j].HasOrigin(model.OriginTitle)
		if iTitle != jTitle {
			return iTitle
		}
		return merged[i].NormalizedName < merged[j].NormalizedName
	})

	if len(merged) > maxResults {
		merged = merged[:maxResults]
	}
	return merged
}

// mergeByName groups candidates with equal normalized names, keeping
// the highest-confidence entry and unioning provenance across the group
func mergeByName(candidates []model.Candidate) []model.Candidate {
	byName := make(map[string]*model.Candidate)
	var order []string

	for _, c := range candidates {
		key := model.NormalizeName(c.RawName)
		c.NormalizedName = key

		existing, ok := byName[key]
		if !ok {
			clone := c
			byName[key] = &clone
			order = append(order, key)
			continue
		}
		absorb(existing, &c)
	}

	out := make([]model.Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, *byName[key])
	}
	return out
}

// foldContainment merges same-family candidates where one normalized
// name is a prefix of the other once whitespace is removed, so that
// "スターバックス" and "スターバックス コーヒー" survive as one entry
// carrying the union of both provenances. Folding repeats until no
// pair remains, which keeps ranking idempotent.
func foldContainment(candidates []model.Candidate) []model.Candidate {
	for {
		merged := false
		for i := 0; i < len(candidates) && !merged; i++ {
			for j := i + 1; j < len(candidates); j++ {
				if candidates[i].Family != candidates[j].Family {
					continue
				}
				if !containsPrefix(candidates[i].NormalizedName, candidates[j].NormalizedName) {
					continue
				}

				// Survivor keeps the higher-confidence name
				survivor, absorbed := i, j
				if candidates[j].Confidence > candidates[i].Confidence {
					survivor, absorbed = j, i
				}
				absorb(&candidates[survivor], &candidates[absorbed])
				candidates = append(candidates[:absorbed], candidates[absorbed+1:]...)
				merged = true
				break
			}
		}
		if !merged {
			return candidates
		}
	}
}

// containsPrefix reports whether one name is a whitespace-insensitive
// prefix of the other
func containsPrefix(a, b string) bool {
	ca := strings.ReplaceAll(a, " ", "")
	cb := strings.ReplaceAll(b, " ", "")
	if ca == "" || cb == "" {
		return false
	}
	return strings.HasPrefix(ca, cb) || strings.HasPrefix(cb, ca)
}

// absorb merges src's provenance into dst, keeping the highest
// confidence seen across the pair
func absorb(dst, src *model.Candidate) {
	if src.Confidence > dst.Confidence {
		dst.Confidence = src.Confidence
	}
	for _, o := range src.OriginsMatched {
		dst.AddOrigin(o)
	}
	for _, id := range src.MatchedRuleIDs {
		dst.AddRuleID(id)
	}
	if dst.SourceURL == "" {
		dst.SourceURL = src.SourceURL
	}
	if src.Notes != "" && !strings.Contains(dst.Notes, src.Notes) {
		if dst.Notes == "" {
			dst.Notes = src.Notes
		} else {
			dst.Notes = dst.Notes + "; " + src.Notes
		}
	}
}
