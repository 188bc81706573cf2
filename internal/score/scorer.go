// Package score assigns 0-100 confidence values to candidates. Scoring
// is deterministic and side-effect free: identical inputs always
// produce identical scores.
package score

import (
	"fmt"
	"strings"

	"github.com/kawaragi/meguri/internal/model"
	"github.com/kawaragi/meguri/internal/rules"
)

// Scorer applies the configured weights. Read-only after construction.
type Scorer struct {
	weights model.ScoringWeights
	brands  []string
}

// New creates a scorer with the given weights
func New(weights model.ScoringWeights) *Scorer {
	brands := make([]string, 0, len(rules.BrandTokens()))
	for _, b := range rules.BrandTokens() {
		brands = append(brands, strings.ToLower(b))
	}
	return &Scorer{weights: weights, brands: brands}
}

// Input is everything the scorer looks at for one candidate
type Input struct {
	Family         model.CandidateFamily
	KeywordMatched bool           // Any keyword-kind rule fired (vs pattern only)
	Origins        []model.Origin // Distinct origins the name was found in
	Context        string         // Surrounding corpus text for corroboration
}

// Score computes the confidence and a short note describing which
// bonuses applied. The result is clipped to [0,100].
func (s *Scorer) Score(in Input) (int, string) {
	var reasons []string

	score := s.weights.PatternBase
	if in.KeywordMatched {
		score = s.weights.KeywordBase
	}

	for _, origin := range in.Origins {
		switch origin {
		case model.OriginTitle:
			score += s.weights.TitleOriginBonus
			reasons = append(reasons, "title mention")
		case model.OriginDescription:
			score += s.weights.DescriptionOriginBonus
			reasons = append(reasons, "description mention")
		case model.OriginSnippet:
			score += s.weights.SearchOriginBonus
			reasons = append(reasons, "search corroboration")
		case model.OriginComment:
			score += s.weights.CommentOriginBonus
			reasons = append(reasons, "comment mention")
		}
	}

	context := strings.ToLower(in.Context)
	switch in.Family {
	case model.FamilyLocation:
		if strings.Contains(context, "住所") {
			score += s.weights.AddressContextBonus
			reasons = append(reasons, "address nearby")
		}
		if strings.Contains(context, "営業時間") {
			score += s.weights.HoursContextBonus
			reasons = append(reasons, "hours nearby")
		}
		if strings.Contains(context, "予約") {
			score += s.weights.ReservationContextBonus
			reasons = append(reasons, "reservation nearby")
		}
		if strings.Contains(context, "電話") {
			score += s.weights.ReservationContextBonus
			reasons = append(reasons, "phone nearby")
		}
	case model.FamilyItem:
		if strings.ContainsAny(context, "¥円") || strings.Contains(context, "価格") {
			score += s.weights.PriceContextBonus
			reasons = append(reasons, "price nearby")
		}
		for _, brand := range s.brands {
			if strings.Contains(context, brand) {
				score += s.weights.BrandContextBonus
				reasons = append(reasons, "brand nearby")
				break
			}
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return score, strings.Join(reasons, "; ")
}

// ReviewThreshold returns the canonical confidence cutoff the report
// uses when recommending candidates for linking.
func (s *Scorer) ReviewThreshold() int {
	return s.weights.ReviewThreshold
}

// Describe renders the weight table for diagnostics output
func (s *Scorer) Describe() string {
	w := s.weights
	return fmt.Sprintf("base keyword=%d pattern=%d; origin title=%d desc=%d search=%d comment=%d; threshold=%d",
		w.KeywordBase, w.PatternBase, w.TitleOriginBonus, w.DescriptionOriginBonus,
		w.SearchOriginBonus, w.CommentOriginBonus, w.ReviewThreshold)
}
