package score

import (
	"testing"

	"github.com/kawaragi/meguri/internal/model"
)

func TestScore_Deterministic(t *testing.T) {
	s := New(model.DefaultScoringWeights())
	in := Input{
		Family:         model.FamilyLocation,
		KeywordMatched: true,
		Origins:        []model.Origin{model.OriginTitle, model.OriginSnippet},
		Context:        "住所は東京都渋谷区、営業時間は11時から",
	}

	first, firstNote := s.Score(in)
	for i := 0; i < 5; i++ {
		got, note := s.Score(in)
		if got != first || note != firstNote {
			t.Fatalf("Score not deterministic: (%d, %q) vs (%d, %q)", first, firstNote, got, note)
		}
	}
}

func TestScore_Bounds(t *testing.T) {
	s := New(model.DefaultScoringWeights())

	// Every bonus at once must still clamp to 100
	max, _ := s.Score(Input{
		Family:         model.FamilyLocation,
		KeywordMatched: true,
		Origins: []model.Origin{
			model.OriginTitle, model.OriginDescription,
			model.OriginComment, model.OriginSnippet,
		},
		Context: "住所 営業時間 予約 電話",
	})
	if max > 100 {
		t.Errorf("Score exceeded 100: %d", max)
	}
	if max != 100 {
		t.Errorf("Expected full-bonus score to clamp at 100, got %d", max)
	}

	min, _ := s.Score(Input{Family: model.FamilyItem})
	if min < 0 || min > 100 {
		t.Errorf("Score out of bounds: %d", min)
	}
}

func TestScore_KeywordBaseAbovePattern(t *testing.T) {
	s := New(model.DefaultScoringWeights())

	kw, _ := s.Score(Input{Family: model.FamilyLocation, KeywordMatched: true})
	pat, _ := s.Score(Input{Family: model.FamilyLocation, KeywordMatched: false})
	if kw <= pat {
		t.Errorf("Keyword base %d should exceed pattern base %d", kw, pat)
	}
}

func TestScore_OriginMonotonicity(t *testing.T) {
	s := New(model.DefaultScoringWeights())

	// Adding an origin never lowers the score
	base := Input{Family: model.FamilyLocation, KeywordMatched: true}
	prev, _ := s.Score(base)
	origins := []model.Origin{
		model.OriginTitle, model.OriginDescription,
		model.OriginSnippet, model.OriginComment,
	}
	for i := range origins {
		in := base
		in.Origins = origins[:i+1]
		got, _ := s.Score(in)
		if got < prev {
			t.Errorf("Score dropped from %d to %d after adding origin %s", prev, got, origins[i])
		}
		prev = got
	}
}

func TestScore_LocationContextBonuses(t *testing.T) {
	s := New(model.DefaultScoringWeights())
	w := model.DefaultScoringWeights()

	base, _ := s.Score(Input{Family: model.FamilyLocation})

	cases := []struct {
		context string
		bonus   int
		reason  string
	}{
		{"住所: 東京都", w.AddressContextBonus, "address nearby"},
		{"営業時間 10:00-22:00", w.HoursContextBonus, "hours nearby"},
		{"予約はこちら", w.ReservationContextBonus, "reservation nearby"},
		{"電話 03-1234-5678", w.ReservationContextBonus, "phone nearby"},
	}
	for _, tc := range cases {
		got, note := s.Score(Input{Family: model.FamilyLocation, Context: tc.context})
		if got != base+tc.bonus {
			t.Errorf("Context %q: score %d, want %d", tc.context, got, base+tc.bonus)
		}
		if note != tc.reason {
			t.Errorf("Context %q: note %q, want %q", tc.context, note, tc.reason)
		}
	}
}

func TestScore_ItemContextBonuses(t *testing.T) {
	s := New(model.DefaultScoringWeights())
	w := model.DefaultScoringWeights()

	base, _ := s.Score(Input{Family: model.FamilyItem})

	priced, _ := s.Score(Input{Family: model.FamilyItem, Context: "価格は2990円でした"})
	if priced != base+w.PriceContextBonus {
		t.Errorf("Price context: score %d, want %d", priced, base+w.PriceContextBonus)
	}

	branded, _ := s.Score(Input{Family: model.FamilyItem, Context: "ユニクロで見つけた"})
	if branded != base+w.BrandContextBonus {
		t.Errorf("Brand context: score %d, want %d", branded, base+w.BrandContextBonus)
	}

	// Location context cues must not apply to items
	located, _ := s.Score(Input{Family: model.FamilyItem, Context: "住所 営業時間"})
	if located != base {
		t.Errorf("Location cues applied to item: score %d, want %d", located, base)
	}
}

func TestScore_SearchCorroborationAboveThreshold(t *testing.T) {
	// A pattern-matched location corroborated by search with address
	// and hours context must clear the review threshold
	s := New(model.DefaultScoringWeights())

	got, _ := s.Score(Input{
		Family:  model.FamilyLocation,
		Origins: []model.Origin{model.OriginSnippet},
		Context: "渋谷ハンバーグ店 住所: 東京都渋谷区 営業時間 11:00-21:00",
	})
	if got < s.ReviewThreshold() {
		t.Errorf("Corroborated pattern candidate scored %d, below threshold %d", got, s.ReviewThreshold())
	}
}

func TestReviewThreshold(t *testing.T) {
	s := New(model.DefaultScoringWeights())
	if s.ReviewThreshold() != model.DefaultScoringWeights().ReviewThreshold {
		t.Errorf("ReviewThreshold = %d, want %d", s.ReviewThreshold(), model.DefaultScoringWeights().ReviewThreshold)
	}
}
