// Package pipeline orchestrates the curation stages for one subject:
// Aggregate → Extract → Filter → Score → Rank → Assemble. The pipeline
// is a straight line; every stage's failure mode is "produce an
// empty/partial result and continue", never a fatal abort.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kawaragi/meguri/internal/aggregate"
	"github.com/kawaragi/meguri/internal/extract"
	"github.com/kawaragi/meguri/internal/llm"
	"github.com/kawaragi/meguri/internal/model"
	"github.com/kawaragi/meguri/internal/noise"
	"github.com/kawaragi/meguri/internal/query"
	"github.com/kawaragi/meguri/internal/rank"
	"github.com/kawaragi/meguri/internal/rules"
	"github.com/kawaragi/meguri/internal/score"
)

// Pipeline owns per-run wiring. The rule library and noise filter are
// the only shared state; both are read-only after load, so one
// Pipeline is safe to use from concurrent batch workers as long as
// each call gets its own subject.
type Pipeline struct {
	extractor *extract.Extractor
	filter    *noise.Filter
	scorer    *score.Scorer
	agg       *aggregate.Aggregator
	weights   model.ScoringWeights
	briefer   *llm.Briefer // nil when the reviewer brief is disabled
	logger    *slog.Logger
}

// New wires a pipeline from configuration. comments and search may be
// nil; the corresponding sources then contribute no text.
func New(cfg *model.Config, lib *rules.Library, comments aggregate.CommentFetcher, search aggregate.SearchFetcher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	var briefer *llm.Briefer
	if cfg.LLM.Provider != "" {
		b, err := llm.NewBriefer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("reviewer brief disabled", "error", err)
		} else {
			briefer = b
		}
	}

	return &Pipeline{
		extractor: extract.New(lib),
		filter:    noise.New(lib.Noise()),
		scorer:    score.New(cfg.Scoring),
		agg:       aggregate.New(comments, search, cfg.HTTP.Timeout, cfg.Throttle.Interval, logger),
		weights:   cfg.Scoring,
		briefer:   briefer,
		logger:    logger,
	}
}

// Curate runs the full pipeline for one subject. It always returns a
// well-formed result, even when no source produced any text.
func (p *Pipeline) Curate(ctx context.Context, subject model.Subject) *model.CurationResult {
	start := time.Now()

	// First pass: subject text plus comments
	corpus, warnings := p.agg.Aggregate(ctx, subject)
	firstPass := p.extractor.Extract(corpus)

	// Feedback round: derive follow-up queries from what the first
	// pass found, fetch corroborating snippets, extract again
	queries := p.deriveQueries(subject, firstPass)
	snippets, snippetWarnings := p.agg.FetchSnippets(ctx, queries)
	warnings = append(warnings, snippetWarnings...)

	corpus = append(corpus, snippets...)
	raw := append(firstPass, p.extractor.Extract(snippets)...)

	// Filter, group, score
	kept, rejected := p.dropNoise(raw)
	candidates := p.buildCandidates(kept, corpus)

	var locations, items []model.Candidate
	for _, c := range candidates {
		switch c.Family {
		case model.FamilyLocation:
			locations = append(locations, c)
		case model.FamilyItem:
			items = append(items, c)
		}
	}

	result := assemble(subject, assembleInput{
		Locations: rank.Rank(locations, p.weights.MaxResults),
		Items:     rank.Rank(items, p.weights.MaxResults),
		Queries:   queries,
		Threshold: p.weights.ReviewThreshold,
		Diagnostics: model.Diagnostics{
			SourcesAggregated: len(corpus),
			RawMatches:        len(raw),
			NoiseRejected:     rejected,
			FetchWarnings:     warnings,
		},
		Elapsed: time.Since(start),
	})

	// Reviewer brief runs strictly after assembly and never touches
	// any confidence value
	if p.briefer != nil {
		brief, err := p.briefer.Generate(ctx, result)
		if err != nil {
			p.logger.Warn("reviewer brief generation failed", "subject_id", subject.ID, "error", err)
		} else if brief != nil {
			result.ReviewerBrief = brief
		}
	}

	return result
}

// deriveQueries collects cleaned first-pass names as query keywords
func (p *Pipeline) deriveQueries(subject model.Subject, raw []model.RawCandidate) []string {
	var locKeywords, itemKeywords []string
	seen := make(map[string]bool)

	for _, r := range raw {
		key := model.NormalizeName(r.RawName)
		if seen[key] || p.filter.IsNoiseMatch(key, r.Family, r.RuleKind) {
			continue
		}
		seen[key] = true
		switch r.Family {
		case model.FamilyLocation:
			locKeywords = append(locKeywords, r.RawName)
		case model.FamilyItem:
			itemKeywords = append(itemKeywords, r.RawName)
		}
	}

	return query.Generate(subject.Title, locKeywords, itemKeywords)
}

// dropNoise applies the noise filter to every raw match. Rejections
// are expected at high frequency and only counted.
func (p *Pipeline) dropNoise(raw []model.RawCandidate) ([]model.RawCandidate, int) {
	kept := raw[:0:0]
	rejected := 0
	for _, r := range raw {
		if p.filter.IsNoiseMatch(model.NormalizeName(r.RawName), r.Family, r.RuleKind) {
			rejected++
			continue
		}
		kept = append(kept, r)
	}
	return kept, rejected
}

// candidateKey groups raw matches that describe the same entity
type candidateKey struct {
	family model.CandidateFamily
	name   string
}

// buildCandidates groups raw matches by normalized name, scores each
// group against its surrounding corpus context, and returns unranked
// candidates. Final merging across near-identical names is the
// ranker's job.
func (p *Pipeline) buildCandidates(raw []model.RawCandidate, corpus []model.SourceText) []model.Candidate {
	groups := make(map[candidateKey]*model.Candidate)
	keyword := make(map[candidateKey]bool)
	var order []candidateKey

	for _, r := range raw {
		key := candidateKey{family: r.Family, name: model.NormalizeName(r.RawName)}
		c, ok := groups[key]
		if !ok {
			c = &model.Candidate{
				RawName:        r.RawName,
				NormalizedName: key.name,
				Category:       r.Category,
				Family:         r.Family,
				SourceURL:      r.SourceURL,
			}
			groups[key] = c
			order = append(order, key)
		}
		c.AddOrigin(r.Origin)
		c.AddRuleID(r.RuleID)
		if c.SourceURL == "" {
			c.SourceURL = r.SourceURL
		}
		if r.RuleKind == model.RuleKindKeyword {
			keyword[key] = true
		}
	}

	out := make([]model.Candidate, 0, len(order))
	for _, key := range order {
		c := groups[key]
		confidence, note := p.scorer.Score(score.Input{
			Family:         c.Family,
			KeywordMatched: keyword[key],
			Origins:        c.OriginsMatched,
			Context:        contextFor(key.name, corpus),
		})
		c.Confidence = confidence
		c.Notes = note
		out = append(out, *c)
	}
	return out
}

// contextFor joins the corpus texts that mention the candidate, giving
// the scorer its corroboration window
func contextFor(normalizedName string, corpus []model.SourceText) string {
	var b strings.Builder
	for _, src := range corpus {
		if strings.Contains(model.NormalizeName(src.Content), normalizedName) {
			b.WriteString(src.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}
