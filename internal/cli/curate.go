package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kawaragi/meguri/internal/aggregate"
	"github.com/kawaragi/meguri/internal/cache"
	"github.com/kawaragi/meguri/internal/fetch"
	"github.com/kawaragi/meguri/internal/model"
	"github.com/kawaragi/meguri/internal/pipeline"
	"github.com/kawaragi/meguri/internal/rules"
	"github.com/kawaragi/meguri/internal/worker"
	"github.com/spf13/cobra"
)

var (
	subjectTitle string
	subjectDesc  string
	outJSON      string
	outMD        string
	runTimeout   time.Duration
	throttle     time.Duration
	userAgent    string
	maxBytes     int64
	noCache      bool
	noFooter     bool
	fetchPages   bool
	rulesFile    string
	noiseFile    string
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// curateCmd represents the curate command
var curateCmd = &cobra.Command{
	Use:   "curate <episode-id>",
	Short: "Curate location/item candidates for one episode",
	Long: `Curate aggregates every text source available for an episode (title,
description, comments, web search snippets), extracts candidate
locations and items with the rule library, scores each candidate's
confidence, and writes a ranked report for human review.

The episode title is required (via --title) because titles are the
most reliable extraction signal. Comment and search fetchers activate
when their API keys are present in the environment:

  MEGURI_YOUTUBE_API_KEY      comment fetcher
  MEGURI_SEARCH_API_KEY       search fetcher
  MEGURI_SEARCH_ENGINE_ID     search fetcher

Example:
  meguri curate abc123 --title "#446【朝食!!】渋谷で肉祭り" --json report.json
  meguri curate abc123 --title "..." --md report.md --fetch-pages`,
	Args: cobra.ExactArgs(1),
	RunE: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)

	curateCmd.Flags().StringVarP(&subjectTitle, "title", "t", "", "episode title (required)")
	curateCmd.Flags().StringVar(&subjectDesc, "description", "", "episode description")
	_ = curateCmd.MarkFlagRequired("title")

	curateCmd.Flags().StringVar(&outJSON, "json", "curation.json", "output JSON path")
	curateCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	curateCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall curation timeout")
	curateCmd.Flags().DurationVar(&throttle, "throttle", 800*time.Millisecond, "delay between external API calls")
	curateCmd.Flags().StringVar(&userAgent, "ua", "Meguri/0.3 (+https://github.com/kawaragi/meguri)", "HTTP User-Agent")
	curateCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	curateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch response cache")
	curateCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	curateCmd.Flags().BoolVar(&fetchPages, "fetch-pages", false, "enrich search snippets with page text (respects robots.txt)")

	curateCmd.Flags().StringVar(&rulesFile, "rules", "", "rule library YAML override")
	curateCmd.Flags().StringVar(&noiseFile, "noise", "", "noise blocklist YAML override")

	curateCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate an LLM reviewer brief (never affects scores)")
	curateCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	curateCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runCurate(cmd *cobra.Command, args []string) error {
	subject := model.Subject{
		ID:          args[0],
		Title:       subjectTitle,
		Description: subjectDesc,
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	lib, err := rules.Load(cfg.Rules.RulesFile, cfg.Rules.NoiseFile)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	comments, search := buildFetchers(cfg)
	logger := newLogger()
	p := pipeline.New(cfg, lib, comments, search, logger)

	if verbose {
		fmt.Fprintf(os.Stderr, "Curating: %s (%s)\n", subject.Title, subject.ID)
		fmt.Fprintf(os.Stderr, "Rules: %d, comments: %v, search: %v\n\n",
			lib.Len(), comments != nil, search != nil)
	}

	result := p.Curate(ctx, subject)

	renderer := pipeline.NewRenderer(!noFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if result.ReviewerBrief != nil {
			briefPath := outMD[:len(outMD)-len(filepath.Ext(outMD))] + ".brief.md"
			if err := renderer.RenderBriefMarkdown(result.ReviewerBrief, briefPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to write reviewer brief: %v\n", err)
			}
		}
	}

	renderer.RenderSummary(result)
	return nil
}

// buildConfig assembles the engine config from defaults, config file
// values, and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.Throttle.Interval = throttle
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Rules.RulesFile = rulesFile
	cfg.Rules.NoiseFile = noiseFile

	if cfg.Cache.Dir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".meguri", "cache")
		} else {
			cfg.Cache.Enabled = false
		}
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

// buildFetchers wires the comment and search clients from environment
// credentials. A missing credential disables that source; the pipeline
// degrades gracefully.
func buildFetchers(cfg *model.Config) (aggregate.CommentFetcher, aggregate.SearchFetcher) {
	var responseCache cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		responseCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	// One limiter across every fetcher, so concurrent batch workers
	// share the per-host ceiling
	limiter := worker.NewLimiter(cfg.Throttle.RequestsPerSecond, cfg.Throttle.Burst)

	opts := fetch.Options{
		Timeout:      cfg.HTTP.Timeout,
		UserAgent:    cfg.HTTP.UserAgent,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		HTTPProxy:    cfg.HTTP.HTTPProxy,
		HTTPSProxy:   cfg.HTTP.HTTPSProxy,
		NoProxy:      cfg.HTTP.NoProxy,
		Cache:        responseCache,
		CacheTTL:     cfg.Cache.DiskTTL,
		Limiter:      limiter,
	}

	var comments aggregate.CommentFetcher
	if key := os.Getenv("MEGURI_YOUTUBE_API_KEY"); key != "" {
		comments = fetch.NewCommentClient("https://www.googleapis.com/youtube/v3", key, opts)
	}

	var search aggregate.SearchFetcher
	if key := os.Getenv("MEGURI_SEARCH_API_KEY"); key != "" {
		client := fetch.NewSearchClient("https://www.googleapis.com/customsearch/v1",
			key, os.Getenv("MEGURI_SEARCH_ENGINE_ID"), opts)
		if fetchPages {
			search = fetch.NewEnrichedSearch(client, fetch.NewPageFetcher(opts))
		} else {
			search = client
		}
	}

	return comments, search
}
