package model

import "time"

// Config holds the complete engine configuration.
// Hierarchy (highest to lowest priority): CLI flags, MEGURI_* env vars,
// config file (~/.meguri/config.yaml), defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Throttle    ThrottleConfig    `yaml:"throttle"`
	Scoring     ScoringWeights    `yaml:"scoring"`
	Rules       RulesConfig       `yaml:"rules"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
	LLM         LLMConfig         `yaml:"llm"`
}

// HTTPConfig controls the outbound HTTP clients (fetchers)
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`        // Per external call
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty"`
}

// ThrottleConfig is the fixed-interval delay between successive external
// calls. This is a flat pause to respect third-party quotas, not an
// adaptive backoff.
type ThrottleConfig struct {
	Interval          time.Duration `yaml:"interval"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // Per-host ceiling
	Burst             int           `yaml:"burst"`
}

// ScoringWeights enumerates every scoring constant explicitly so that
// scoring behavior is auditable and testable in isolation.
type ScoringWeights struct {
	KeywordBase int `yaml:"keyword_base"` // Base score for keyword-rule matches
	PatternBase int `yaml:"pattern_base"` // Base score for pattern-rule matches

	TitleOriginBonus       int `yaml:"title_origin_bonus"`
	DescriptionOriginBonus int `yaml:"description_origin_bonus"`
	SearchOriginBonus      int `yaml:"search_origin_bonus"`
	CommentOriginBonus     int `yaml:"comment_origin_bonus"`

	AddressContextBonus     int `yaml:"address_context_bonus"`     // 住所
	HoursContextBonus       int `yaml:"hours_context_bonus"`       // 営業時間
	ReservationContextBonus int `yaml:"reservation_context_bonus"` // 予約 / 電話
	PriceContextBonus       int `yaml:"price_context_bonus"`       // ¥ / 円 / 価格
	BrandContextBonus       int `yaml:"brand_context_bonus"`       // Known brand token nearby

	// ReviewThreshold is the single canonical confidence cutoff the
	// report uses when recommending candidates for linking.
	ReviewThreshold int `yaml:"review_threshold"`

	MaxResults int `yaml:"max_results"` // Ranked list bound per family
}

// RulesConfig points at optional rule/noise overrides on disk; empty
// paths mean the built-in library is used.
type RulesConfig struct {
	RulesFile string `yaml:"rules_file,omitempty"`
	NoiseFile string `yaml:"noise_file,omitempty"`
}

// CacheConfig controls the layered fetch-response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds the batch worker pool
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// LLMConfig configures the optional reviewer brief. Disabled unless a
// provider is set; never affects confidence scoring.
type LLMConfig struct {
	Provider  string `yaml:"provider,omitempty"` // "openai", "ollama", or empty (disabled)
	Model     string `yaml:"model,omitempty"`
	APIKey    string `yaml:"-"` // From env only, never serialized
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout,omitempty"` // Seconds
	MaxTokens int    `yaml:"max_tokens,omitempty"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "Meguri/0.3 (+https://github.com/kawaragi/meguri)",
			MaxBodyBytes: 2_000_000,
		},
		Throttle: ThrottleConfig{
			Interval:          800 * time.Millisecond,
			RequestsPerSecond: 2,
			Burst:             1,
		},
		Scoring: DefaultScoringWeights(),
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 3,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 800,
		},
	}
}

// DefaultScoringWeights returns the canonical scoring constants
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		KeywordBase:             50,
		PatternBase:             45,
		TitleOriginBonus:        15,
		DescriptionOriginBonus:  8,
		SearchOriginBonus:       10,
		CommentOriginBonus:      5,
		AddressContextBonus:     10,
		HoursContextBonus:       8,
		ReservationContextBonus: 5,
		PriceContextBonus:       10,
		BrandContextBonus:       8,
		ReviewThreshold:         70,
		MaxResults:              8,
	}
}
