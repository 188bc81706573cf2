// Package fetch holds production-shaped implementations of the
// fetcher seams: a YouTube-style comment API client, a Custom
// Search-style query client, and a robots.txt-respecting page fetcher
// for corroboration text. All endpoints are configurable so tests run
// against local fixtures.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kawaragi/meguri/internal/cache"
	"github.com/kawaragi/meguri/internal/util"
)

// HostLimiter gates outbound requests per host. Satisfied by
// worker.Limiter; shared across every fetcher so concurrent batch
// workers respect one ceiling per upstream API.
type HostLimiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Options configures the shared HTTP behavior of every fetcher
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	HTTPProxy    string
	HTTPSProxy   string
	NoProxy      string
	Cache        cache.Cache // nil disables response caching
	CacheTTL     time.Duration
	Limiter      HostLimiter // nil disables per-host rate limiting
}

// waitLimiter blocks on the per-host limiter when one is configured.
// Called after the cache check so cached responses cost no budget.
func (o *Options) waitLimiter(ctx context.Context, rawURL string) error {
	if o.Limiter == nil {
		return nil
	}
	return o.Limiter.Wait(ctx, rawURL)
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Timeout <= 0 {
		out.Timeout = 10 * time.Second
	}
	if out.UserAgent == "" {
		out.UserAgent = "Meguri/0.3 (+https://github.com/kawaragi/meguri)"
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = 2_000_000
	}
	if out.CacheTTL <= 0 {
		out.CacheTTL = 24 * time.Hour
	}
	return out
}

func (o *Options) httpClient() *http.Client {
	return &http.Client{
		Timeout: o.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(o.HTTPProxy, o.HTTPSProxy, o.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
}

// readBody drains a response body up to the configured limit
func readBody(resp *http.Response, maxBytes int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
