// Package gateway is the façade over the third-party news-search API. It
// serves cache hits without touching the upstream, charges every real
// upstream call against the shared daily budget, and refuses to call out
// once the budget is exhausted.
package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/newsly/newsly/internal/admin"
	"github.com/newsly/newsly/internal/budget"
	"github.com/newsly/newsly/internal/cache"
	"github.com/newsly/newsly/internal/news"
	"golang.org/x/sync/singleflight"
)

// TTLs groups the per-query-kind cache lifetimes.
type TTLs struct {
	Headlines time.Duration
	Search    time.Duration
	Article   time.Duration
}

// Scraper fills in article bodies the upstream payload leaves empty.
type Scraper interface {
	Scrape(url string) (string, error)
}

// Stats combines budget and cache counters for the stats endpoint.
type Stats struct {
	Budget budget.Stats `json:"budget"`
	Cache  cache.Stats  `json:"cache"`
}

// Gateway orchestrates cache, budget tracker and upstream client. Both
// the cache and the tracker are injected so tests run isolated instances
// instead of sharing process state.
type Gateway struct {
	provider news.Provider
	cache    *cache.Cache
	budget   *budget.Tracker
	admins   *admin.AllowList
	scraper  Scraper
	ttls     TTLs

	// Collapses concurrent misses for the same normalized query into a
	// single upstream call (and a single budget unit).
	flights singleflight.Group
}

// New creates a gateway. scraper may be nil.
func New(provider news.Provider, c *cache.Cache, b *budget.Tracker, admins *admin.AllowList, scraper Scraper, ttls TTLs) *Gateway {
	return &Gateway{
		provider: provider,
		cache:    c,
		budget:   b,
		admins:   admins,
		scraper:  scraper,
		ttls:     ttls,
	}
}

// Fetch serves a normalized category or search query: cache first, then
// budget-guarded upstream call. Upstream failures charge the budget but
// never populate the cache.
func (g *Gateway) Fetch(ctx context.Context, q news.Query) (*news.Result, error) {
	key := q.CacheKey()

	if res, ok := g.cache.Get(key); ok {
		return res, nil
	}

	v, err, _ := g.flights.Do(key, func() (interface{}, error) {
		// A concurrent flight may have populated the entry between
		// the miss and the flight start.
		if res, ok := g.cache.Get(key); ok {
			return res, nil
		}
		return g.fetchUpstream(ctx, q, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*news.Result), nil
}

func (g *Gateway) fetchUpstream(ctx context.Context, q news.Query, key string) (*news.Result, error) {
	permitted, remaining := g.budget.TryConsume()
	if !permitted {
		log.Printf("[Gateway] Daily budget exhausted, refusing upstream call (kind=%s)", q.Kind)
		return nil, news.ErrRateLimitExceeded
	}

	res, err := g.provider.Fetch(ctx, q)
	if err != nil {
		// The call happened, so the budget unit stays spent.
		log.Printf("[Gateway] Upstream call failed (remaining=%d): %v", remaining, err)
		return nil, err
	}

	g.cache.Put(key, res, g.ttlFor(q.Kind))
	log.Printf("[Gateway] Cached %s result (%d articles, remaining budget=%d)", q.Kind, len(res.Articles), remaining)
	return res, nil
}

// Article resolves a single article by opaque identifier or canonical
// URL. Candidates come from the upstream via the same cache/budget path
// as any other query; matching by identifier is tried first, URL match is
// the fallback for scheme-qualified inputs.
func (g *Gateway) Article(ctx context.Context, key string) (*news.Article, error) {
	q, err := news.ParseArticleQuery(key)
	if err != nil {
		return nil, err
	}

	res, err := g.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	a := matchArticle(res.Articles, q.ArticleKey)
	if a == nil {
		return nil, fmt.Errorf("%w: %s", news.ErrArticleNotFound, q.ArticleKey)
	}

	if a.Content == "" && g.scraper != nil {
		if body, err := g.scraper.Scrape(a.URL); err == nil {
			a.Content = body
		} else {
			log.Printf("[Gateway] Body scrape failed for %s: %v", a.URL, err)
		}
	}
	return a, nil
}

// ClearCache removes every cache entry. Only allow-listed administrators
// may call it; with no allow-list configured the policy is permissive.
func (g *Gateway) ClearCache(callerEmail string) error {
	if !g.admins.Allowed(callerEmail) {
		log.Printf("[Gateway] Cache clear denied for %s", callerEmail)
		return fmt.Errorf("%w: cache clear requires admin access", news.ErrForbidden)
	}
	g.cache.Clear()
	log.Printf("[Gateway] Cache cleared by %s", callerEmail)
	return nil
}

// Stats reports the current budget and cache counters.
func (g *Gateway) Stats() Stats {
	return Stats{Budget: g.budget.Stats(), Cache: g.cache.Stats()}
}

func (g *Gateway) ttlFor(kind news.Kind) time.Duration {
	switch kind {
	case news.KindSearch:
		return g.ttls.Search
	case news.KindArticle:
		return g.ttls.Article
	default:
		return g.ttls.Headlines
	}
}

func matchArticle(candidates []news.Article, key string) *news.Article {
	wantID := key
	isURL := news.IsURL(key)
	if isURL {
		wantID = news.ArticleID(key)
	}

	for i := range candidates {
		if candidates[i].ID == wantID {
			a := candidates[i]
			return &a
		}
	}
	if isURL {
		want := normalizeURL(key)
		for i := range candidates {
			if normalizeURL(candidates[i].URL) == want {
				a := candidates[i]
				return &a
			}
		}
	}
	return nil
}

func normalizeURL(u string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(u)), "/")
}
