package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/newsly/newsly/internal/admin"
	"github.com/newsly/newsly/internal/budget"
	"github.com/newsly/newsly/internal/cache"
	"github.com/newsly/newsly/internal/news"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    int32
	fail     bool
	articles []news.Article
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(ctx context.Context, q news.Query) (*news.Result, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, fmt.Errorf("%w: status 503", news.ErrUpstream)
	}
	articles := f.articles
	if articles == nil {
		articles = []news.Article{
			{ID: "example-com-tech-story-1", Title: "Story 1", URL: "https://example.com/tech/story-1", PublishedAt: time.Now()},
		}
	}
	return &news.Result{
		Articles:     articles,
		TotalResults: len(articles),
		Page:         q.Page,
		PageSize:     q.PageSize,
	}, nil
}

func (f *fakeProvider) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func newTestGateway(provider news.Provider, ceiling int, adminEmails []string) (*Gateway, *budget.Tracker) {
	tr := budget.New(ceiling)
	g := New(provider, cache.New(), tr, admin.NewAllowList(adminEmails), nil, TTLs{
		Headlines: time.Minute,
		Search:    time.Minute,
		Article:   time.Minute,
	})
	return g, tr
}

func mustCategoryQuery(t *testing.T, category string) news.Query {
	t.Helper()
	q, err := news.ParseCategoryQuery(category, "1", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	return q
}

func TestFetchMissThenHit(t *testing.T) {
	provider := &fakeProvider{}
	g, tr := newTestGateway(provider, 10, nil)
	q := mustCategoryQuery(t, "technology")

	if _, err := g.Fetch(context.Background(), q); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if provider.callCount() != 1 {
		t.Errorf("first fetch should call upstream once, got %d", provider.callCount())
	}
	if stats := tr.Stats(); stats.DailyCount != 1 {
		t.Errorf("first fetch should consume one budget unit, count=%d", stats.DailyCount)
	}

	if _, err := g.Fetch(context.Background(), q); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if provider.callCount() != 1 {
		t.Errorf("repeat query should be a cache hit, upstream calls=%d", provider.callCount())
	}
	if stats := tr.Stats(); stats.DailyCount != 1 {
		t.Errorf("cache hit must not consume budget, count=%d", stats.DailyCount)
	}
}

func TestFetchCaseEquivalentQueriesShareEntry(t *testing.T) {
	provider := &fakeProvider{}
	g, _ := newTestGateway(provider, 10, nil)

	q1, _ := news.ParseCategoryQuery("Technology", "1", "")
	q2, _ := news.ParseCategoryQuery("technology", "1", "")

	g.Fetch(context.Background(), q1)
	g.Fetch(context.Background(), q2)

	if provider.callCount() != 1 {
		t.Errorf("case-equivalent queries should share one entry, upstream calls=%d", provider.callCount())
	}
}

func TestFetchBudgetExhausted(t *testing.T) {
	provider := &fakeProvider{}
	g, _ := newTestGateway(provider, 1, nil)

	g.Fetch(context.Background(), mustCategoryQuery(t, "technology"))

	_, err := g.Fetch(context.Background(), mustCategoryQuery(t, "business"))
	if !errors.Is(err, news.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if provider.callCount() != 1 {
		t.Errorf("exhausted budget must not call upstream, calls=%d", provider.callCount())
	}
}

func TestFetchUpstreamFailureChargesBudgetWithoutCaching(t *testing.T) {
	provider := &fakeProvider{fail: true}
	g, tr := newTestGateway(provider, 10, nil)
	q := mustCategoryQuery(t, "science")

	_, err := g.Fetch(context.Background(), q)
	if !errors.Is(err, news.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if stats := tr.Stats(); stats.DailyCount != 1 {
		t.Errorf("failed upstream call still consumes budget, count=%d", stats.DailyCount)
	}

	// Failure was not cached: a retry reaches upstream again.
	provider.mu.Lock()
	provider.fail = false
	provider.mu.Unlock()

	if _, err := g.Fetch(context.Background(), q); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if provider.callCount() != 2 {
		t.Errorf("retry should hit upstream, calls=%d", provider.callCount())
	}
}

func TestConcurrentIdenticalMissesSingleFlight(t *testing.T) {
	provider := &fakeProvider{}
	g, tr := newTestGateway(provider, 10, nil)
	q := mustCategoryQuery(t, "health")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Fetch(context.Background(), q); err != nil {
				t.Errorf("concurrent fetch: %v", err)
			}
		}()
	}
	wg.Wait()

	if provider.callCount() != 1 {
		t.Errorf("identical concurrent misses should collapse into one flight, calls=%d", provider.callCount())
	}
	if stats := tr.Stats(); stats.DailyCount != 1 {
		t.Errorf("one flight should consume one unit, count=%d", stats.DailyCount)
	}
}

func TestArticleByIDAndURL(t *testing.T) {
	provider := &fakeProvider{}
	g, _ := newTestGateway(provider, 10, nil)

	a, err := g.Article(context.Background(), "example-com-tech-story-1")
	if err != nil {
		t.Fatalf("lookup by id: %v", err)
	}
	if a.Title != "Story 1" {
		t.Errorf("unexpected article: %+v", a)
	}

	a, err = g.Article(context.Background(), "https://example.com/tech/story-1")
	if err != nil {
		t.Fatalf("lookup by url: %v", err)
	}
	if a.ID != "example-com-tech-story-1" {
		t.Errorf("unexpected article: %+v", a)
	}
}

func TestArticleNotFound(t *testing.T) {
	provider := &fakeProvider{}
	g, _ := newTestGateway(provider, 10, nil)

	_, err := g.Article(context.Background(), "non-existent-article-id")
	if !errors.Is(err, news.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestClearCacheAuthorization(t *testing.T) {
	provider := &fakeProvider{}
	g, tr := newTestGateway(provider, 10, []string{"admin@example.com"})
	q := mustCategoryQuery(t, "technology")

	g.Fetch(context.Background(), q)

	if err := g.ClearCache("user@example.com"); !errors.Is(err, news.ErrForbidden) {
		t.Fatalf("non-admin clear should fail, got %v", err)
	}
	if err := g.ClearCache("Admin@Example.com"); err != nil {
		t.Fatalf("admin clear failed: %v", err)
	}

	// A previously-cached query is a miss again, observed via a fresh
	// budget consumption.
	before := tr.Stats().DailyCount
	if _, err := g.Fetch(context.Background(), q); err != nil {
		t.Fatalf("fetch after clear: %v", err)
	}
	if after := tr.Stats().DailyCount; after != before+1 {
		t.Errorf("expected fresh budget consumption after clear, before=%d after=%d", before, after)
	}
}

func TestClearCachePermissiveWithoutAllowList(t *testing.T) {
	provider := &fakeProvider{}
	g, _ := newTestGateway(provider, 10, nil)

	if err := g.ClearCache("anyone@example.com"); err != nil {
		t.Fatalf("unconfigured allow-list should be permissive, got %v", err)
	}
}
