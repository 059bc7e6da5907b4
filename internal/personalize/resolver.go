// Package personalize expands "give me my news" into one gateway query
// per preferred category and merges the results into a single page.
package personalize

import (
	"context"
	"log"
	"sort"

	"github.com/newsly/newsly/internal/news"
)

// DefaultCategories is the fallback when a user has no stored
// preferences or the preference store is unavailable.
var DefaultCategories = []string{"general", "technology", "business"}

// Fetcher is the slice of the gateway the resolver needs.
type Fetcher interface {
	Fetch(ctx context.Context, q news.Query) (*news.Result, error)
}

// PreferenceReader reads a user's category preferences from the store.
type PreferenceReader interface {
	GetPreferences(ctx context.Context, userID string) ([]string, error)
}

// Resolver builds the merged personalized feed.
type Resolver struct {
	fetcher Fetcher
	prefs   PreferenceReader
}

// NewResolver creates a resolver over the given gateway and store.
func NewResolver(fetcher Fetcher, prefs PreferenceReader) *Resolver {
	return &Resolver{fetcher: fetcher, prefs: prefs}
}

// Fetch returns one combined page across the caller's preferred
// categories. Each category is queried at the same page/pageSize as a
// direct category request so personalized and direct traffic share cache
// entries; the union is deduplicated by article ID, ordered newest first
// and trimmed to pageSize.
func (r *Resolver) Fetch(ctx context.Context, userID string, page, pageSize string) (*news.Result, error) {
	// Validate pagination once; per-category queries reuse it.
	probe, err := news.ParseCategoryQuery(news.Categories[0], page, pageSize)
	if err != nil {
		return nil, err
	}

	merged := []news.Article{}
	seen := make(map[string]bool)
	total := 0

	for _, category := range r.categoriesFor(ctx, userID) {
		q, err := news.ParseCategoryQuery(category, page, pageSize)
		if err != nil {
			// Stored preferences are validated on write; skip
			// anything stale rather than failing the whole feed.
			log.Printf("[Personalize] Skipping invalid preferred category %q: %v", category, err)
			continue
		}

		res, err := r.fetcher.Fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		total += res.TotalResults
		for _, a := range res.Articles {
			if !seen[a.ID] {
				seen[a.ID] = true
				merged = append(merged, a)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})
	if len(merged) > probe.PageSize {
		merged = merged[:probe.PageSize]
	}

	return &news.Result{
		Articles:     merged,
		TotalResults: total,
		Page:         probe.Page,
		PageSize:     probe.PageSize,
	}, nil
}

func (r *Resolver) categoriesFor(ctx context.Context, userID string) []string {
	categories, err := r.prefs.GetPreferences(ctx, userID)
	if err != nil {
		log.Printf("[Personalize] Failed to load preferences for user %s, using defaults: %v", userID, err)
		return DefaultCategories
	}
	if len(categories) == 0 {
		return DefaultCategories
	}
	return categories
}
