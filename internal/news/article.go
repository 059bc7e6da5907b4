package news

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Article is a single news article as served to clients. Articles are
// immutable once fetched; the gateway only caches them.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    string    `json:"category,omitempty"`
	Source      string    `json:"source,omitempty"`
	Content     string    `json:"content,omitempty"`
}

// Result is one page of articles for a query.
type Result struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"totalResults"`
	Page         int       `json:"page"`
	PageSize     int       `json:"pageSize"`
}

// Provider is the interface the upstream news-search client must implement
type Provider interface {
	// Name returns the provider identifier (e.g., "newsapi")
	Name() string

	// Fetch executes a normalized query against the upstream API
	Fetch(ctx context.Context, q Query) (*Result, error)
}

// ArticleID derives a stable identifier from an article's canonical URL.
// The same URL always maps to the same ID, so it serves both as the cache
// primary key and as the match target for lookups.
func ArticleID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return slugify(rawURL)
	}
	return slugify(u.Host + u.Path)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true // trim leading dashes
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
