package news

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind distinguishes the three query shapes the gateway serves.
type Kind string

const (
	KindCategory Kind = "category"
	KindSearch   Kind = "search"
	KindArticle  Kind = "article"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	dateLayout = "2006-01-02"
)

// Categories is the fixed set of valid news categories.
var Categories = []string{
	"general", "technology", "business", "science",
	"health", "sports", "entertainment",
}

// Sort orders accepted on search queries.
const (
	SortRelevance = "relevance"
	SortNewest    = "newest"
	SortOldest    = "oldest"
)

// Query is the normalized, validated form of a request. It is the cache
// key and the upstream call shape: two requests that normalize to the
// same Query are cache-equivalent.
type Query struct {
	Kind       Kind
	Category   string
	Search     string
	ArticleKey string
	Page       int
	PageSize   int
	From       string // ISO calendar date, empty if unset
	To         string
	Sort       string
}

// CacheKey returns the canonical serialization of the query. Field order
// is fixed so equivalent queries always produce identical keys.
func (q Query) CacheKey() string {
	return fmt.Sprintf("kind=%s|cat=%s|q=%s|key=%s|page=%d|size=%d|from=%s|to=%s|sort=%s",
		q.Kind, q.Category, q.Search, q.ArticleKey, q.Page, q.PageSize, q.From, q.To, q.Sort)
}

// ValidCategory reports whether name is in the fixed category set
// (case-insensitive).
func ValidCategory(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// ParseCategoryQuery validates and normalizes a category listing request.
func ParseCategoryQuery(category, page, pageSize string) (Query, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if !ValidCategory(category) {
		return Query{}, fmt.Errorf("%w: unknown category %q", ErrInvalidFormat, category)
	}

	p, ps, err := parsePagination(page, pageSize)
	if err != nil {
		return Query{}, err
	}

	return Query{Kind: KindCategory, Category: category, Page: p, PageSize: ps}, nil
}

// ParseSearchQuery validates and normalizes a free-text search request.
func ParseSearchQuery(q, page, pageSize, from, to, sort string) (Query, error) {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		return Query{}, fmt.Errorf("%w: search query must be at least 2 characters", ErrInvalidFormat)
	}

	p, ps, err := parsePagination(page, pageSize)
	if err != nil {
		return Query{}, err
	}

	fromDate, toDate, err := parseDateRange(from, to)
	if err != nil {
		return Query{}, err
	}

	sort = strings.ToLower(strings.TrimSpace(sort))
	switch sort {
	case "", SortRelevance, SortNewest, SortOldest:
	default:
		return Query{}, fmt.Errorf("%w: unknown sort order %q", ErrInvalidFormat, sort)
	}

	return Query{
		Kind:     KindSearch,
		Search:   q,
		Page:     p,
		PageSize: ps,
		From:     fromDate,
		To:       toDate,
		Sort:     sort,
	}, nil
}

// ParseArticleQuery normalizes an article lookup by opaque identifier or
// canonical URL. URL inputs keep their raw form (the gateway needs them
// for the URL fallback match); identifiers are lower-cased.
func ParseArticleQuery(key string) (Query, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Query{}, fmt.Errorf("%w: article id or url is required", ErrInvalidFormat)
	}
	if !IsURL(key) {
		key = strings.ToLower(key)
	}
	return Query{Kind: KindArticle, ArticleKey: key, Page: 1, PageSize: 1}, nil
}

// IsURL reports whether key looks like a scheme-qualified URL.
func IsURL(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}

func parsePagination(page, pageSize string) (int, int, error) {
	p := 1
	if page != "" {
		n, err := strconv.Atoi(strings.TrimSpace(page))
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("%w: page must be a positive integer", ErrInvalidFormat)
		}
		p = n
	}

	ps := DefaultPageSize
	if pageSize != "" {
		n, err := strconv.Atoi(strings.TrimSpace(pageSize))
		if err != nil || n < 1 || n > MaxPageSize {
			return 0, 0, fmt.Errorf("%w: pageSize must be between 1 and %d", ErrInvalidFormat, MaxPageSize)
		}
		ps = n
	}

	return p, ps, nil
}

func parseDateRange(from, to string) (string, string, error) {
	var fromT, toT time.Time
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return "", "", fmt.Errorf("%w: invalid from date %q", ErrInvalidFormat, from)
		}
		fromT = t
		from = t.Format(dateLayout)
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return "", "", fmt.Errorf("%w: invalid to date %q", ErrInvalidFormat, to)
		}
		toT = t
		to = t.Format(dateLayout)
	}
	if !fromT.IsZero() && !toT.IsZero() && fromT.After(toT) {
		return "", "", fmt.Errorf("%w: from date is after to date", ErrInvalidFormat)
	}

	return from, to, nil
}
