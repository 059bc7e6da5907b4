// Package newsapi is the client for the third-party news-search API the
// gateway fronts. It maps upstream payloads into the system's article
// representation and reports transport and upstream-side failures without
// interpretation; callers decide what to do with them.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newsly/newsly/internal/news"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Client talks to a NewsAPI-compatible service.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a client with a bounded request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetBaseURL overrides the upstream base URL (tests, regional mirrors).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "newsapi"
}

type upstreamSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type upstreamArticle struct {
	Source      upstreamSource `json:"source"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	URLToImage  string         `json:"urlToImage"`
	PublishedAt string         `json:"publishedAt"`
	Content     string         `json:"content"`
}

type upstreamResponse struct {
	Status       string            `json:"status"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	TotalResults int               `json:"totalResults"`
	Articles     []upstreamArticle `json:"articles"`
}

// Fetch executes a normalized query against the upstream API. Category
// queries hit /top-headlines, search and article-candidate queries hit
// /everything. Timeouts and non-2xx responses surface as news.ErrUpstream.
func (c *Client) Fetch(ctx context.Context, q news.Query) (*news.Result, error) {
	endpoint, params := c.buildRequest(q)

	reqURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", news.ErrUpstream, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	log.Printf("[NewsAPI] GET %s (kind=%s)", endpoint, q.Kind)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", news.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[NewsAPI] Upstream returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", news.ErrUpstream, resp.StatusCode)
	}

	var ur upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", news.ErrUpstream, err)
	}
	if ur.Status != "ok" {
		return nil, fmt.Errorf("%w: upstream error %s: %s", news.ErrUpstream, ur.Code, ur.Message)
	}

	result := &news.Result{
		Articles:     make([]news.Article, 0, len(ur.Articles)),
		TotalResults: ur.TotalResults,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}
	for _, a := range ur.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		result.Articles = append(result.Articles, mapArticle(a, q.Category))
	}

	// Oldest-first is not an upstream sort order; reverse the
	// publishedAt ordering locally.
	if q.Sort == news.SortOldest {
		for i, j := 0, len(result.Articles)-1; i < j; i, j = i+1, j-1 {
			result.Articles[i], result.Articles[j] = result.Articles[j], result.Articles[i]
		}
	}

	log.Printf("[NewsAPI] %d articles (total %d)", len(result.Articles), ur.TotalResults)
	return result, nil
}

func (c *Client) buildRequest(q news.Query) (string, url.Values) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))

	switch q.Kind {
	case news.KindCategory:
		params.Set("category", q.Category)
		return "/top-headlines", params

	case news.KindArticle:
		// No lookup-by-id endpoint upstream; fetch candidates by
		// searching the terms from the canonical path and let the
		// gateway match id or URL.
		params.Set("q", lookupTerms(q.ArticleKey))
		params.Set("pageSize", strconv.Itoa(news.MaxPageSize))
		return "/everything", params

	default: // KindSearch
		params.Set("q", q.Search)
		if q.From != "" {
			params.Set("from", q.From)
		}
		if q.To != "" {
			params.Set("to", q.To)
		}
		switch q.Sort {
		case news.SortRelevance:
			params.Set("sortBy", "relevancy")
		case news.SortNewest, news.SortOldest:
			params.Set("sortBy", "publishedAt")
		}
		return "/everything", params
	}
}

// lookupTerms turns an article key (opaque id slug or canonical URL) into
// free-text search terms for the candidate fetch.
func lookupTerms(key string) string {
	if news.IsURL(key) {
		key = news.ArticleID(key)
	}
	return strings.Join(strings.FieldsFunc(key, func(r rune) bool { return r == '-' }), " ")
}

func mapArticle(a upstreamArticle, category string) news.Article {
	published, _ := time.Parse(time.RFC3339, a.PublishedAt)
	content := a.Content
	if content == "" {
		content = a.Description
	}
	return news.Article{
		ID:          news.ArticleID(a.URL),
		Title:       a.Title,
		URL:         a.URL,
		ImageURL:    a.URLToImage,
		PublishedAt: published,
		Category:    category,
		Source:      a.Source.Name,
		Content:     content,
	}
}
