package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newsly/newsly/internal/news"
)

const headlinesBody = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{
			"source": {"id": "the-verge", "name": "The Verge"},
			"title": "Story One",
			"description": "First story",
			"url": "https://example.com/tech/story-one",
			"urlToImage": "https://example.com/img/one.jpg",
			"publishedAt": "2026-08-25T10:00:00Z",
			"content": "Full body one"
		},
		{
			"source": {"id": null, "name": "Wired"},
			"title": "Story Two",
			"description": "Second story",
			"url": "https://example.com/tech/story-two",
			"publishedAt": "2026-08-25T12:00:00Z"
		}
	]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key")
	c.SetBaseURL(srv.URL)
	return c
}

func TestFetchCategory(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery map[string][]string

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query()
		w.Write([]byte(headlinesBody))
	})

	q, _ := news.ParseCategoryQuery("technology", "1", "20")
	res, err := c.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotPath != "/top-headlines" {
		t.Errorf("expected /top-headlines, got %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("missing api key header, got %q", gotKey)
	}
	if got := gotQuery["category"]; len(got) != 1 || got[0] != "technology" {
		t.Errorf("unexpected category param: %v", got)
	}

	if res.TotalResults != 2 || len(res.Articles) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	a := res.Articles[0]
	if a.ID != "example-com-tech-story-one" {
		t.Errorf("unexpected derived id: %q", a.ID)
	}
	if a.Source != "The Verge" || a.Content != "Full body one" || a.Category != "technology" {
		t.Errorf("unexpected mapping: %+v", a)
	}
	if res.Articles[1].Content != "Second story" {
		t.Errorf("description should back-fill empty content, got %q", res.Articles[1].Content)
	}
}

func TestFetchSearchParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	})

	q, _ := news.ParseSearchQuery("golang", "2", "10", "2026-01-01", "2026-02-01", "relevance")
	if _, err := c.Fetch(context.Background(), q); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotPath != "/everything" {
		t.Errorf("expected /everything, got %s", gotPath)
	}
	for key, want := range map[string]string{
		"q": "golang", "page": "2", "pageSize": "10",
		"from": "2026-01-01", "to": "2026-02-01", "sortBy": "relevancy",
	} {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("param %s: expected %q, got %v", key, want, got)
		}
	}
}

func TestFetchUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200 status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		}},
		{"error status body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{{{`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, tt.handler)
			q, _ := news.ParseCategoryQuery("general", "1", "")
			if _, err := c.Fetch(context.Background(), q); !errors.Is(err, news.ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
		})
	}
}

func TestFetchTransportFailure(t *testing.T) {
	c := NewClient("test-key")
	c.SetBaseURL("http://127.0.0.1:1") // nothing listens here

	q, _ := news.ParseCategoryQuery("general", "1", "")
	if _, err := c.Fetch(context.Background(), q); !errors.Is(err, news.ErrUpstream) {
		t.Errorf("expected ErrUpstream on transport failure, got %v", err)
	}
}

func TestFetchOldestReversesOrder(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(headlinesBody))
	})

	q, _ := news.ParseSearchQuery("story", "1", "", "", "", "oldest")
	res, err := c.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.Articles[0].Title != "Story Two" {
		t.Errorf("oldest sort should reverse upstream order, got %q first", res.Articles[0].Title)
	}
}

func TestLookupTerms(t *testing.T) {
	if got := lookupTerms("example-com-tech-story-one"); got != "example com tech story one" {
		t.Errorf("unexpected terms from id: %q", got)
	}
	if got := lookupTerms("https://example.com/tech/story-one"); got != "example com tech story one" {
		t.Errorf("unexpected terms from url: %q", got)
	}
}
