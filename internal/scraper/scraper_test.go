package scraper

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Story</title><script>var x = "should not appear";</script></head>
<body>
<nav>Navigation junk</nav>
<article>
<p>First paragraph of the story, with enough words to clear the minimum content threshold applied after extraction.</p>
<p>Second paragraph continues the story with even more detail about the events being reported here.</p>
</article>
<footer>Footer junk</footer>
</body>
</html>`

func TestScrapeExtractsParagraphs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	content, err := NewScraper().Scrape(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if !strings.Contains(content, "First paragraph") || !strings.Contains(content, "Second paragraph") {
		t.Errorf("paragraph text missing: %q", content)
	}
	if strings.Contains(content, "should not appear") || strings.Contains(content, "Navigation junk") {
		t.Errorf("junk elements not stripped: %q", content)
	}
}

func TestScrapeRejectsThinPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>tiny</p></body></html>"))
	}))
	defer srv.Close()

	if _, err := NewScraper().Scrape(srv.URL); err == nil {
		t.Error("expected an error for insufficient content")
	}
}

func TestScrapeNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewScraper().Scrape(srv.URL); err == nil {
		t.Error("expected an error for non-200 response")
	}
}
