package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArxivDigest/internal/scanner"
)

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://arxiv.org/list/cs.AI/recent"
	u, err := buildPageURL(base, 200, 100)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	if parsed.Scheme != "https" || parsed.Host != "arxiv.org" {
		t.Fatalf("unexpected host: %s", parsed.Host)
	}

	q := parsed.Query()
	if q.Get("skip") != "200" {
		t.Fatalf("expected skip=200, got %s", q.Get("skip"))
	}
	if q.Get("show") != "100" {
		t.Fatalf("expected show=100, got %s", q.Get("show"))
	}
}

func TestParseListingEntry(t *testing.T) {
	t.Parallel()

	html := `
	<dl>
	  <dt>
	    <span class="list-identifier"><a href="/abs/2603.01001">arXiv:2603.01001</a></span>
	  </dt>
	  <dd>
	    <div class="list-date">Date: 8 Mar 2026</div>
	    <div class="list-title mathjax">Title: Sample Title</div>
	    <div class="list-authors"><a href="/a/one">A. One</a>, <a href="/a/two">B. Two</a></div>
	    <p class="mathjax">Abstract: Sample abstract text.</p>
	  </dd>
	</dl>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	dt := doc.Find("dt").First()
	dd := doc.Find("dd").First()

	paper, ok := parseListingEntry(dt, dd, "cs.AI")
	if !ok {
		t.Fatalf("parseListingEntry rejected a valid entry")
	}

	if paper.ID != "2603.01001" {
		t.Fatalf("unexpected id: %s", paper.ID)
	}
	if paper.Title != "Sample Title" {
		t.Fatalf("unexpected title: %s", paper.Title)
	}
	if paper.Summary != "Sample abstract text." {
		t.Fatalf("unexpected summary: %s", paper.Summary)
	}
	if len(paper.Authors) != 2 || paper.Authors[0] != "A. One" {
		t.Fatalf("unexpected authors: %v", paper.Authors)
	}
	if paper.Category != "cs.AI" {
		t.Fatalf("unexpected category: %s", paper.Category)
	}
	if paper.URL != "https://arxiv.org/abs/2603.01001" {
		t.Fatalf("unexpected url: %s", paper.URL)
	}

	wantDate := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	if !paper.PublishedAt.Equal(wantDate) {
		t.Fatalf("unexpected published date: %v", paper.PublishedAt)
	}
}

func TestListingScannerScanStopsAtCutoff(t *testing.T) {
	t.Parallel()

	cutoff := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<dl>
		  <dt>
		    <span class="list-identifier"><a href="/abs/2603.01001">arXiv:2603.01001</a></span>
		  </dt>
		  <dd>
		    <div class="list-date">Date: 8 Mar 2026</div>
		    <div class="list-title mathjax">Title: Fresh Paper</div>
		    <p class="mathjax">Abstract: brand new.</p>
		  </dd>
		  <dt>
		    <span class="list-identifier"><a href="/abs/2603.01002">arXiv:2603.01002</a></span>
		  </dt>
		  <dd>
		    <div class="list-date">Date: 6 Mar 2026</div>
		    <div class="list-title mathjax">Title: Old Paper</div>
		    <p class="mathjax">Abstract: older.</p>
		  </dd>
		</dl>`))
	}))
	defer server.Close()

	sc := NewListingScanner(server.Client())
	sc.pageSize = 10

	req := scanner.Request{
		Topic: scanner.Topic{
			Name:     "ai",
			Listings: []scanner.Listing{{Name: "cs.AI", URL: server.URL + "/list/cs.AI"}},
		},
		Cutoff: cutoff,
	}

	papers, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(papers) != 1 {
		t.Fatalf("expected 1 paper, got %d", len(papers))
	}
	if papers[0].ID != "2603.01001" {
		t.Fatalf("unexpected paper id: %s", papers[0].ID)
	}
	if papers[0].Summary != "brand new." {
		t.Fatalf("unexpected summary: %s", papers[0].Summary)
	}
}
