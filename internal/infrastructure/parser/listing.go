package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArxivDigest/internal/domain"
	"ArxivDigest/internal/scanner"
)

const arxivBaseURL = "https://arxiv.org"

var dateExpr = regexp.MustCompile(`\d{1,2} [A-Za-z]{3} \d{4}`)

// ListingScanner crawls arxiv.org/list category pages and extracts papers
// newer than the requested cutoff. It is the fallback strategy for topics
// defined by listing URLs instead of API queries.
type ListingScanner struct {
	client   *http.Client
	pageSize int
}

var _ scanner.Scanner = (*ListingScanner)(nil)

// NewListingScanner wires an HTTP client; pageSize defaults to 200.
func NewListingScanner(client *http.Client) *ListingScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ListingScanner{client: client, pageSize: 200}
}

// Name identifies the strategy inside the registry.
func (l *ListingScanner) Name() string {
	return "listing"
}

// Scan walks each listing URL page by page until entries age past the cutoff
// day. Listing pages only expose day granularity, so the cutoff is truncated
// to its day; the selector applies the precise cutoff afterwards.
func (l *ListingScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Paper, error) {
	if len(req.Topic.Listings) == 0 {
		return nil, fmt.Errorf("no listings provided for topic %s", req.Topic.Name)
	}

	cutoffDay := req.Cutoff.UTC().Truncate(24 * time.Hour)
	results := make([]domain.Paper, 0)
	seen := map[string]struct{}{}

	for _, listing := range req.Topic.Listings {
		skip := 0
		for {
			pageURL, err := buildPageURL(listing.URL, skip, l.pageSize)
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", listing.Name, err)
			}

			doc, err := l.fetchDocument(ctx, pageURL)
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", listing.Name, err)
			}

			pagePapers, shouldContinue := l.extractPapers(doc, cutoffDay, listing.Name)
			for _, paper := range pagePapers {
				if _, ok := seen[paper.ID]; ok {
					continue
				}
				seen[paper.ID] = struct{}{}
				results = append(results, paper)
			}

			if !shouldContinue {
				break
			}
			skip += l.pageSize
		}
	}

	return results, nil
}

func (l *ListingScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ArxivDigest/1.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (l *ListingScanner) extractPapers(doc *goquery.Document, cutoffDay time.Time, category string) ([]domain.Paper, bool) {
	var (
		collected    []domain.Paper
		continueScan = true
		processed    int
	)

	doc.Find("dl > dt").EachWithBreak(func(i int, dt *goquery.Selection) bool {
		dd := dt.Next()
		processed++

		paper, ok := parseListingEntry(dt, dd, category)
		if !ok || paper.PublishedAt.IsZero() {
			return true
		}

		paperDay := paper.PublishedAt.UTC().Truncate(24 * time.Hour)
		if paperDay.Before(cutoffDay) {
			continueScan = false
			return false
		}
		collected = append(collected, paper)

		return true
	})

	if processed < l.pageSize {
		continueScan = false
	}

	return collected, continueScan
}

func parseListingEntry(dt, dd *goquery.Selection, category string) (domain.Paper, bool) {
	link := dt.Find(`a[href*="/abs/"]`).First()

	id := strings.TrimSpace(link.Text())
	id = strings.TrimPrefix(id, "arXiv:")
	href, _ := link.Attr("href")
	if id == "" {
		id = strings.TrimPrefix(href, "/abs/")
	}
	if id == "" {
		return domain.Paper{}, false
	}
	if !strings.HasPrefix(href, "http") {
		href = strings.TrimSuffix(arxivBaseURL, "/") + href
	}

	title := strings.TrimSpace(dd.Find(".list-title").First().Text())
	title = strings.TrimSpace(strings.TrimPrefix(title, "Title:"))

	summary := dd.Find("p.mathjax").First().Text()
	summary = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(summary), "Abstract:"))

	var authors []string
	dd.Find(".list-authors a").Each(func(i int, a *goquery.Selection) {
		name := compactWhitespace(a.Text())
		if name != "" {
			authors = append(authors, name)
		}
	})

	dateText := strings.TrimSpace(dd.Find(".list-date").First().Text())
	if dateText == "" {
		dateText = strings.TrimSpace(dd.Find(".list-dateline").First().Text())
	}

	var publishedAt time.Time
	if match := dateExpr.FindString(dateText); match != "" {
		if parsed, err := time.Parse("2 Jan 2006", match); err == nil {
			publishedAt = parsed.UTC()
		}
	}

	return domain.Paper{
		ID:          id,
		Title:       compactWhitespace(title),
		Summary:     compactWhitespace(summary),
		Authors:     authors,
		Category:    category,
		URL:         href,
		PublishedAt: publishedAt,
	}, true
}

func buildPageURL(base string, skip, pageSize int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("skip", strconv.Itoa(skip))
	query.Set("show", strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
