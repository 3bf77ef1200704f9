package parser

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ArxivDigest/internal/domain"
)

var (
	absURLExpr  = regexp.MustCompile(`(?i)(?:https?://)?arxiv\.org/abs/(.+)$`)
	versionExpr = regexp.MustCompile(`(?i)v\d+$`)
)

// ParseAtom normalizes an arXiv export API Atom document into domain papers.
// Entries without an extractable identifier are skipped.
func ParseAtom(xmlText string) ([]domain.Paper, error) {
	feed, err := gofeed.NewParser().ParseString(xmlText)
	if err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}

	papers := make([]domain.Paper, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := extractArxivID(item.GUID)
		if id == "" {
			continue
		}
		if !versionExpr.MatchString(id) {
			// The API usually includes the version in the id; keep a safe fallback.
			id += "v1"
		}

		var authors []string
		for _, author := range item.Authors {
			name := compactWhitespace(author.Name)
			if name != "" {
				authors = append(authors, name)
			}
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}

		papers = append(papers, domain.Paper{
			ID:          id,
			Title:       compactWhitespace(item.Title),
			Summary:     compactWhitespace(item.Description),
			Authors:     authors,
			Category:    primaryCategory(item),
			URL:         "https://arxiv.org/abs/" + id,
			PublishedAt: published,
		})
	}

	return papers, nil
}

// extractArxivID pulls the bare id out of an abs URL like
// http://arxiv.org/abs/2501.00001v1.
func extractArxivID(rawID string) string {
	rawID = strings.TrimSpace(rawID)
	if match := absURLExpr.FindStringSubmatch(rawID); match != nil {
		return match[1]
	}

	parsed, err := url.Parse(rawID)
	if err == nil && strings.HasSuffix(strings.ToLower(parsed.Host), "arxiv.org") &&
		strings.HasPrefix(parsed.Path, "/abs/") {
		return strings.TrimLeft(strings.TrimPrefix(parsed.Path, "/abs/"), "/")
	}

	return rawID
}

// primaryCategory prefers the arxiv Atom extension over plain categories.
func primaryCategory(item *gofeed.Item) string {
	if ns, ok := item.Extensions["arxiv"]; ok {
		if list, ok := ns["primary_category"]; ok && len(list) > 0 {
			if term := list[0].Attrs["term"]; term != "" {
				return term
			}
		}
	}
	if len(item.Categories) > 0 && item.Categories[0] != "" {
		return item.Categories[0]
	}
	return "unknown"
}

func compactWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
