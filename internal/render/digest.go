package render

import (
	"fmt"
	"strings"
	"time"

	"ArxivDigest/internal/domain"
)

// DigestData carries everything the block builder needs for one run.
type DigestData struct {
	NowLocal         time.Time
	CutoffUTC        time.Time
	RecentWindowDays int
	HeaderTemplate   string
	TitleMaxLength   int
	Topics           []domain.TopicDigest
}

// BuildBlocks renders the run into ordered text blocks: one header block
// followed by one block per topic. Blocks feed the packer, which owns the
// transport length bound.
func BuildBlocks(d DigestData) []string {
	date := d.NowLocal.Format("2006-01-02")
	datetime := d.NowLocal.Format("2006-01-02 15:04 MST")

	header := strings.ReplaceAll(d.HeaderTemplate, "{date}", date)
	header = strings.ReplaceAll(header, "{datetime}", datetime)

	counts := make([]string, 0, len(d.Topics))
	for _, topic := range d.Topics {
		counts = append(counts, fmt.Sprintf("%s (recent %d, educational %d)",
			topic.Name, len(topic.Recent), len(topic.Educational)))
	}

	blocks := []string{strings.Join([]string{
		header,
		"Time: " + datetime,
		"Cutoff (UTC): " + d.CutoffUTC.UTC().Format(time.RFC3339),
		"Counts: " + strings.Join(counts, ", "),
	}, "\n")}

	for _, topic := range d.Topics {
		lines := []string{
			fmt.Sprintf("[%s] recent %d / educational✔︎ %d", topic.Name, len(topic.Recent), len(topic.Educational)),
			fmt.Sprintf("Recent (within %d days, submittedDate desc):", d.RecentWindowDays),
		}
		if len(topic.Recent) == 0 {
			lines = append(lines, "- (no recent papers)")
		}
		for _, c := range topic.Recent {
			lines = append(lines, entryLine(c, d.TitleMaxLength))
		}

		lines = append(lines, "Educational / Beginner-friendly ✔︎:")
		if len(topic.Educational) == 0 {
			lines = append(lines, "- (no educational papers)")
		}
		for _, c := range topic.Educational {
			lines = append(lines, entryLine(c, d.TitleMaxLength))
		}

		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return blocks
}

func entryLine(c domain.Candidate, titleMaxLength int) string {
	star := ""
	if c.Educational {
		star = "✔︎ "
	}
	title := c.Title
	if title == "" {
		title = "(untitled)"
	}
	category := c.Category
	if category == "" {
		category = "unknown"
	}
	return fmt.Sprintf("- %s%s - %s - %s - %s",
		star, Truncate(title, titleMaxLength), formatAuthor(c.Authors), category, c.URL)
}

func formatAuthor(authors []string) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	if len(authors) > 1 {
		return authors[0] + " et al."
	}
	return authors[0]
}

// Truncate shortens text to at most maxLen runes, appending "..." when
// content was dropped.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if maxLen <= 3 {
		if maxLen < 0 {
			maxLen = 0
		}
		if len(runes) <= maxLen {
			return text
		}
		return string(runes[:maxLen])
	}
	if len(runes) <= maxLen {
		return text
	}
	return strings.TrimRight(string(runes[:maxLen-3]), " \t") + "..."
}
