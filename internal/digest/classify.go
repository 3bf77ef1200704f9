package digest

import (
	"regexp"
	"strings"
)

// Signal words for introductory/survey-style papers. Matching is
// case-insensitive against a normalized title+summary.
var educationalExpr = regexp.MustCompile(`(?i)\b(` + strings.Join([]string{
	`surveys?`,
	`tutorials?`,
	`reviews?`,
	`primer`,
	`introduction`,
	`introductory`,
	`lecture\s*notes?`,
	`notes?`,
	`pedagogical`,
	`overviews?`,
	`a\s+guide`,
	`beginners?`,
	`for\s+beginners?`,
	`fundamentals?`,
	`foundations?`,
	`from\s+scratch`,
	`step\s*by\s*step`,
	`how\s+to`,
	`explainer`,
	`roadmap`,
}, "|") + `)\b`)

var (
	foldExpr     = regexp.MustCompile(`[-_/]`)
	collapseExpr = regexp.MustCompile(`\s+`)
)

// IsEducational tags introductory/survey-style content by keyword match.
// Pure and deterministic: punctuation like "how-to" or "step_by_step" folds
// to whitespace before matching so separator style does not matter.
func IsEducational(title, summary string) bool {
	target := strings.ToLower(title + "\n" + summary)
	target = foldExpr.ReplaceAllString(target, " ")
	target = strings.TrimSpace(collapseExpr.ReplaceAllString(target, " "))
	return educationalExpr.MatchString(target)
}
