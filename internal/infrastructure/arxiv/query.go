package arxiv

import (
	"fmt"
	"strings"
)

var fieldPrefixes = []string{"all:", "ti:", "abs:", "cat:", "au:", "jr:", "rn:", "id:"}

// BuildQuery assembles an export API search_query from free terms and
// category names: terms OR-ed inside one group, categories OR-ed inside
// another, the groups AND-ed together.
func BuildQuery(terms, categories []string) (string, error) {
	var termParts []string
	for _, term := range terms {
		quoted := quoteTerm(term)
		if quoted != "" {
			termParts = append(termParts, quoted)
		}
	}

	var catParts []string
	for _, cat := range categories {
		cat = strings.TrimSpace(cat)
		if cat != "" {
			catParts = append(catParts, "cat:"+cat)
		}
	}

	var groups []string
	if len(termParts) > 0 {
		groups = append(groups, "("+strings.Join(termParts, " OR ")+")")
	}
	if len(catParts) > 0 {
		groups = append(groups, "("+strings.Join(catParts, " OR ")+")")
	}
	if len(groups) == 0 {
		return "", fmt.Errorf("no query terms or categories")
	}

	return strings.Join(groups, " AND "), nil
}

// quoteTerm wraps a bare term as an exact all-fields phrase. Terms already
// carrying a field prefix pass through untouched.
func quoteTerm(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}

	lowered := strings.ToLower(term)
	for _, prefix := range fieldPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return term
		}
	}

	escaped := strings.ReplaceAll(term, `"`, `\"`)
	return `all:"` + escaped + `"`
}
