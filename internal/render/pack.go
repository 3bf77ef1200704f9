package render

import "strings"

// Pack converts an ordered sequence of text blocks into delivery-ready units,
// each at most maxLen runes long.
//
// The packing is greedy first-fit and order preserving: blocks are never
// reordered and non-adjacent blocks are never merged. A block that fits is
// one packable piece; an oversize block splits by line, and an oversize line
// splits at the last whitespace boundary within the limit, falling back to a
// hard cut when a single word exceeds the limit. Pieces accumulate into the
// current unit with a blank-line separator and the unit flushes when the next
// piece would overflow it. Pack is pure and total for any finite input.
func Pack(blocks []string, maxLen int) []string {
	if maxLen < 1 {
		maxLen = 1
	}

	var units []string
	current := ""

	for _, block := range blocks {
		clean := strings.TrimSpace(block)
		if clean == "" {
			continue
		}

		pieces := []string{clean}
		if runeLen(clean) > maxLen {
			pieces = pieces[:0]
			for _, line := range strings.Split(clean, "\n") {
				pieces = append(pieces, splitLongLine(line, maxLen)...)
			}
		}

		for _, piece := range pieces {
			if current == "" {
				if runeLen(piece) <= maxLen {
					current = piece
				} else {
					// Hard split for extremely long unbreakable tokens.
					units = append(units, hardSplit(piece, maxLen)...)
				}
				continue
			}

			joined := current + "\n\n" + piece
			if runeLen(joined) <= maxLen {
				current = joined
				continue
			}

			units = append(units, current)
			if runeLen(piece) <= maxLen {
				current = piece
			} else {
				units = append(units, hardSplit(piece, maxLen)...)
				current = ""
			}
		}
	}

	if current != "" {
		units = append(units, current)
	}
	return units
}

// splitLongLine breaks a single line into chunks of at most maxLen runes,
// preferring the last whitespace boundary within the limit.
func splitLongLine(line string, maxLen int) []string {
	if runeLen(line) <= maxLen {
		return []string{line}
	}

	var chunks []string
	remaining := []rune(line)
	for len(remaining) > maxLen {
		splitAt := lastSpace(remaining[:maxLen])
		if splitAt <= 0 {
			splitAt = maxLen
		}
		chunk := strings.TrimRight(string(remaining[:splitAt]), " \t")
		if chunk == "" {
			chunk = string(remaining[:maxLen])
			splitAt = maxLen
		}
		chunks = append(chunks, chunk)
		remaining = []rune(strings.TrimLeft(string(remaining[splitAt:]), " \t"))
	}
	if len(remaining) > 0 {
		chunks = append(chunks, string(remaining))
	}
	return chunks
}

func hardSplit(s string, maxLen int) []string {
	runes := []rune(s)
	var out []string
	for len(runes) > maxLen {
		out = append(out, string(runes[:maxLen]))
		runes = runes[maxLen:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' || runes[i] == '\t' {
			return i
		}
	}
	return -1
}

func runeLen(s string) int {
	return len([]rune(s))
}
