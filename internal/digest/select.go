package digest

import (
	"math/rand"
	"sort"
	"time"

	"ArxivDigest/internal/domain"
)

// Collect filters raw papers down to the deduplicated, classified, ordered
// candidate list for one topic.
//
// Papers with a missing id or publication time are dropped silently, as are
// papers published before the cutoff and papers whose id is already in the
// delivered set. Survivors are tagged by the educational classifier and
// stably sorted by publication time, newest first; papers lacking a usable
// timestamp sort last.
func Collect(papers []domain.Paper, cutoff time.Time, delivered map[string]struct{}) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(papers))
	for _, paper := range papers {
		if !paper.Valid() {
			continue
		}
		if paper.PublishedAt.Before(cutoff) {
			continue
		}
		if _, ok := delivered[paper.ID]; ok {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Paper:       paper,
			Educational: IsEducational(paper.Title, paper.Summary),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ti, tj := candidates[i].PublishedAt, candidates[j].PublishedAt
		if ti.IsZero() {
			return false
		}
		if tj.IsZero() {
			return true
		}
		return ti.After(tj)
	})

	return candidates
}

// Partition splits an ordered candidate list into the bounded recent group
// and the bounded educational group.
//
// Recent is a deterministic truncation: the first recentCap non-educational
// candidates in existing order. The educational group preserves the whole
// pool when it fits under eduCap; a larger pool is reduced to an unordered
// random sample without replacement of exactly eduCap items. The sample draws
// from rng so tests can fix a seed.
func Partition(candidates []domain.Candidate, recentCap, eduCap int, rng *rand.Rand) (recent, educational []domain.Candidate) {
	var pool []domain.Candidate
	for _, c := range candidates {
		if c.Educational {
			pool = append(pool, c)
		} else {
			recent = append(recent, c)
		}
	}

	if recentCap < 0 {
		recentCap = 0
	}
	if len(recent) > recentCap {
		recent = recent[:recentCap]
	}

	if eduCap <= 0 || len(pool) == 0 {
		return recent, nil
	}
	if len(pool) <= eduCap {
		return recent, pool
	}

	educational = make([]domain.Candidate, 0, eduCap)
	for _, idx := range rng.Perm(len(pool))[:eduCap] {
		educational = append(educational, pool[idx])
	}
	return recent, educational
}
