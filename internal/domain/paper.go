package domain

import "time"

// Paper is a core entity describing a normalized arXiv entry fetched from a source.
type Paper struct {
	ID          string
	Title       string
	Summary     string
	Authors     []string
	Category    string
	URL         string
	PublishedAt time.Time
}

// Valid reports whether the paper carries the fields required by the
// selection pipeline. Papers failing this check are silently dropped.
func (p Paper) Valid() bool {
	return p.ID != "" && !p.PublishedAt.IsZero()
}

// Candidate is a paper that survived cutoff and dedup filtering, tagged by
// the educational classifier. Never mutated after creation.
type Candidate struct {
	Paper
	Educational bool
}

// TopicDigest is the selector's per-topic output consumed by rendering.
type TopicDigest struct {
	Name        string
	Recent      []Candidate
	Educational []Candidate
}

// DeliveredPaper is persisted to the optional Postgres archive for audit.
type DeliveredPaper struct {
	Paper       Paper
	Topic       string
	Educational bool
	DeliveredAt time.Time
}
