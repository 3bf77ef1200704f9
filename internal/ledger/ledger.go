package ledger

import (
	"time"
)

// Ledger is the single source of cross-run idempotency truth: the ordered set
// of delivered paper ids plus run metadata. It is loaded once at run start,
// mutated only in memory and committed once at run end.
//
// Insertion order of delivered ids equals delivery order; the oldest ids are
// evicted first when the configured bound is exceeded. Membership tests are
// O(1) via a side map even though the ids persist as an ordered sequence.
type Ledger struct {
	ids         []string
	seen        map[string]struct{}
	lastSuccess time.Time
	lastSeen    map[string]time.Time
}

// New returns a fresh empty ledger.
func New() *Ledger {
	return &Ledger{
		seen:     map[string]struct{}{},
		lastSeen: map[string]time.Time{},
	}
}

// Contains reports whether the id has already been delivered.
func (l *Ledger) Contains(id string) bool {
	_, ok := l.seen[id]
	return ok
}

// DeliveredSet returns a mutable copy of the delivered-id set. The run uses
// the copy as its working set for cross-topic dedup without touching the
// ledger before commit time.
func (l *Ledger) DeliveredSet() map[string]struct{} {
	out := make(map[string]struct{}, len(l.seen))
	for id := range l.seen {
		out[id] = struct{}{}
	}
	return out
}

// LastSuccess returns the timestamp of the last successful run, if any.
func (l *Ledger) LastSuccess() (time.Time, bool) {
	return l.lastSuccess, !l.lastSuccess.IsZero()
}

// LastSeenPublished returns the newest publication time recorded for a topic.
func (l *Ledger) LastSeenPublished(topic string) (time.Time, bool) {
	t, ok := l.lastSeen[topic]
	return t, ok
}

// Len returns the number of delivered ids currently retained.
func (l *Ledger) Len() int {
	return len(l.ids)
}

// Record appends newly delivered ids (skipping ones already present),
// truncates oldest-first when maxIDs is exceeded, marks the run successful at
// now and merges the per-topic last-seen publication map. Per-topic entries
// are monotonic: an older value never overwrites a newer one.
func (l *Ledger) Record(ids []string, now time.Time, lastSeenByTopic map[string]time.Time, maxIDs int) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := l.seen[id]; ok {
			continue
		}
		l.ids = append(l.ids, id)
		l.seen[id] = struct{}{}
	}

	if maxIDs > 0 && len(l.ids) > maxIDs {
		evicted := l.ids[:len(l.ids)-maxIDs]
		for _, id := range evicted {
			delete(l.seen, id)
		}
		l.ids = append([]string(nil), l.ids[len(l.ids)-maxIDs:]...)
	}

	l.lastSuccess = now

	for topic, t := range lastSeenByTopic {
		if t.IsZero() {
			continue
		}
		if prev, ok := l.lastSeen[topic]; !ok || t.After(prev) {
			l.lastSeen[topic] = t
		}
	}
}
