package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrCorrupt marks a persisted ledger whose shape cannot be decoded. A corrupt
// ledger is never reset automatically: silently discarding delivery history
// would cause mass re-delivery, so the caller must resolve it by hand.
var ErrCorrupt = errors.New("corrupt ledger file")

// snapshot is the on-disk JSON shape. It round-trips exactly through
// save/load; delivered ids keep their insertion order.
type snapshot struct {
	DeliveredIDs        []string          `json:"delivered_ids"`
	LastSuccessAt       *string           `json:"last_success_at"`
	LastSeenPublishedAt map[string]string `json:"last_seen_published_at"`
}

// FileStore persists ledger snapshots to a single JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore wires the ledger file path.
func NewFileStore(path string, log *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: log}
}

// Load reads the persisted ledger. A missing file initializes and persists a
// fresh empty ledger; existing data that fails to decode is fatal.
func (s *FileStore) Load() (*Ledger, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		fresh := New()
		if err := s.Commit(fresh); err != nil {
			return nil, fmt.Errorf("initialize ledger: %w", err)
		}
		if s.logger != nil {
			s.logger.Info("initialized fresh ledger", "path", s.path)
		}
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %v: %w", s.path, err, ErrCorrupt)
	}

	led := New()
	for _, id := range snap.DeliveredIDs {
		if id == "" {
			continue
		}
		if _, ok := led.seen[id]; ok {
			continue
		}
		led.ids = append(led.ids, id)
		led.seen[id] = struct{}{}
	}

	if snap.LastSuccessAt != nil && *snap.LastSuccessAt != "" {
		t, err := time.Parse(time.RFC3339, *snap.LastSuccessAt)
		if err != nil {
			return nil, fmt.Errorf("ledger %s: bad last_success_at %q: %w", s.path, *snap.LastSuccessAt, ErrCorrupt)
		}
		led.lastSuccess = t.UTC()
	}

	for topic, value := range snap.LastSeenPublishedAt {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, fmt.Errorf("ledger %s: bad last_seen_published_at[%s]: %w", s.path, topic, ErrCorrupt)
		}
		led.lastSeen[topic] = t.UTC()
	}

	return led, nil
}

// Commit durably persists the full ledger snapshot, replacing the previous
// version. The write goes through a temp file plus rename so a crash mid-write
// leaves the previous snapshot intact.
func (s *FileStore) Commit(l *Ledger) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	snap := snapshot{
		DeliveredIDs:        l.ids,
		LastSeenPublishedAt: map[string]string{},
	}
	if snap.DeliveredIDs == nil {
		snap.DeliveredIDs = []string{}
	}
	if !l.lastSuccess.IsZero() {
		v := l.lastSuccess.UTC().Format(time.RFC3339)
		snap.LastSuccessAt = &v
	}
	for topic, t := range l.lastSeen {
		snap.LastSeenPublishedAt[topic] = t.UTC().Format(time.RFC3339)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	raw = append(raw, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write ledger temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger %s: %w", s.path, err)
	}
	return nil
}
