package ports

import (
	"context"
	"time"

	"ArxivDigest/internal/domain"
	"ArxivDigest/internal/ledger"
)

// PaperSource pulls papers for a single configured topic. Papers published
// before the cutoff may still be returned; the selector filters them.
type PaperSource interface {
	FetchTopic(ctx context.Context, topicName string, cutoff time.Time) ([]domain.Paper, error)
}

// Messenger delivers one packed message unit at a time and reports success or
// failure per unit.
type Messenger interface {
	Send(ctx context.Context, unit string) error
}

// LedgerStore loads and commits delivery ledger snapshots.
type LedgerStore interface {
	Load() (*ledger.Ledger, error)
	Commit(l *ledger.Ledger) error
}

// Archive records delivered papers in external storage for audit. The ledger
// file, not the archive, is the idempotency source of truth.
type Archive interface {
	SaveDelivered(ctx context.Context, papers []domain.DeliveredPaper) error
}

// Scheduler controls when digest runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
