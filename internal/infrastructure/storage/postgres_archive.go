package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"ArxivDigest/internal/domain"
	"ArxivDigest/internal/ports"
)

// PostgresArchive records delivered papers in Postgres for audit and ad-hoc
// queries. The ledger file stays the idempotency source of truth; the archive
// is append-only history.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.Archive = (*PostgresArchive)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveDelivered inserts the run's delivered papers in one statement.
// Re-deliveries of an already archived paper are ignored.
func (a *PostgresArchive) SaveDelivered(ctx context.Context, papers []domain.DeliveredPaper) error {
	if a.db == nil || len(papers) == 0 {
		return nil
	}

	insert := a.builder.
		Insert("delivered_papers").
		Columns("paper_id", "topic", "title", "category", "url", "educational", "published_at", "delivered_at").
		Suffix("ON CONFLICT (paper_id) DO NOTHING")

	for _, p := range papers {
		insert = insert.Values(
			p.Paper.ID,
			p.Topic,
			p.Paper.Title,
			p.Paper.Category,
			p.Paper.URL,
			p.Educational,
			p.Paper.PublishedAt,
			p.DeliveredAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert delivered papers: %w", err)
	}
	return nil
}
