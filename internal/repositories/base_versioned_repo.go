package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// versionedRepo gives a table with a row_version column GetByID and
// UpdateWithRetry. Embedding repos supply the single-row SELECT, the
// scanner and their conditional UPDATE.
type versionedRepo[T Versioned] struct {
	db              DB
	selectByID      string
	scan            func(pgx.Row) (T, error)
	updateIfVersion UpdateIfVersionFunc[T]
}

func newVersionedRepo[T Versioned](
	db DB,
	selectByID string,
	scan func(pgx.Row) (T, error),
	updateIfVersion UpdateIfVersionFunc[T],
) *versionedRepo[T] {
	return &versionedRepo[T]{db: db, selectByID: selectByID, scan: scan, updateIfVersion: updateIfVersion}
}

// GetByID returns nil, nil when no row matches.
func (b *versionedRepo[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	return b.scan(b.db.QueryRow(ctx, b.selectByID, id))
}

func (b *versionedRepo[T]) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(T) error) error {
	return WithRetry(ctx, defaultMaxRetries, id, b.GetByID, b.updateIfVersion, mutate)
}
