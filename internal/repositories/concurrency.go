package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/estate-service/internal/utils"
)

const defaultMaxRetries = 3

// Versioned records carry a row_version bumped by every successful write.
// T is a pointer type, so its zero value (nil) means "not found".
type Versioned interface {
	comparable
	GetRowVersion() int64
	SetRowVersion(int64)
}

type UpdateIfVersionFunc[T Versioned] func(ctx context.Context, entity T, expectedVersion int64) (pgconn.CommandTag, error)

type GetByIDFunc[T Versioned] func(ctx context.Context, id uuid.UUID) (T, error)

// WithRetry re-reads, mutates and conditionally writes the record until the
// write lands on the version it read, up to maxRetries times. A mutate error
// ends the loop and is returned unchanged, so domain errors keep their type.
func WithRetry[T Versioned](
	ctx context.Context,
	maxRetries int,
	id uuid.UUID,
	getByID GetByIDFunc[T],
	updateIfVersion UpdateIfVersionFunc[T],
	mutate func(T) error,
) error {
	var missing T
	for attempt := 1; attempt <= maxRetries; attempt++ {
		current, err := getByID(ctx, id)
		if err != nil {
			return err
		}
		if current == missing {
			return pgx.ErrNoRows
		}

		read := current.GetRowVersion()
		if err := mutate(current); err != nil {
			return err
		}

		tag, err := updateIfVersion(ctx, current, read)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			current.SetRowVersion(read + 1)
			return nil
		}
		utils.Logger.WithField("id", id).Debugf("row_version %d is stale (attempt %d/%d)", read, attempt, maxRetries)
	}
	return fmt.Errorf("updating %s: %w", id, utils.ErrRowVersionConflict)
}
