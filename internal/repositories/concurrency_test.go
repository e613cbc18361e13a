package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// versionedStore simulates a row whose version is bumped by another writer
// `conflicts` times before an update can land.
type versionedStore struct {
	row       models.PropertyType
	conflicts int
	reads     int
}

func (s *versionedStore) get(_ context.Context, _ uuid.UUID) (*models.PropertyType, error) {
	s.reads++
	c := s.row
	return &c, nil
}

func (s *versionedStore) update(_ context.Context, t *models.PropertyType, expected int64) (pgconn.CommandTag, error) {
	if s.conflicts > 0 {
		s.conflicts--
		s.row.RowVersion++
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	if s.row.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	s.row = *t
	s.row.RowVersion = expected + 1
	return pgconn.CommandTag("UPDATE 1"), nil
}

func rename(name string) func(*models.PropertyType) error {
	return func(t *models.PropertyType) error {
		t.Name = name
		return nil
	}
}

func TestWithRetryRereadsAfterConflict(t *testing.T) {
	s := &versionedStore{row: models.PropertyType{Name: "House", Versioned: models.Versioned{RowVersion: 1}}, conflicts: 2}

	err := WithRetry(context.Background(), defaultMaxRetries, uuid.New(), s.get, s.update, rename("Villa"))
	require.NoError(t, err)
	assert.Equal(t, "Villa", s.row.Name)
	assert.Equal(t, 3, s.reads)
	assert.EqualValues(t, 4, s.row.RowVersion)
}

func TestWithRetryGivesUp(t *testing.T) {
	s := &versionedStore{row: models.PropertyType{Name: "House"}, conflicts: defaultMaxRetries}

	err := WithRetry(context.Background(), defaultMaxRetries, uuid.New(), s.get, s.update, rename("Villa"))
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
	assert.Equal(t, "House", s.row.Name)
}

func TestWithRetryStopsOnMutateError(t *testing.T) {
	s := &versionedStore{row: models.PropertyType{Name: "House"}}
	boom := errors.New("boom")

	err := WithRetry(context.Background(), defaultMaxRetries, uuid.New(), s.get, s.update, func(*models.PropertyType) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.reads)
}

func TestWithRetryMissingRow(t *testing.T) {
	missing := func(context.Context, uuid.UUID) (*models.PropertyType, error) { return nil, nil }
	s := &versionedStore{}

	err := WithRetry(context.Background(), defaultMaxRetries, uuid.New(), missing, s.update, rename("Villa"))
	require.ErrorIs(t, err, pgx.ErrNoRows)
}
