package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/estate-service/internal/models"
)

type PropertyTypeRepository interface {
	Create(ctx context.Context, t *models.PropertyType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyType, error)
	List(ctx context.Context) ([]*models.PropertyType, error)
	UpdateIfVersion(ctx context.Context, t *models.PropertyType, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.PropertyType) error) error
}

type propertyTypeRepo struct {
	*versionedRepo[*models.PropertyType]
	db DB
}

func NewPropertyTypeRepository(db DB) PropertyTypeRepository {
	r := &propertyTypeRepo{db: db}
	r.versionedRepo = newVersionedRepo(db, baseSelectPropertyType()+" WHERE t.id=$1", scanPropertyType, r.UpdateIfVersion)
	return r
}

func (r *propertyTypeRepo) Create(ctx context.Context, t *models.PropertyType) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO property_types (id, name, sequence, created_at, updated_at, row_version)
        VALUES ($1,$2,$3,NOW(),NOW(),1)
    `, t.ID, t.Name, t.Sequence)
	if err == nil {
		t.RowVersion = 1
	}
	return err
}

func (r *propertyTypeRepo) List(ctx context.Context) ([]*models.PropertyType, error) {
	rows, err := r.db.Query(ctx, baseSelectPropertyType()+" ORDER BY t.sequence, t.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PropertyType
	for rows.Next() {
		t, err := scanPropertyType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *propertyTypeRepo) UpdateIfVersion(ctx context.Context, t *models.PropertyType, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE property_types
        SET name=$1, sequence=$2, row_version=row_version+1, updated_at=NOW()
        WHERE id=$3 AND row_version=$4
    `, t.Name, t.Sequence, t.ID, expected)
}

// offer_count follows the offers' own property_type_id, not their property.
func baseSelectPropertyType() string {
	return `
        SELECT
            t.id, t.name, t.sequence,
            (SELECT COUNT(*) FROM property_offers o WHERE o.property_type_id=t.id),
            t.created_at, t.updated_at, t.row_version
        FROM property_types t
    `
}

func scanPropertyType(row pgx.Row) (*models.PropertyType, error) {
	var t models.PropertyType
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Sequence,
		&t.OfferCount,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.RowVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
