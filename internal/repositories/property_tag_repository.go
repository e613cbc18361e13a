package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/models"
)

type PropertyTagRepository interface {
	Create(ctx context.Context, t *models.PropertyTag) error
	List(ctx context.Context) ([]*models.PropertyTag, error)
	// CountByIDs returns how many of the given ids exist.
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error)
}

type propertyTagRepo struct {
	db DB
}

func NewPropertyTagRepository(db DB) PropertyTagRepository {
	return &propertyTagRepo{db: db}
}

func (r *propertyTagRepo) Create(ctx context.Context, t *models.PropertyTag) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO property_tags (id, name, created_at)
        VALUES ($1,$2,NOW())
        RETURNING created_at
    `, t.ID, t.Name).Scan(&t.CreatedAt)
}

func (r *propertyTagRepo) List(ctx context.Context) ([]*models.PropertyTag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM property_tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PropertyTag
	for rows.Next() {
		var t models.PropertyTag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *propertyTagRepo) CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM property_tags WHERE id = ANY($1::uuid[])`, strIDs).Scan(&n)
	return n, err
}
