package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/estate-service/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Property, error)
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error
	DeleteIfVersion(ctx context.Context, id uuid.UUID, expected int64) (pgconn.CommandTag, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	*versionedRepo[*models.Property]
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	r := &propertyRepo{db: db}
	selectStmt := baseSelectProperty() + " WHERE p.id=$1"
	r.versionedRepo = newVersionedRepo(db, selectStmt, scanProperty, r.UpdateIfVersion)
	return r
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer finishTx(ctx, tx, &err)

	_, err = tx.Exec(ctx, `
        INSERT INTO properties (
            id, name, description, postcode, date_availability,
            expected_price, selling_price, bedrooms, living_area, facades,
            garage, garden, garden_area, garden_orientation,
            property_type_id, buyer_id, salesperson_id, active, state,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19, NOW(), NOW(), 1)
    `,
		p.ID, p.Name, p.Description, p.Postcode, p.DateAvailability,
		p.ExpectedPrice, p.SellingPrice, p.Bedrooms, p.LivingArea, p.Facades,
		p.Garage, p.Garden, p.GardenArea, p.GardenOrientation,
		p.PropertyTypeID, p.BuyerID, p.SalespersonID, p.Active, p.State,
	)
	if err != nil {
		return err
	}
	if err = replaceTagLinks(ctx, tx, p.ID, p.TagIDs); err != nil {
		return err
	}
	p.RowVersion = 1
	return nil
}

func (r *propertyRepo) List(ctx context.Context, includeInactive bool) ([]*models.Property, error) {
	q := baseSelectProperty()
	if !includeInactive {
		q += " WHERE p.active"
	}
	rows, err := r.db.Query(ctx, q+" ORDER BY p.created_at DESC, p.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ExistsByName matches the trimmed name exactly, case preserved, over active
// and archived records alike.
func (r *propertyRepo) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM properties WHERE btrim(name)=btrim($1) AND id<>$2)`,
		name, excludeID,
	).Scan(&exists)
	return exists, err
}

// UpdateIfVersion writes the property, its tag links and the denormalised
// property_type_id of its offers in one transaction. A version mismatch
// returns a zero CommandTag and writes nothing.
func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (tag pgconn.CommandTag, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer finishTx(ctx, tx, &err)

	tag, err = tx.Exec(ctx, `
        UPDATE properties SET
            name=$1, description=$2, postcode=$3, date_availability=$4,
            expected_price=$5, selling_price=$6, bedrooms=$7, living_area=$8, facades=$9,
            garage=$10, garden=$11, garden_area=$12, garden_orientation=$13,
            property_type_id=$14, buyer_id=$15, salesperson_id=$16, active=$17, state=$18,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$19 AND row_version=$20
    `,
		p.Name, p.Description, p.Postcode, p.DateAvailability,
		p.ExpectedPrice, p.SellingPrice, p.Bedrooms, p.LivingArea, p.Facades,
		p.Garage, p.Garden, p.GardenArea, p.GardenOrientation,
		p.PropertyTypeID, p.BuyerID, p.SalespersonID, p.Active, p.State,
		p.ID, expected,
	)
	if err != nil || tag.RowsAffected() == 0 {
		return tag, err
	}

	if err = syncOfferPropertyType(ctx, tx, p.ID, p.PropertyTypeID); err != nil {
		return nil, err
	}
	if err = replaceTagLinks(ctx, tx, p.ID, p.TagIDs); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteIfVersion removes the property; its offers and tag links go with it
// through ON DELETE CASCADE.
func (r *propertyRepo) DeleteIfVersion(ctx context.Context, id uuid.UUID, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `DELETE FROM properties WHERE id=$1 AND row_version=$2`, id, expected)
}

/* ------------------------------------------------------------------
   Helpers
------------------------------------------------------------------ */

func syncOfferPropertyType(ctx context.Context, tx pgx.Tx, propertyID uuid.UUID, typeID *uuid.UUID) error {
	_, err := tx.Exec(ctx, `
        UPDATE property_offers
        SET property_type_id=$1, row_version=row_version+1, updated_at=NOW()
        WHERE property_id=$2 AND property_type_id IS DISTINCT FROM $1
    `, typeID, propertyID)
	return err
}

func replaceTagLinks(ctx context.Context, tx pgx.Tx, propertyID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM property_tag_links WHERE property_id=$1`, propertyID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		_, err := tx.Exec(ctx, `
            INSERT INTO property_tag_links (property_id, tag_id) VALUES ($1,$2)
            ON CONFLICT DO NOTHING
        `, propertyID, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

func baseSelectProperty() string {
	return `
        SELECT
            p.id, p.name, p.description, p.postcode, p.date_availability,
            p.expected_price, p.selling_price, p.bedrooms, p.living_area, p.facades,
            p.garage, p.garden, p.garden_area, p.garden_orientation,
            p.property_type_id,
            COALESCE((SELECT array_agg(l.tag_id::text ORDER BY l.tag_id) FROM property_tag_links l WHERE l.property_id=p.id), '{}'),
            COALESCE((SELECT MAX(o.price) FROM property_offers o WHERE o.property_id=p.id), 0),
            p.buyer_id, p.salesperson_id, p.active, p.state,
            p.created_at, p.updated_at, p.row_version
        FROM properties p
    `
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	var tagIDs []string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Postcode, &p.DateAvailability,
		&p.ExpectedPrice, &p.SellingPrice, &p.Bedrooms, &p.LivingArea, &p.Facades,
		&p.Garage, &p.Garden, &p.GardenArea, &p.GardenOrientation,
		&p.PropertyTypeID,
		&tagIDs,
		&p.BestPrice,
		&p.BuyerID, &p.SalespersonID, &p.Active, &p.State,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.TagIDs = make([]uuid.UUID, 0, len(tagIDs))
	for _, s := range tagIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		p.TagIDs = append(p.TagIDs, id)
	}
	return &p, nil
}
