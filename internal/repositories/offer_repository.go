package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/estate-service/internal/models"
)

// OfferBuildFunc receives the locked property and its current offers and
// returns the offer to insert. It may advance the property's state.
type OfferBuildFunc func(prop *models.Property, existing []*models.Offer) (*models.Offer, error)

// OfferMutateFunc receives the locked property, the target offer and every
// offer of the property (target included). Mutations to any of them are
// persisted when it returns nil.
type OfferMutateFunc func(prop *models.Property, offer *models.Offer, all []*models.Offer) error

type OfferRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Offer, error)
	ListByPropertyType(ctx context.Context, typeID uuid.UUID) ([]*models.Offer, error)
	ListOpenPastDeadline(ctx context.Context, today time.Time) ([]*models.Offer, error)

	// CreateAtomic inserts an offer with its property row locked.
	CreateAtomic(ctx context.Context, propertyID uuid.UUID, build OfferBuildFunc) (*models.Offer, *models.Property, error)
	// MutateAtomic locks the offer's property and all its offers, applies
	// mutate, then writes back the property and every changed offer.
	MutateAtomic(ctx context.Context, offerID uuid.UUID, mutate OfferMutateFunc) (*models.Offer, *models.Property, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type offerRepo struct {
	db DB
}

func NewOfferRepository(db DB) OfferRepository {
	return &offerRepo{db: db}
}

func (r *offerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	return scanOffer(r.db.QueryRow(ctx, baseSelectOffer()+" WHERE id=$1", id))
}

func (r *offerRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Offer, error) {
	return r.list(ctx, r.db, baseSelectOffer()+" WHERE property_id=$1 ORDER BY price DESC", propertyID)
}

func (r *offerRepo) ListByPropertyType(ctx context.Context, typeID uuid.UUID) ([]*models.Offer, error) {
	return r.list(ctx, r.db, baseSelectOffer()+" WHERE property_type_id=$1 ORDER BY price DESC", typeID)
}

func (r *offerRepo) ListOpenPastDeadline(ctx context.Context, today time.Time) ([]*models.Offer, error) {
	return r.list(ctx, r.db, baseSelectOffer()+`
        WHERE status='' AND date_deadline < $1
        ORDER BY property_id, date_deadline
    `, today)
}

func (r *offerRepo) CreateAtomic(
	ctx context.Context,
	propertyID uuid.UUID,
	build OfferBuildFunc,
) (offer *models.Offer, prop *models.Property, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer finishTx(ctx, tx, &err)

	prop, existing, err := r.lockProperty(ctx, tx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	prevState := prop.State

	offer, err = build(prop, existing)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO property_offers (
            id, property_id, partner_id, price, status, validity, date_deadline,
            property_type_id, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),1)
    `,
		offer.ID, offer.PropertyID, offer.PartnerID, offer.Price, offer.Status,
		offer.Validity, offer.DateDeadline, offer.PropertyTypeID, offer.CreatedAt,
	)
	if err != nil {
		return nil, nil, err
	}
	offer.RowVersion = 1

	if prop.State != prevState {
		if err = writePropertyState(ctx, tx, prop); err != nil {
			return nil, nil, err
		}
	}
	prop.BestPrice = models.BestPrice(append(existing, offer))
	return offer, prop, nil
}

func (r *offerRepo) MutateAtomic(
	ctx context.Context,
	offerID uuid.UUID,
	mutate OfferMutateFunc,
) (offer *models.Offer, prop *models.Property, err error) {
	var propertyID uuid.UUID
	err = r.db.QueryRow(ctx, `SELECT property_id FROM property_offers WHERE id=$1`, offerID).Scan(&propertyID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer finishTx(ctx, tx, &err)

	prop, all, err := r.lockProperty(ctx, tx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	for _, o := range all {
		if o.ID == offerID {
			offer = o
			break
		}
	}
	if offer == nil {
		// deleted or moved between the lookup and the lock
		return nil, nil, pgx.ErrNoRows
	}

	propBefore := *prop
	offersBefore := make(map[uuid.UUID]models.Offer, len(all))
	for _, o := range all {
		offersBefore[o.ID] = *o
	}

	if err = mutate(prop, offer, all); err != nil {
		return nil, nil, err
	}

	if propertyChanged(&propBefore, prop) {
		if err = writePropertyState(ctx, tx, prop); err != nil {
			return nil, nil, err
		}
	}
	// Refusals land before the acceptance so property_offers_one_accepted
	// never sees two accepted rows.
	for _, accepted := range []bool{false, true} {
		for _, o := range all {
			if (o.Status == models.OfferStatusAccepted) != accepted || !offerChanged(offersBefore[o.ID], o) {
				continue
			}
			if err = writeOffer(ctx, tx, o); err != nil {
				return nil, nil, err
			}
		}
	}
	prop.BestPrice = models.BestPrice(all)
	return offer, prop, nil
}

func (r *offerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM property_offers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ------------------------------------------------------------------
   Helpers
------------------------------------------------------------------ */

// lockProperty takes the property row lock, then the offer rows, always in
// that order.
func (r *offerRepo) lockProperty(ctx context.Context, tx pgx.Tx, propertyID uuid.UUID) (*models.Property, []*models.Offer, error) {
	prop, err := scanProperty(tx.QueryRow(ctx, baseSelectProperty()+" WHERE p.id=$1 FOR UPDATE OF p", propertyID))
	if err != nil {
		return nil, nil, err
	}
	if prop == nil {
		return nil, nil, pgx.ErrNoRows
	}
	offers, err := r.list(ctx, tx, baseSelectOffer()+" WHERE property_id=$1 ORDER BY price DESC FOR UPDATE", propertyID)
	if err != nil {
		return nil, nil, err
	}
	return prop, offers, nil
}

func (r *offerRepo) list(ctx context.Context, q DB, sql string, args ...any) ([]*models.Offer, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func propertyChanged(before, after *models.Property) bool {
	return before.State != after.State ||
		before.SellingPrice != after.SellingPrice ||
		!uuidPtrEqual(before.BuyerID, after.BuyerID)
}

func offerChanged(before models.Offer, after *models.Offer) bool {
	return before.Status != after.Status ||
		before.Price != after.Price ||
		before.Validity != after.Validity ||
		!before.DateDeadline.Equal(after.DateDeadline)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func writePropertyState(ctx context.Context, tx pgx.Tx, p *models.Property) error {
	_, err := tx.Exec(ctx, `
        UPDATE properties
        SET state=$1, selling_price=$2, buyer_id=$3,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$4
    `, p.State, p.SellingPrice, p.BuyerID, p.ID)
	if err == nil {
		p.RowVersion++
	}
	return err
}

func writeOffer(ctx context.Context, tx pgx.Tx, o *models.Offer) error {
	_, err := tx.Exec(ctx, `
        UPDATE property_offers
        SET price=$1, status=$2, validity=$3, date_deadline=$4,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$5
    `, o.Price, o.Status, o.Validity, o.DateDeadline, o.ID)
	if err == nil {
		o.RowVersion++
	}
	return err
}

func baseSelectOffer() string {
	return `
        SELECT
            id, property_id, partner_id, price, status, validity, date_deadline,
            property_type_id, created_at, updated_at, row_version
        FROM property_offers
    `
}

func scanOffer(row pgx.Row) (*models.Offer, error) {
	var o models.Offer
	err := row.Scan(
		&o.ID,
		&o.PropertyID,
		&o.PartnerID,
		&o.Price,
		&o.Status,
		&o.Validity,
		&o.DateDeadline,
		&o.PropertyTypeID,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.RowVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}
