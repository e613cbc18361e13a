package testhelpers

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/repositories"
)

const maxRetries = 3

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

type memPropertyRepo struct{ s *MemoryStore }

func (s *MemoryStore) PropertyRepo() repositories.PropertyRepository { return &memPropertyRepo{s} }

func (r *memPropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.nameTaken(p.Name, p.ID) {
		return uniqueViolation("properties_name_key")
	}
	now := r.s.tick()
	p.CreatedAt, p.UpdatedAt, p.RowVersion = now, now, 1
	r.s.properties[p.ID] = cloneProperty(p)
	return nil
}

func (r *memPropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.readProperty(id), nil
}

func (r *memPropertyRepo) List(_ context.Context, includeInactive bool) ([]*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Property
	for id, p := range r.s.properties {
		if includeInactive || p.Active {
			out = append(out, r.s.readProperty(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPropertyRepo) ExistsByName(_ context.Context, name string, excludeID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.nameTaken(name, excludeID), nil
}

func (r *memPropertyRepo) UpdateIfVersion(_ context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.properties[p.ID]
	if !ok || stored.RowVersion != expected {
		return commandTag(0), nil
	}
	if r.s.nameTaken(p.Name, p.ID) {
		return nil, uniqueViolation("properties_name_key")
	}
	c := cloneProperty(p)
	c.RowVersion = expected + 1
	c.UpdatedAt = r.s.tick()
	r.s.properties[p.ID] = c

	for _, o := range r.s.offers {
		if o.PropertyID == p.ID {
			o.PropertyTypeID = cloneUUIDPtr(p.PropertyTypeID)
		}
	}
	return commandTag(1), nil
}

func (r *memPropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return repositories.WithRetry(ctx, maxRetries, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r *memPropertyRepo) DeleteIfVersion(_ context.Context, id uuid.UUID, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.properties[id]
	if !ok || stored.RowVersion != expected {
		return commandTag(0), nil
	}
	delete(r.s.properties, id)
	for oid, o := range r.s.offers {
		if o.PropertyID == id {
			delete(r.s.offers, oid)
		}
	}
	return commandTag(1), nil
}

// ---------------------------------------------------------------------------
// Offers
// ---------------------------------------------------------------------------

type memOfferRepo struct{ s *MemoryStore }

func (s *MemoryStore) OfferRepo() repositories.OfferRepository { return &memOfferRepo{s} }

func (r *memOfferRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.offers[id]
	if !ok {
		return nil, nil
	}
	return cloneOffer(o), nil
}

func (r *memOfferRepo) ListByProperty(_ context.Context, propertyID uuid.UUID) ([]*models.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.offersOf(propertyID), nil
}

func (r *memOfferRepo) ListByPropertyType(_ context.Context, typeID uuid.UUID) ([]*models.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.filterOffers(func(o *models.Offer) bool {
		return o.PropertyTypeID != nil && *o.PropertyTypeID == typeID
	}), nil
}

func (r *memOfferRepo) ListOpenPastDeadline(_ context.Context, today time.Time) ([]*models.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.filterOffers(func(o *models.Offer) bool {
		return o.Status == models.OfferStatusUnset && o.DateDeadline.Before(today)
	}), nil
}

func (r *memOfferRepo) CreateAtomic(
	_ context.Context,
	propertyID uuid.UUID,
	build repositories.OfferBuildFunc,
) (*models.Offer, *models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prop := r.s.readProperty(propertyID)
	if prop == nil {
		return nil, nil, pgx.ErrNoRows
	}
	existing := r.s.offersOf(propertyID)
	prevState := prop.State

	offer, err := build(prop, existing)
	if err != nil {
		return nil, nil, err
	}

	offer.RowVersion = 1
	offer.UpdatedAt = offer.CreatedAt
	r.s.offers[offer.ID] = cloneOffer(offer)
	if prop.State != prevState {
		prop.RowVersion++
		r.s.properties[propertyID] = cloneProperty(prop)
	}
	prop.BestPrice = models.BestPrice(append(existing, offer))
	return offer, prop, nil
}

// MutateAtomic works on copies and commits them only when mutate succeeds.
func (r *memOfferRepo) MutateAtomic(
	_ context.Context,
	offerID uuid.UUID,
	mutate repositories.OfferMutateFunc,
) (*models.Offer, *models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.offers[offerID]
	if !ok {
		return nil, nil, pgx.ErrNoRows
	}
	prop := r.s.readProperty(stored.PropertyID)
	if prop == nil {
		return nil, nil, pgx.ErrNoRows
	}
	all := r.s.offersOf(stored.PropertyID)
	var offer *models.Offer
	for _, o := range all {
		if o.ID == offerID {
			offer = o
		}
	}

	if err := mutate(prop, offer, all); err != nil {
		return nil, nil, err
	}

	prop.RowVersion++
	r.s.properties[prop.ID] = cloneProperty(prop)
	for _, o := range all {
		o.RowVersion++
		r.s.offers[o.ID] = cloneOffer(o)
	}
	prop.BestPrice = models.BestPrice(all)
	return offer, prop, nil
}

func (r *memOfferRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.offers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.offers, id)
	return nil
}

// ---------------------------------------------------------------------------
// Property types
// ---------------------------------------------------------------------------

type memPropertyTypeRepo struct{ s *MemoryStore }

func (s *MemoryStore) PropertyTypeRepo() repositories.PropertyTypeRepository {
	return &memPropertyTypeRepo{s}
}

func (r *memPropertyTypeRepo) read(id uuid.UUID) *models.PropertyType {
	t, ok := r.s.types[id]
	if !ok {
		return nil
	}
	c := *t
	c.OfferCount = 0
	for _, o := range r.s.offers {
		if o.PropertyTypeID != nil && *o.PropertyTypeID == id {
			c.OfferCount++
		}
	}
	return &c
}

func (r *memPropertyTypeRepo) Create(_ context.Context, t *models.PropertyType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.types[t.ID]; ok {
		return uniqueViolation("property_types_pkey")
	}
	now := r.s.tick()
	t.CreatedAt, t.UpdatedAt, t.RowVersion = now, now, 1
	c := *t
	r.s.types[t.ID] = &c
	return nil
}

func (r *memPropertyTypeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PropertyType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.read(id), nil
}

func (r *memPropertyTypeRepo) List(_ context.Context) ([]*models.PropertyType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.PropertyType
	for id := range r.s.types {
		out = append(out, r.read(id))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memPropertyTypeRepo) UpdateIfVersion(_ context.Context, t *models.PropertyType, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.types[t.ID]
	if !ok || stored.RowVersion != expected {
		return commandTag(0), nil
	}
	c := *t
	c.RowVersion = expected + 1
	c.UpdatedAt = r.s.tick()
	r.s.types[t.ID] = &c
	return commandTag(1), nil
}

func (r *memPropertyTypeRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.PropertyType) error) error {
	return repositories.WithRetry(ctx, maxRetries, id, r.GetByID, r.UpdateIfVersion, mutate)
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

type MemPropertyTagRepo struct {
	s *MemoryStore
	// ListCalls counts List invocations that reached the store.
	ListCalls int
}

func (s *MemoryStore) PropertyTagRepo() *MemPropertyTagRepo { return &MemPropertyTagRepo{s: s} }

func (r *MemPropertyTagRepo) Create(_ context.Context, t *models.PropertyTag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tags {
		if existing.Name == t.Name {
			return uniqueViolation("property_tags_name_key")
		}
	}
	t.CreatedAt = r.s.tick()
	c := *t
	r.s.tags[t.ID] = &c
	return nil
}

func (r *MemPropertyTagRepo) List(_ context.Context) ([]*models.PropertyTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.ListCalls++
	var out []*models.PropertyTag
	for _, t := range r.s.tags {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemPropertyTagRepo) CountByIDs(_ context.Context, ids []uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := r.s.tags[id]; ok {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Audit log
// ---------------------------------------------------------------------------

type memAuditRepo struct{ s *MemoryStore }

func (s *MemoryStore) AuditRepo() repositories.EstateAuditLogRepository { return &memAuditRepo{s} }

func (r *memAuditRepo) Create(_ context.Context, entry *models.EstateAuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailAuditWrites {
		return errors.New("audit table unavailable")
	}
	c := *entry
	c.CreatedAt = r.s.tick()
	r.s.auditLogs = append(r.s.auditLogs, &c)
	return nil
}
