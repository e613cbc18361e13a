package testhelpers

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/poofware/estate-service/internal/models"
)

// MemoryStore is an in-memory stand-in for the estate tables. Every read
// returns a copy and every write stores one, so callers observe the same
// isolation they get from Postgres. One mutex serialises all access, which
// makes the *Atomic operations trivially transactional.
type MemoryStore struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*models.Property
	offers     map[uuid.UUID]*models.Offer
	types      map[uuid.UUID]*models.PropertyType
	tags       map[uuid.UUID]*models.PropertyTag
	auditLogs  []*models.EstateAuditLog

	// clock hands out strictly increasing created_at values.
	clock time.Time

	// FailAuditWrites makes the audit repository return an error.
	FailAuditWrites bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		properties: make(map[uuid.UUID]*models.Property),
		offers:     make(map[uuid.UUID]*models.Offer),
		types:      make(map[uuid.UUID]*models.PropertyType),
		tags:       make(map[uuid.UUID]*models.PropertyTag),
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AuditLogs returns a snapshot of recorded audit entries.
func (s *MemoryStore) AuditLogs() []*models.EstateAuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.EstateAuditLog, len(s.auditLogs))
	copy(out, s.auditLogs)
	return out
}

func (s *MemoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

func commandTag(rows int) pgconn.CommandTag {
	if rows == 0 {
		return pgconn.CommandTag("UPDATE 0")
	}
	return pgconn.CommandTag("UPDATE 1")
}

func cloneUUIDPtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneProperty(p *models.Property) *models.Property {
	c := *p
	c.TagIDs = append([]uuid.UUID{}, p.TagIDs...)
	c.PropertyTypeID = cloneUUIDPtr(p.PropertyTypeID)
	c.BuyerID = cloneUUIDPtr(p.BuyerID)
	c.SalespersonID = cloneUUIDPtr(p.SalespersonID)
	return &c
}

func cloneOffer(o *models.Offer) *models.Offer {
	c := *o
	c.PropertyTypeID = cloneUUIDPtr(o.PropertyTypeID)
	return &c
}

// readProperty returns a copy with the derived best price filled in.
func (s *MemoryStore) readProperty(id uuid.UUID) *models.Property {
	p, ok := s.properties[id]
	if !ok {
		return nil
	}
	c := cloneProperty(p)
	c.BestPrice = models.BestPrice(s.offersOf(id))
	return c
}

// offersOf returns copies of a property's offers, highest price first.
func (s *MemoryStore) offersOf(propertyID uuid.UUID) []*models.Offer {
	return s.filterOffers(func(o *models.Offer) bool { return o.PropertyID == propertyID })
}

func (s *MemoryStore) filterOffers(keep func(*models.Offer) bool) []*models.Offer {
	var out []*models.Offer
	for _, o := range s.offers {
		if keep(o) {
			out = append(out, cloneOffer(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price > out[j].Price
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *MemoryStore) nameTaken(name string, excludeID uuid.UUID) bool {
	name = strings.TrimSpace(name)
	for id, p := range s.properties {
		if id != excludeID && strings.TrimSpace(p.Name) == name {
			return true
		}
	}
	return false
}
