package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultPropertyTypeSequence = 1

type PropertyType struct {
	Versioned
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Sequence   int       `json:"sequence"`
	OfferCount int       `json:"offer_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t *PropertyType) HasOffers() bool { return t.OfferCount > 0 }
