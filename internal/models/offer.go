package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/utils"
)

type OfferStatus string

const (
	OfferStatusUnset    OfferStatus = ""
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRefused  OfferStatus = "refused"
)

const DefaultOfferValidityDays = 7

// Offer is a partner's bid on a Property. PropertyTypeID mirrors the parent
// property's type and is rewritten whenever that type changes.
type Offer struct {
	Versioned
	ID             uuid.UUID   `json:"id"`
	PropertyID     uuid.UUID   `json:"property_id"`
	PartnerID      uuid.UUID   `json:"partner_id"`
	Price          float64     `json:"price"`
	Status         OfferStatus `json:"status,omitempty"`
	Validity       int         `json:"validity"`
	DateDeadline   time.Time   `json:"date_deadline"`
	PropertyTypeID *uuid.UUID  `json:"property_type_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewOffer builds an unset offer created at `now`. A nil validity means the
// default of seven days.
func NewOffer(prop *Property, partnerID uuid.UUID, price float64, validity *int, now time.Time) *Offer {
	o := &Offer{
		ID:             uuid.New(),
		PropertyID:     prop.ID,
		PartnerID:      partnerID,
		Price:          price,
		PropertyTypeID: prop.PropertyTypeID,
		CreatedAt:      now.UTC(),
	}
	days := DefaultOfferValidityDays
	if validity != nil {
		days = *validity
	}
	o.SetValidity(days)
	return o
}

// CreatedDate is the calendar day both Validity and DateDeadline count from.
func (o *Offer) CreatedDate() time.Time {
	return utils.DateOnly(o.CreatedAt)
}

func (o *Offer) SetValidity(days int) {
	o.Validity = days
	o.DateDeadline = o.CreatedDate().AddDate(0, 0, days)
}

// SetDateDeadline stores the deadline and back-computes Validity.
func (o *Offer) SetDateDeadline(d time.Time) {
	o.DateDeadline = utils.DateOnly(d)
	o.Validity = utils.DaysBetween(o.CreatedDate(), o.DateDeadline)
}

func (o *Offer) Refuse() {
	o.Status = OfferStatusRefused
}

// IsExpired reports an unanswered offer whose deadline is before `today`.
func (o *Offer) IsExpired(today time.Time) bool {
	return o.Status == OfferStatusUnset && o.DateDeadline.Before(utils.DateOnly(today))
}

// CheckOfferPrice applies the offer price rules in order. `others` are the
// property's offers excluding the one being priced.
func CheckOfferPrice(price float64, prop *Property, others []*Offer) error {
	if price <= 0 {
		return utils.ErrOfferPriceNotPositive
	}
	if price < MinPriceRatio*prop.ExpectedPrice {
		return utils.ErrOfferBelowMinimum
	}
	for _, o := range others {
		if o.Price >= price {
			return utils.ErrOfferNotHighest
		}
	}
	return nil
}

// RegisterOffer moves a fresh listing to offer_received. Other states are kept.
func (p *Property) RegisterOffer() {
	if p.State == PropertyStateNew {
		p.State = PropertyStateOfferReceived
	}
}

// AcceptOffer applies the acceptance cascade in memory. Nothing is mutated
// unless every rule passes; siblings are all the property's other offers and
// each of them ends up refused.
func AcceptOffer(prop *Property, offer *Offer, siblings []*Offer) error {
	if prop.State == PropertyStateSold {
		return utils.ErrAcceptOnSoldProperty
	}
	if err := CheckSellingPrice(offer.Price, prop.ExpectedPrice); err != nil {
		return err
	}

	buyer := offer.PartnerID
	prop.SellingPrice = offer.Price
	prop.BuyerID = &buyer
	prop.State = PropertyStateOfferAccepted

	offer.Status = OfferStatusAccepted
	for _, s := range siblings {
		if s.ID == offer.ID {
			continue
		}
		s.Refuse()
	}
	return nil
}
