package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/utils"
)

type PropertyState string

const (
	PropertyStateNew           PropertyState = "new"
	PropertyStateOfferReceived PropertyState = "offer_received"
	PropertyStateOfferAccepted PropertyState = "offer_accepted"
	PropertyStateSold          PropertyState = "sold"
	PropertyStateCanceled      PropertyState = "canceled"
)

type GardenOrientation string

const (
	GardenOrientationUnset GardenOrientation = ""
	GardenOrientationNorth GardenOrientation = "north"
	GardenOrientationSouth GardenOrientation = "south"
	GardenOrientationEast  GardenOrientation = "east"
	GardenOrientationWest  GardenOrientation = "west"
)

func (o GardenOrientation) Valid() bool {
	switch o {
	case GardenOrientationUnset, GardenOrientationNorth, GardenOrientationSouth,
		GardenOrientationEast, GardenOrientationWest:
		return true
	}
	return false
}

const (
	// MinPriceRatio is the share of the expected price that selling prices
	// and offers must reach.
	MinPriceRatio = 0.9

	MinPropertyNameLength   = 3
	DefaultBedrooms         = 2
	DefaultAvailabilityDays = 90
	SuggestedGardenArea     = 10
)

// Property is a real-estate listing.
type Property struct {
	Versioned
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Postcode          string            `json:"postcode"`
	DateAvailability  time.Time         `json:"date_availability"`
	ExpectedPrice     float64           `json:"expected_price"`
	SellingPrice      float64           `json:"selling_price"`
	Bedrooms          int               `json:"bedrooms"`
	LivingArea        int               `json:"living_area"`
	Facades           int               `json:"facades"`
	Garage            bool              `json:"garage"`
	Garden            bool              `json:"garden"`
	GardenArea        int               `json:"garden_area"`
	GardenOrientation GardenOrientation `json:"garden_orientation,omitempty"`
	PropertyTypeID    *uuid.UUID        `json:"property_type_id,omitempty"`
	TagIDs            []uuid.UUID       `json:"tag_ids"`
	// BestPrice is read-only, filled from the offers when the record is loaded.
	BestPrice     float64       `json:"best_price"`
	BuyerID       *uuid.UUID    `json:"buyer_id,omitempty"`
	SalespersonID *uuid.UUID    `json:"salesperson_id,omitempty"`
	Active        bool          `json:"active"`
	State         PropertyState `json:"state"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewProperty returns a listing in state "new" with the record defaults.
// salespersonID is the acting user; it is never looked up implicitly.
func NewProperty(name string, expectedPrice float64, salespersonID *uuid.UUID, today time.Time) *Property {
	return &Property{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(name),
		ExpectedPrice:    expectedPrice,
		DateAvailability: utils.DateOnly(today).AddDate(0, 0, DefaultAvailabilityDays),
		Bedrooms:         DefaultBedrooms,
		SalespersonID:    salespersonID,
		Active:           true,
		State:            PropertyStateNew,
	}
}

// TotalArea is living area plus garden area.
func (p *Property) TotalArea() int {
	return p.LivingArea + p.GardenArea
}

// BestPrice is the highest offer price, or 0 without offers.
func BestPrice(offers []*Offer) float64 {
	best := 0.0
	for i, o := range offers {
		if i == 0 || o.Price > best {
			best = o.Price
		}
	}
	return best
}

// Validate re-checks every field invariant of the record, in order, and
// reports the first one broken. Name uniqueness needs the store and is
// checked by the caller afterwards.
func (p *Property) Validate() error {
	if p.ExpectedPrice <= 0 {
		return utils.ErrExpectedPriceNotPositive
	}
	if err := CheckSellingPrice(p.SellingPrice, p.ExpectedPrice); err != nil {
		return err
	}
	if len([]rune(strings.TrimSpace(p.Name))) < MinPropertyNameLength {
		return utils.ErrPropertyNameTooShort
	}
	if !p.GardenOrientation.Valid() {
		return utils.ErrInvalidGardenOrientation
	}
	return nil
}

// CheckSellingPrice: non-negative, and when set, at least 90% of expected.
func CheckSellingPrice(selling, expected float64) error {
	if selling < 0 {
		return utils.ErrSellingPriceNegative
	}
	if selling != 0 && selling < MinPriceRatio*expected {
		return utils.ErrSellingPriceTooLow
	}
	return nil
}

func (p *Property) Sell() error {
	if p.State == PropertyStateCanceled {
		return utils.ErrSellCanceledProperty
	}
	p.State = PropertyStateSold
	return nil
}

func (p *Property) Cancel() error {
	if p.State == PropertyStateSold {
		return utils.ErrCancelSoldProperty
	}
	p.State = PropertyStateCanceled
	return nil
}

// CheckDeletable allows deletion from new or canceled only.
func (p *Property) CheckDeletable() error {
	if p.State != PropertyStateNew && p.State != PropertyStateCanceled {
		return utils.ErrPropertyNotDeletable
	}
	return nil
}

// SuggestGardenFields is the edit-time fill-in for a toggled garden flag.
// It is offered to forms and never applied on write.
func SuggestGardenFields(garden bool) (int, GardenOrientation) {
	if garden {
		return SuggestedGardenArea, GardenOrientationNorth
	}
	return 0, GardenOrientationUnset
}
