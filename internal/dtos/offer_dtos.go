package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/models"
)

// DateLayout is the wire format of calendar dates (date_deadline,
// date_availability).
const DateLayout = "2006-01-02"

type CreateOfferRequest struct {
	PartnerID uuid.UUID `json:"partner_id" validate:"required"`
	Price     float64   `json:"price"`
	Validity  *int      `json:"validity,omitempty" validate:"omitempty,gte=-36500,lte=36500"`
}

// UpdateOfferRequest drives date_deadline through either Validity or
// DateDeadline (YYYY-MM-DD), never both.
type UpdateOfferRequest struct {
	Price        *float64 `json:"price,omitempty"`
	Validity     *int     `json:"validity,omitempty" validate:"omitempty,gte=-36500,lte=36500"`
	DateDeadline *string  `json:"date_deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type Offer struct {
	ID             uuid.UUID  `json:"id"`
	PropertyID     uuid.UUID  `json:"property_id"`
	PartnerID      uuid.UUID  `json:"partner_id"`
	Price          float64    `json:"price"`
	Status         string     `json:"status"`
	Validity       int        `json:"validity"`
	DateDeadline   string     `json:"date_deadline"`
	PropertyTypeID *uuid.UUID `json:"property_type_id"`
	RowVersion     int64      `json:"row_version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewOfferFromModel(o *models.Offer) Offer {
	return Offer{
		ID:             o.ID,
		PropertyID:     o.PropertyID,
		PartnerID:      o.PartnerID,
		Price:          o.Price,
		Status:         string(o.Status),
		Validity:       o.Validity,
		DateDeadline:   o.DateDeadline.Format(DateLayout),
		PropertyTypeID: o.PropertyTypeID,
		RowVersion:     o.RowVersion,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func NewOffersFromModels(offers []*models.Offer) []Offer {
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		out = append(out, NewOfferFromModel(o))
	}
	return out
}

type ListOffersResponse struct {
	Offers []Offer `json:"offers"`
}

// OfferActionResponse is returned by create/accept/refuse, which may also
// move the property.
type OfferActionResponse struct {
	Offer    Offer    `json:"offer"`
	Property Property `json:"property"`
}
