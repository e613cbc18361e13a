package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/models"
)

type CreatePropertyRequest struct {
	Name              string      `json:"name"`
	Description       *string     `json:"description,omitempty"`
	Postcode          *string     `json:"postcode,omitempty" validate:"omitempty,max=16"`
	DateAvailability  *string     `json:"date_availability,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpectedPrice     float64     `json:"expected_price"`
	Bedrooms          *int        `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	LivingArea        *int        `json:"living_area,omitempty" validate:"omitempty,gte=0"`
	Facades           *int        `json:"facades,omitempty" validate:"omitempty,gte=0"`
	Garage            *bool       `json:"garage,omitempty"`
	Garden            *bool       `json:"garden,omitempty"`
	GardenArea        *int        `json:"garden_area,omitempty" validate:"omitempty,gte=0"`
	GardenOrientation *string     `json:"garden_orientation,omitempty"`
	PropertyTypeID    *uuid.UUID  `json:"property_type_id,omitempty"`
	TagIDs            []uuid.UUID `json:"tag_ids,omitempty" validate:"omitempty,dive,required"`
	// SalespersonID defaults to the calling user.
	SalespersonID *uuid.UUID `json:"salesperson_id,omitempty"`
}

// UpdatePropertyRequest is a partial update. selling_price, buyer_id and
// state are only changed through offers and lifecycle actions.
type UpdatePropertyRequest struct {
	Name              *string      `json:"name,omitempty"`
	Description       *string      `json:"description,omitempty"`
	Postcode          *string      `json:"postcode,omitempty" validate:"omitempty,max=16"`
	DateAvailability  *string      `json:"date_availability,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpectedPrice     *float64     `json:"expected_price,omitempty"`
	Bedrooms          *int         `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	LivingArea        *int         `json:"living_area,omitempty" validate:"omitempty,gte=0"`
	Facades           *int         `json:"facades,omitempty" validate:"omitempty,gte=0"`
	Garage            *bool        `json:"garage,omitempty"`
	Garden            *bool        `json:"garden,omitempty"`
	GardenArea        *int         `json:"garden_area,omitempty" validate:"omitempty,gte=0"`
	GardenOrientation *string      `json:"garden_orientation,omitempty"`
	PropertyTypeID    *uuid.UUID   `json:"property_type_id,omitempty"`
	ClearPropertyType bool         `json:"clear_property_type,omitempty"`
	TagIDs            *[]uuid.UUID `json:"tag_ids,omitempty" validate:"omitempty,dive,required"`
	SalespersonID     *uuid.UUID   `json:"salesperson_id,omitempty"`
	Active            *bool        `json:"active,omitempty"`
}

type GardenSuggestionRequest struct {
	Garden bool `json:"garden"`
}

type GardenSuggestionResponse struct {
	GardenArea        int    `json:"garden_area"`
	GardenOrientation string `json:"garden_orientation"`
}

type Property struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Postcode          string      `json:"postcode"`
	DateAvailability  string      `json:"date_availability"`
	ExpectedPrice     float64     `json:"expected_price"`
	SellingPrice      float64     `json:"selling_price"`
	BestPrice         float64     `json:"best_price"`
	Bedrooms          int         `json:"bedrooms"`
	LivingArea        int         `json:"living_area"`
	Facades           int         `json:"facades"`
	Garage            bool        `json:"garage"`
	Garden            bool        `json:"garden"`
	GardenArea        int         `json:"garden_area"`
	GardenOrientation string      `json:"garden_orientation"`
	TotalArea         int         `json:"total_area"`
	PropertyTypeID    *uuid.UUID  `json:"property_type_id"`
	TagIDs            []uuid.UUID `json:"tag_ids"`
	BuyerID           *uuid.UUID  `json:"buyer_id"`
	SalespersonID     *uuid.UUID  `json:"salesperson_id"`
	Active            bool        `json:"active"`
	State             string      `json:"state"`
	RowVersion        int64       `json:"row_version"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func NewPropertyFromModel(p *models.Property) Property {
	tagIDs := p.TagIDs
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}
	return Property{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Postcode:          p.Postcode,
		DateAvailability:  p.DateAvailability.Format(DateLayout),
		ExpectedPrice:     p.ExpectedPrice,
		SellingPrice:      p.SellingPrice,
		BestPrice:         p.BestPrice,
		Bedrooms:          p.Bedrooms,
		LivingArea:        p.LivingArea,
		Facades:           p.Facades,
		Garage:            p.Garage,
		Garden:            p.Garden,
		GardenArea:        p.GardenArea,
		GardenOrientation: string(p.GardenOrientation),
		TotalArea:         p.TotalArea(),
		PropertyTypeID:    p.PropertyTypeID,
		TagIDs:            tagIDs,
		BuyerID:           p.BuyerID,
		SalespersonID:     p.SalespersonID,
		Active:            p.Active,
		State:             string(p.State),
		RowVersion:        p.RowVersion,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func NewPropertiesFromModels(ps []*models.Property) []Property {
	out := make([]Property, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewPropertyFromModel(p))
	}
	return out
}

type ListPropertiesResponse struct {
	Properties []Property `json:"properties"`
}
