package dtos

import (
	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/models"
)

type CreatePropertyTypeRequest struct {
	Name     string `json:"name"`
	Sequence *int   `json:"sequence,omitempty"`
}

type UpdatePropertyTypeRequest struct {
	Name     *string `json:"name,omitempty"`
	Sequence *int    `json:"sequence,omitempty"`
}

type PropertyType struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Sequence   int       `json:"sequence"`
	OfferCount int       `json:"offer_count"`
	HasOffers  bool      `json:"has_offers"`
	RowVersion int64     `json:"row_version"`
}

func NewPropertyTypeFromModel(t *models.PropertyType) PropertyType {
	return PropertyType{
		ID:         t.ID,
		Name:       t.Name,
		Sequence:   t.Sequence,
		OfferCount: t.OfferCount,
		HasOffers:  t.HasOffers(),
		RowVersion: t.RowVersion,
	}
}

type ListPropertyTypesResponse struct {
	PropertyTypes []PropertyType `json:"property_types"`
}

type CreatePropertyTagRequest struct {
	Name string `json:"name" validate:"max=64"`
}

type PropertyTag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ListPropertyTagsResponse struct {
	PropertyTags []PropertyTag `json:"property_tags"`
}
