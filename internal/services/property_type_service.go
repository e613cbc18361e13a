package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/utils"
)

type PropertyTypeService struct {
	typeRepo  repositories.PropertyTypeRepository
	offerRepo repositories.OfferRepository
	audit     auditLogger
}

func NewPropertyTypeService(
	typeRepo repositories.PropertyTypeRepository,
	offerRepo repositories.OfferRepository,
	auditRepo repositories.EstateAuditLogRepository,
) *PropertyTypeService {
	return &PropertyTypeService{
		typeRepo:  typeRepo,
		offerRepo: offerRepo,
		audit:     auditLogger{repo: auditRepo},
	}
}

func (s *PropertyTypeService) CreatePropertyType(
	ctx context.Context,
	actorID uuid.UUID,
	req dtos.CreatePropertyTypeRequest,
) (*dtos.PropertyType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, toAppError(utils.ErrPropertyTypeNameRequired, "Property type")
	}
	t := &models.PropertyType{
		ID:       uuid.New(),
		Name:     name,
		Sequence: models.DefaultPropertyTypeSequence,
	}
	if req.Sequence != nil {
		t.Sequence = *req.Sequence
	}
	if err := s.typeRepo.Create(ctx, t); err != nil {
		return nil, toAppError(err, "Property type")
	}
	s.audit.record(ctx, actorID, models.AuditCreate, models.TargetPropertyType, t.ID, req)

	out := dtos.NewPropertyTypeFromModel(t)
	return &out, nil
}

func (s *PropertyTypeService) GetPropertyType(ctx context.Context, id uuid.UUID) (*dtos.PropertyType, error) {
	t, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Property type")
	}
	if t == nil {
		return nil, notFound("Property type")
	}
	out := dtos.NewPropertyTypeFromModel(t)
	return &out, nil
}

// ListPropertyTypes is ordered by sequence, then name.
func (s *PropertyTypeService) ListPropertyTypes(ctx context.Context) (*dtos.ListPropertyTypesResponse, error) {
	ts, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, toAppError(err, "Property type")
	}
	out := make([]dtos.PropertyType, 0, len(ts))
	for _, t := range ts {
		out = append(out, dtos.NewPropertyTypeFromModel(t))
	}
	return &dtos.ListPropertyTypesResponse{PropertyTypes: out}, nil
}

func (s *PropertyTypeService) UpdatePropertyType(
	ctx context.Context,
	actorID uuid.UUID,
	id uuid.UUID,
	req dtos.UpdatePropertyTypeRequest,
) (*dtos.PropertyType, error) {
	err := s.typeRepo.UpdateWithRetry(ctx, id, func(t *models.PropertyType) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return utils.ErrPropertyTypeNameRequired
			}
			t.Name = name
		}
		if req.Sequence != nil {
			t.Sequence = *req.Sequence
		}
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "Property type")
	}
	s.audit.record(ctx, actorID, models.AuditUpdate, models.TargetPropertyType, id, req)
	return s.GetPropertyType(ctx, id)
}

// ListPropertyTypeOffers follows the offers' own property_type_id.
func (s *PropertyTypeService) ListPropertyTypeOffers(ctx context.Context, id uuid.UUID) (*dtos.ListOffersResponse, error) {
	if _, err := s.GetPropertyType(ctx, id); err != nil {
		return nil, err
	}
	offers, err := s.offerRepo.ListByPropertyType(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Offer")
	}
	return &dtos.ListOffersResponse{Offers: dtos.NewOffersFromModels(offers)}, nil
}
