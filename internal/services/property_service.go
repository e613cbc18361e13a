package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/utils"
)

type PropertyService struct {
	propRepo  repositories.PropertyRepository
	offerRepo repositories.OfferRepository
	typeRepo  repositories.PropertyTypeRepository
	tagRepo   repositories.PropertyTagRepository
	audit     auditLogger
	now       func() time.Time
}

func NewPropertyService(
	propRepo repositories.PropertyRepository,
	offerRepo repositories.OfferRepository,
	typeRepo repositories.PropertyTypeRepository,
	tagRepo repositories.PropertyTagRepository,
	auditRepo repositories.EstateAuditLogRepository,
) *PropertyService {
	return &PropertyService{
		propRepo:  propRepo,
		offerRepo: offerRepo,
		typeRepo:  typeRepo,
		tagRepo:   tagRepo,
		audit:     auditLogger{repo: auditRepo},
		now:       time.Now,
	}
}

// CreateProperty stores a new listing in state "new". The salesperson
// defaults to actorID unless the request names one.
func (s *PropertyService) CreateProperty(
	ctx context.Context,
	actorID uuid.UUID,
	req dtos.CreatePropertyRequest,
) (*dtos.Property, error) {
	salesperson := actorID
	if req.SalespersonID != nil {
		salesperson = *req.SalespersonID
	}
	p := models.NewProperty(req.Name, req.ExpectedPrice, &salesperson, s.now())

	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Postcode != nil {
		p.Postcode = *req.Postcode
	}
	if req.DateAvailability != nil {
		d, err := parseDate("date_availability", *req.DateAvailability)
		if err != nil {
			return nil, err
		}
		p.DateAvailability = d
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	p.LivingArea = utils.Val(req.LivingArea)
	p.Facades = utils.Val(req.Facades)
	p.Garage = utils.Val(req.Garage)
	p.Garden = utils.Val(req.Garden)
	p.GardenArea = utils.Val(req.GardenArea)
	p.GardenOrientation = models.GardenOrientation(utils.Val(req.GardenOrientation))
	p.PropertyTypeID = req.PropertyTypeID
	p.TagIDs = dedupeIDs(req.TagIDs)

	if err := s.validate(ctx, p); err != nil {
		return nil, toAppError(err, "Property")
	}
	if err := s.propRepo.Create(ctx, p); err != nil {
		return nil, toAppError(err, "Property")
	}

	created, err := s.propRepo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, toAppError(err, "Property")
	}
	if created == nil {
		return nil, notFound("Property")
	}
	s.audit.record(ctx, actorID, models.AuditCreate, models.TargetProperty, p.ID, req)

	out := dtos.NewPropertyFromModel(created)
	return &out, nil
}

func (s *PropertyService) GetProperty(ctx context.Context, id uuid.UUID) (*dtos.Property, error) {
	p, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Property")
	}
	if p == nil {
		return nil, notFound("Property")
	}
	out := dtos.NewPropertyFromModel(p)
	return &out, nil
}

// ListProperties returns newest first. Archived records are skipped unless
// includeInactive is set.
func (s *PropertyService) ListProperties(ctx context.Context, includeInactive bool) (*dtos.ListPropertiesResponse, error) {
	ps, err := s.propRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, toAppError(err, "Property")
	}
	return &dtos.ListPropertiesResponse{Properties: dtos.NewPropertiesFromModels(ps)}, nil
}

// UpdateProperty applies a partial update and re-validates the whole record.
// A property type change is pushed to the property's offers in the same
// transaction.
func (s *PropertyService) UpdateProperty(
	ctx context.Context,
	actorID uuid.UUID,
	id uuid.UUID,
	req dtos.UpdatePropertyRequest,
) (*dtos.Property, error) {
	var dateAvailability *time.Time
	if req.DateAvailability != nil {
		d, err := parseDate("date_availability", *req.DateAvailability)
		if err != nil {
			return nil, err
		}
		dateAvailability = &d
	}

	err := s.propRepo.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		applyPropertyUpdate(p, req, dateAvailability)
		return s.validate(ctx, p)
	})
	if err != nil {
		return nil, toAppError(err, "Property")
	}
	s.audit.record(ctx, actorID, models.AuditUpdate, models.TargetProperty, id, req)
	return s.GetProperty(ctx, id)
}

func (s *PropertyService) SellProperty(ctx context.Context, actorID, id uuid.UUID) (*dtos.Property, error) {
	return s.transition(ctx, actorID, id, models.AuditSell, (*models.Property).Sell)
}

func (s *PropertyService) CancelProperty(ctx context.Context, actorID, id uuid.UUID) (*dtos.Property, error) {
	return s.transition(ctx, actorID, id, models.AuditCancel, (*models.Property).Cancel)
}

func (s *PropertyService) transition(
	ctx context.Context,
	actorID, id uuid.UUID,
	action models.AuditAction,
	apply func(*models.Property) error,
) (*dtos.Property, error) {
	if err := s.propRepo.UpdateWithRetry(ctx, id, apply); err != nil {
		return nil, toAppError(err, "Property")
	}
	s.audit.record(ctx, actorID, action, models.TargetProperty, id, nil)
	return s.GetProperty(ctx, id)
}

// DeleteProperty removes a new or canceled property together with its offers.
func (s *PropertyService) DeleteProperty(ctx context.Context, actorID, id uuid.UUID) error {
	p, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return toAppError(err, "Property")
	}
	if p == nil {
		return notFound("Property")
	}
	if err := p.CheckDeletable(); err != nil {
		return toAppError(err, "Property")
	}

	tag, err := s.propRepo.DeleteIfVersion(ctx, id, p.RowVersion)
	if err != nil {
		return toAppError(err, "Property")
	}
	if tag.RowsAffected() == 0 {
		return toAppError(utils.ErrRowVersionConflict, "Property")
	}
	s.audit.record(ctx, actorID, models.AuditDelete, models.TargetProperty, id, dtos.NewPropertyFromModel(p))
	return nil
}

func (s *PropertyService) ListPropertyOffers(ctx context.Context, id uuid.UUID) (*dtos.ListOffersResponse, error) {
	p, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Property")
	}
	if p == nil {
		return nil, notFound("Property")
	}
	offers, err := s.offerRepo.ListByProperty(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Offer")
	}
	return &dtos.ListOffersResponse{Offers: dtos.NewOffersFromModels(offers)}, nil
}

// SuggestGarden is the edit-time fill-in for a toggled garden checkbox.
// Nothing is stored.
func (s *PropertyService) SuggestGarden(req dtos.GardenSuggestionRequest) dtos.GardenSuggestionResponse {
	area, orientation := models.SuggestGardenFields(req.Garden)
	return dtos.GardenSuggestionResponse{GardenArea: area, GardenOrientation: string(orientation)}
}

// validate runs the record's own rules first, then the checks that need the
// store: name uniqueness, then the referenced type and tags.
func (s *PropertyService) validate(ctx context.Context, p *models.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}

	taken, err := s.propRepo.ExistsByName(ctx, p.Name, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return utils.ErrPropertyNameTaken
	}

	if p.PropertyTypeID != nil {
		t, err := s.typeRepo.GetByID(ctx, *p.PropertyTypeID)
		if err != nil {
			return err
		}
		if t == nil {
			return utils.ErrUnknownPropertyType
		}
	}
	if len(p.TagIDs) > 0 {
		n, err := s.tagRepo.CountByIDs(ctx, p.TagIDs)
		if err != nil {
			return err
		}
		if n != len(p.TagIDs) {
			return utils.ErrUnknownPropertyTag
		}
	}
	return nil
}

func applyPropertyUpdate(p *models.Property, req dtos.UpdatePropertyRequest, dateAvailability *time.Time) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Postcode != nil {
		p.Postcode = *req.Postcode
	}
	if dateAvailability != nil {
		p.DateAvailability = *dateAvailability
	}
	if req.ExpectedPrice != nil {
		p.ExpectedPrice = *req.ExpectedPrice
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.LivingArea != nil {
		p.LivingArea = *req.LivingArea
	}
	if req.Facades != nil {
		p.Facades = *req.Facades
	}
	if req.Garage != nil {
		p.Garage = *req.Garage
	}
	if req.Garden != nil {
		p.Garden = *req.Garden
	}
	if req.GardenArea != nil {
		p.GardenArea = *req.GardenArea
	}
	if req.GardenOrientation != nil {
		p.GardenOrientation = models.GardenOrientation(*req.GardenOrientation)
	}
	if req.ClearPropertyType {
		p.PropertyTypeID = nil
	} else if req.PropertyTypeID != nil {
		typeID := *req.PropertyTypeID
		p.PropertyTypeID = &typeID
	}
	if req.TagIDs != nil {
		p.TagIDs = dedupeIDs(*req.TagIDs)
	}
	if req.SalespersonID != nil {
		sp := *req.SalespersonID
		p.SalespersonID = &sp
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
