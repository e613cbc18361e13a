package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/utils"
)

type OfferService struct {
	offerRepo repositories.OfferRepository
	audit     auditLogger
	now       func() time.Time
}

func NewOfferService(
	offerRepo repositories.OfferRepository,
	auditRepo repositories.EstateAuditLogRepository,
) *OfferService {
	return &OfferService{
		offerRepo: offerRepo,
		audit:     auditLogger{repo: auditRepo},
		now:       time.Now,
	}
}

// CreateOffer prices a new offer against the locked property and its
// existing offers. A property still in "new" moves to "offer_received".
func (s *OfferService) CreateOffer(
	ctx context.Context,
	actorID uuid.UUID,
	propertyID uuid.UUID,
	req dtos.CreateOfferRequest,
) (*dtos.OfferActionResponse, error) {
	now := s.now()
	offer, prop, err := s.offerRepo.CreateAtomic(ctx, propertyID,
		func(prop *models.Property, existing []*models.Offer) (*models.Offer, error) {
			if err := models.CheckOfferPrice(req.Price, prop, existing); err != nil {
				return nil, err
			}
			o := models.NewOffer(prop, req.PartnerID, req.Price, req.Validity, now)
			prop.RegisterOffer()
			return o, nil
		})
	if err != nil {
		return nil, toAppError(err, "Property")
	}

	utils.Logger.WithField("property_id", propertyID).WithField("offer_id", offer.ID).
		Infof("Offer of %.2f registered", offer.Price)
	s.audit.record(ctx, actorID, models.AuditCreate, models.TargetOffer, offer.ID, req)
	return offerAction(offer, prop), nil
}

// AcceptOffer runs the acceptance cascade in one transaction: the property
// takes the offer's price and partner, the offer becomes accepted and every
// other offer of the property is refused.
func (s *OfferService) AcceptOffer(ctx context.Context, actorID, offerID uuid.UUID) (*dtos.OfferActionResponse, error) {
	offer, prop, err := s.offerRepo.MutateAtomic(ctx, offerID, models.AcceptOffer)
	if err != nil {
		return nil, toAppError(err, "Offer")
	}
	s.audit.record(ctx, actorID, models.AuditAccept, models.TargetOffer, offerID, map[string]any{
		"property_id":   prop.ID,
		"selling_price": prop.SellingPrice,
	})
	return offerAction(offer, prop), nil
}

// RefuseOffer only touches the offer itself.
func (s *OfferService) RefuseOffer(ctx context.Context, actorID, offerID uuid.UUID) (*dtos.OfferActionResponse, error) {
	offer, prop, err := s.offerRepo.MutateAtomic(ctx, offerID,
		func(_ *models.Property, o *models.Offer, _ []*models.Offer) error {
			o.Refuse()
			return nil
		})
	if err != nil {
		return nil, toAppError(err, "Offer")
	}
	s.audit.record(ctx, actorID, models.AuditRefuse, models.TargetOffer, offerID, nil)
	return offerAction(offer, prop), nil
}

// UpdateOffer re-prices an offer and/or moves its deadline. A new price is
// checked against the property's other offers; validity and date_deadline
// are one invertible pair and only one of them may drive a given update.
func (s *OfferService) UpdateOffer(
	ctx context.Context,
	actorID uuid.UUID,
	offerID uuid.UUID,
	req dtos.UpdateOfferRequest,
) (*dtos.Offer, error) {
	if req.Validity != nil && req.DateDeadline != nil {
		return nil, toAppError(utils.ErrValidityAndDeadline, "Offer")
	}
	var deadline *time.Time
	if req.DateDeadline != nil {
		d, err := parseDate("date_deadline", *req.DateDeadline)
		if err != nil {
			return nil, err
		}
		deadline = &d
	}

	offer, _, err := s.offerRepo.MutateAtomic(ctx, offerID,
		func(prop *models.Property, o *models.Offer, all []*models.Offer) error {
			if req.Price != nil {
				if err := models.CheckOfferPrice(*req.Price, prop, siblingsOf(o, all)); err != nil {
					return err
				}
				o.Price = *req.Price
			}
			switch {
			case req.Validity != nil:
				o.SetValidity(*req.Validity)
			case deadline != nil:
				o.SetDateDeadline(*deadline)
			}
			return nil
		})
	if err != nil {
		return nil, toAppError(err, "Offer")
	}
	s.audit.record(ctx, actorID, models.AuditUpdate, models.TargetOffer, offerID, req)

	out := dtos.NewOfferFromModel(offer)
	return &out, nil
}

func (s *OfferService) DeleteOffer(ctx context.Context, actorID, offerID uuid.UUID) error {
	if err := s.offerRepo.Delete(ctx, offerID); err != nil {
		return toAppError(err, "Offer")
	}
	s.audit.record(ctx, actorID, models.AuditDelete, models.TargetOffer, offerID, nil)
	return nil
}

func siblingsOf(o *models.Offer, all []*models.Offer) []*models.Offer {
	out := make([]*models.Offer, 0, len(all))
	for _, other := range all {
		if other.ID != o.ID {
			out = append(out, other)
		}
	}
	return out
}

func offerAction(o *models.Offer, p *models.Property) *dtos.OfferActionResponse {
	return &dtos.OfferActionResponse{
		Offer:    dtos.NewOfferFromModel(o),
		Property: dtos.NewPropertyFromModel(p),
	}
}
