package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// OfferDeadlineService reports unanswered offers whose deadline has passed.
// It only reads; expired offers keep their status.
type OfferDeadlineService struct {
	offerRepo repositories.OfferRepository
	now       func() time.Time
}

func NewOfferDeadlineService(offerRepo repositories.OfferRepository) *OfferDeadlineService {
	return &OfferDeadlineService{offerRepo: offerRepo, now: time.Now}
}

// ReportExpiredOffers logs one line per property with expired open offers
// and returns the per-property counts.
func (s *OfferDeadlineService) ReportExpiredOffers(ctx context.Context) (map[uuid.UUID]int, error) {
	today := utils.DateOnly(s.now())
	offers, err := s.offerRepo.ListOpenPastDeadline(ctx, today)
	if err != nil {
		utils.Logger.WithError(err).Error("Offer deadline report: failed to list expired offers")
		return nil, err
	}

	total := 0
	counts := make(map[uuid.UUID]int)
	oldest := make(map[uuid.UUID]time.Time)
	for _, o := range offers {
		if !o.IsExpired(today) {
			continue
		}
		total++
		counts[o.PropertyID]++
		if d, ok := oldest[o.PropertyID]; !ok || o.DateDeadline.Before(d) {
			oldest[o.PropertyID] = o.DateDeadline
		}
	}

	for propertyID, n := range counts {
		utils.Logger.WithFields(logrus.Fields{
			"property_id":     propertyID,
			"expired_offers":  n,
			"oldest_deadline": oldest[propertyID].Format("2006-01-02"),
		}).Warn("Property has open offers past their deadline")
	}
	utils.Logger.Infof("Offer deadline report done: %d expired offers across %d properties", total, len(counts))
	return counts, nil
}
