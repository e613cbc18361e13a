package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferLifecycle(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Seaside Villa", 100)

	first := f.createOffer(t, p.ID, 95)
	assert.Equal(t, string(models.PropertyStateOfferReceived), first.Property.State)
	assert.Equal(t, 95.0, first.Property.BestPrice)
	assert.Equal(t, models.DefaultOfferValidityDays, first.Offer.Validity)
	assert.Equal(t, "2025-03-17", first.Offer.DateDeadline)
	assert.Empty(t, first.Offer.Status)

	_, err := f.offers.CreateOffer(f.ctx, f.actor, p.ID, dtos.CreateOfferRequest{PartnerID: uuid.New(), Price: 90})
	requireAppError(t, err, http.StatusConflict, "offer_not_highest")

	second := f.createOffer(t, p.ID, 100)
	assert.Equal(t, 100.0, second.Property.BestPrice)

	accepted, err := f.offers.AcceptOffer(f.ctx, f.actor, second.Offer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.OfferStatusAccepted), accepted.Offer.Status)
	assert.Equal(t, string(models.PropertyStateOfferAccepted), accepted.Property.State)
	assert.Equal(t, 100.0, accepted.Property.SellingPrice)
	require.NotNil(t, accepted.Property.BuyerID)
	assert.Equal(t, second.Offer.PartnerID, *accepted.Property.BuyerID)

	offers, err := f.properties.ListPropertyOffers(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, offers.Offers, 2)
	// highest price first
	assert.Equal(t, second.Offer.ID, offers.Offers[0].ID)
	assert.Equal(t, string(models.OfferStatusAccepted), offers.Offers[0].Status)
	assert.Equal(t, string(models.OfferStatusRefused), offers.Offers[1].Status)

	// Re-accepting the same offer is harmless.
	again, err := f.offers.AcceptOffer(f.ctx, f.actor, second.Offer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.PropertyStateOfferAccepted), again.Property.State)

	sold, err := f.properties.SellProperty(f.ctx, f.actor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.PropertyStateSold), sold.State)

	_, err = f.offers.AcceptOffer(f.ctx, f.actor, first.Offer.ID)
	requireAppError(t, err, http.StatusConflict, "accept_on_sold_property")
}

func TestCreateOfferPriceRules(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Seaside Villa", 100)

	_, err := f.offers.CreateOffer(f.ctx, f.actor, p.ID, dtos.CreateOfferRequest{PartnerID: uuid.New(), Price: 0})
	requireAppError(t, err, http.StatusConflict, "offer_price_not_positive")

	_, err = f.offers.CreateOffer(f.ctx, f.actor, p.ID, dtos.CreateOfferRequest{PartnerID: uuid.New(), Price: 89.99})
	requireAppError(t, err, http.StatusConflict, "offer_below_minimum")

	f.createOffer(t, p.ID, 95)
	_, err = f.offers.CreateOffer(f.ctx, f.actor, p.ID, dtos.CreateOfferRequest{PartnerID: uuid.New(), Price: 95})
	requireAppError(t, err, http.StatusConflict, "offer_not_highest")

	got, err := f.properties.GetProperty(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 95.0, got.BestPrice)
}

func TestCreateOfferUnknownProperty(t *testing.T) {
	f := newFixture(t)
	_, err := f.offers.CreateOffer(f.ctx, f.actor, uuid.New(), dtos.CreateOfferRequest{PartnerID: uuid.New(), Price: 10})
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestCreateOfferInheritsPropertyType(t *testing.T) {
	f := newFixture(t)
	house, err := f.types.CreatePropertyType(f.ctx, f.actor, dtos.CreatePropertyTypeRequest{Name: "House"})
	require.NoError(t, err)
	p, err := f.properties.CreateProperty(f.ctx, f.actor, dtos.CreatePropertyRequest{
		Name: "Seaside Villa", ExpectedPrice: 100, PropertyTypeID: &house.ID,
	})
	require.NoError(t, err)

	res := f.createOffer(t, p.ID, 95)
	require.NotNil(t, res.Offer.PropertyTypeID)
	assert.Equal(t, house.ID, *res.Offer.PropertyTypeID)

	offers, err := f.types.ListPropertyTypeOffers(f.ctx, house.ID)
	require.NoError(t, err)
	require.Len(t, offers.Offers, 1)
	assert.Equal(t, res.Offer.ID, offers.Offers[0].ID)
}

func TestAcceptOfferBelowFloorChangesNothing(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Seaside Villa", 100)
	offer := f.createOffer(t, p.ID, 95).Offer

	_, err := f.properties.UpdateProperty(f.ctx, f.actor, p.ID, dtos.UpdatePropertyRequest{ExpectedPrice: utils.Ptr(200.0)})
	require.NoError(t, err)

	_, err = f.offers.AcceptOffer(f.ctx, f.actor, offer.ID)
	requireAppError(t, err, http.StatusBadRequest, "selling_price_too_low")

	got, err := f.properties.GetProperty(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.PropertyStateOfferReceived), got.State)
	assert.Zero(t, got.SellingPrice)
	assert.Nil(t, got.BuyerID)

	offers, err := f.properties.ListPropertyOffers(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, offers.Offers, 1)
	assert.Empty(t, offers.Offers[0].Status)
}

func TestRefuseOfferLeavesPropertyAlone(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Seaside Villa", 100)
	offer := f.createOffer(t, p.ID, 95).Offer

	res, err := f.offers.RefuseOffer(f.ctx, f.actor, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.OfferStatusRefused), res.Offer.Status)
	assert.Equal(t, string(models.PropertyStateOfferReceived), res.Property.State)
	assert.Zero(t, res.Property.SellingPrice)

	_, err = f.offers.RefuseOffer(f.ctx, f.actor, uuid.New())
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestUpdateOfferValidityAndDeadline(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Seaside Villa", 100)
	offer := f.createOffer(t, p.ID, 95).Offer

	updated, err := f.offers.UpdateOffer(f.ctx, f.actor, offer.ID, dtos.UpdateOfferRequest{Validity: utils.Ptr(14)})
	require.NoError(t, err)
	assert.Equal(t, 14, updated.Validity)
	assert.Equal(t, "2025-03-24", updated.DateDeadline)

	updated, err = f.offers.UpdateOffer(f.ctx, f.actor, offer.ID, dtos.UpdateOfferRequest{DateDeadline: utils.Ptr("2025-03-30")})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Validity)
	assert.Equal(t, "2025-03-30", updated.DateDeadline)

	// A deadline before the creation day gives a negative validity.
	updated, err = f.offers.UpdateOffer(f.ctx, f.actor, offer.ID, dtos.UpdateOfferRequest{DateDeadline: utils.Ptr("2025-03-08")})
	require.NoError(t, err)
	assert.Equal(t, -2, updated.Validity)

	_, err = f.offers.UpdateOffer(f.ctx, f.actor, offer.ID, dtos.UpdateOfferRequest{
		Validity:     utils.Ptr(3),
		DateDeadline: utils.Ptr("2025-03-30"),
	})
	requireAppError(t, err, http.StatusBadRequest, "validity_and_deadline")
}

func TestUpdateOfferPriceIgnoresItself(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Seaside Villa", 100)
	low := f.createOffer(t, p.ID, 92).Offer
	high := f.createOffer(t, p.ID, 96).Offer

	raised, err := f.offers.UpdateOffer(f.ctx, f.actor, high.ID, dtos.UpdateOfferRequest{Price: utils.Ptr(97.0)})
	require.NoError(t, err)
	assert.Equal(t, 97.0, raised.Price)

	_, err = f.offers.UpdateOffer(f.ctx, f.actor, low.ID, dtos.UpdateOfferRequest{Price: utils.Ptr(93.0)})
	requireAppError(t, err, http.StatusConflict, "offer_not_highest")
}

func TestDeleteOffer(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Seaside Villa", 100)
	offer := f.createOffer(t, p.ID, 95).Offer

	require.NoError(t, f.offers.DeleteOffer(f.ctx, f.actor, offer.ID))
	err := f.offers.DeleteOffer(f.ctx, f.actor, offer.ID)
	requireAppError(t, err, http.StatusNotFound, "")

	got, err := f.properties.GetProperty(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.BestPrice)
	// the state reached through the offer stays
	assert.Equal(t, string(models.PropertyStateOfferReceived), got.State)
}
