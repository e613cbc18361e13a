package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/services"
	"github.com/poofware/estate-service/internal/utils"
)

type OfferController struct {
	offerService *services.OfferService
	validate     *validator.Validate
}

func NewOfferController(s *services.OfferService) *OfferController {
	return &OfferController{
		offerService: s,
		validate:     validator.New(),
	}
}

// POST /api/v1/estate/properties/{id}/offers
func (c *OfferController) CreateOfferHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateOfferHandler")

	actor, propertyID, ok := actorAndPathID(w, r)
	if !ok {
		return
	}

	var req dtos.CreateOfferRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	resp, err := c.offerService.CreateOffer(r.Context(), actor, propertyID, req)
	if err != nil {
		logger.WithError(err).Warn("Offer rejected")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// PATCH /api/v1/estate/offers/{id}
func (c *OfferController) UpdateOfferHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}

	var req dtos.UpdateOfferRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	offer, err := c.offerService.UpdateOffer(r.Context(), actor, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, offer)
}

// DELETE /api/v1/estate/offers/{id}
func (c *OfferController) DeleteOfferHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}
	if err := c.offerService.DeleteOffer(r.Context(), actor, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/estate/offers/{id}/accept
func (c *OfferController) AcceptOfferHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}
	resp, err := c.offerService.AcceptOffer(r.Context(), actor, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.Logger.WithField("offerID", id).WithField("propertyID", resp.Property.ID).Info("Offer accepted")
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/estate/offers/{id}/refuse
func (c *OfferController) RefuseOfferHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}
	resp, err := c.offerService.RefuseOffer(r.Context(), actor, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
