package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/services"
	"github.com/poofware/estate-service/internal/utils"
)

type PropertyController struct {
	propertyService *services.PropertyService
	validate        *validator.Validate
}

func NewPropertyController(s *services.PropertyService) *PropertyController {
	return &PropertyController{
		propertyService: s,
		validate:        validator.New(),
	}
}

// GET /api/v1/estate/properties[?include_inactive=true]
func (c *PropertyController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	resp, err := c.propertyService.ListProperties(r.Context(), includeInactive)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/estate/properties
func (c *PropertyController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreatePropertyHandler")

	actor, err := actorID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreatePropertyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	prop, err := c.propertyService.CreateProperty(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("propertyID", prop.ID).Info("Property created")
	utils.RespondWithJSON(w, http.StatusCreated, prop)
}

// GET /api/v1/estate/properties/{id}
func (c *PropertyController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	prop, err := c.propertyService.GetProperty(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}

// PATCH /api/v1/estate/properties/{id}
func (c *PropertyController) UpdatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}

	var req dtos.UpdatePropertyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	prop, err := c.propertyService.UpdateProperty(r.Context(), actor, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}

// DELETE /api/v1/estate/properties/{id}
func (c *PropertyController) DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}
	if err := c.propertyService.DeleteProperty(r.Context(), actor, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/estate/properties/{id}/sell
func (c *PropertyController) SellPropertyHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}
	prop, err := c.propertyService.SellProperty(r.Context(), actor, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}

// POST /api/v1/estate/properties/{id}/cancel
func (c *PropertyController) CancelPropertyHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}
	prop, err := c.propertyService.CancelProperty(r.Context(), actor, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}

// GET /api/v1/estate/properties/{id}/offers
func (c *PropertyController) ListPropertyOffersHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	resp, err := c.propertyService.ListPropertyOffers(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/estate/properties/garden-suggestion
func (c *PropertyController) GardenSuggestionHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.GardenSuggestionRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c.propertyService.SuggestGarden(req))
}
