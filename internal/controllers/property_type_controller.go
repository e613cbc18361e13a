package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/services"
	"github.com/poofware/estate-service/internal/utils"
)

type PropertyTypeController struct {
	typeService *services.PropertyTypeService
	tagService  *services.PropertyTagService
	validate    *validator.Validate
}

func NewPropertyTypeController(types *services.PropertyTypeService, tags *services.PropertyTagService) *PropertyTypeController {
	return &PropertyTypeController{
		typeService: types,
		tagService:  tags,
		validate:    validator.New(),
	}
}

// GET /api/v1/estate/property-types
func (c *PropertyTypeController) ListPropertyTypesHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.typeService.ListPropertyTypes(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/estate/property-types
func (c *PropertyTypeController) CreatePropertyTypeHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreatePropertyTypeRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	t, err := c.typeService.CreatePropertyType(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, t)
}

// GET /api/v1/estate/property-types/{id}
func (c *PropertyTypeController) GetPropertyTypeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	t, err := c.typeService.GetPropertyType(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

// PATCH /api/v1/estate/property-types/{id}
func (c *PropertyTypeController) UpdatePropertyTypeHandler(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndPathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdatePropertyTypeRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	t, err := c.typeService.UpdatePropertyType(r.Context(), actor, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

// GET /api/v1/estate/property-types/{id}/offers
func (c *PropertyTypeController) ListPropertyTypeOffersHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	resp, err := c.typeService.ListPropertyTypeOffers(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/estate/property-tags
func (c *PropertyTypeController) ListPropertyTagsHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.tagService.ListPropertyTags(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/estate/property-tags
func (c *PropertyTypeController) CreatePropertyTagHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreatePropertyTagRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	tag, err := c.tagService.CreatePropertyTag(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, tag)
}
