package routes

const (
	// Health
	Health = "/health"

	EstateBase = "/api/v1/estate"

	// Properties
	Properties               = "/api/v1/estate/properties"
	Property                 = "/api/v1/estate/properties/{id}"
	PropertySell             = "/api/v1/estate/properties/{id}/sell"
	PropertyCancel           = "/api/v1/estate/properties/{id}/cancel"
	PropertyOffers           = "/api/v1/estate/properties/{id}/offers"
	PropertyGardenSuggestion = "/api/v1/estate/properties/garden-suggestion"

	// Offers
	Offer       = "/api/v1/estate/offers/{id}"
	OfferAccept = "/api/v1/estate/offers/{id}/accept"
	OfferRefuse = "/api/v1/estate/offers/{id}/refuse"

	// Property types and tags
	PropertyTypes      = "/api/v1/estate/property-types"
	PropertyType       = "/api/v1/estate/property-types/{id}"
	PropertyTypeOffers = "/api/v1/estate/property-types/{id}/offers"
	PropertyTags       = "/api/v1/estate/property-tags"
)
