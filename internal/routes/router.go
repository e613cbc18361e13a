package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/poofware/estate-service/internal/controllers"
)

type Controllers struct {
	Health       *controllers.HealthController
	Property     *controllers.PropertyController
	Offer        *controllers.OfferController
	PropertyType *controllers.PropertyTypeController
}

// NewRouter mounts /health publicly and every estate route behind auth.
func NewRouter(c Controllers, auth func(http.Handler) http.Handler) *mux.Router {
	router := mux.NewRouter()

	// Public
	router.HandleFunc(Health, c.Health.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(auth)

	// Static paths are registered before {id} so they are not captured by it.
	secured.HandleFunc(PropertyGardenSuggestion, c.Property.GardenSuggestionHandler).Methods(http.MethodPost)
	secured.HandleFunc(Properties, c.Property.ListPropertiesHandler).Methods(http.MethodGet)
	secured.HandleFunc(Properties, c.Property.CreatePropertyHandler).Methods(http.MethodPost)
	secured.HandleFunc(Property, c.Property.GetPropertyHandler).Methods(http.MethodGet)
	secured.HandleFunc(Property, c.Property.UpdatePropertyHandler).Methods(http.MethodPatch)
	secured.HandleFunc(Property, c.Property.DeletePropertyHandler).Methods(http.MethodDelete)
	secured.HandleFunc(PropertySell, c.Property.SellPropertyHandler).Methods(http.MethodPost)
	secured.HandleFunc(PropertyCancel, c.Property.CancelPropertyHandler).Methods(http.MethodPost)
	secured.HandleFunc(PropertyOffers, c.Property.ListPropertyOffersHandler).Methods(http.MethodGet)
	secured.HandleFunc(PropertyOffers, c.Offer.CreateOfferHandler).Methods(http.MethodPost)

	secured.HandleFunc(Offer, c.Offer.UpdateOfferHandler).Methods(http.MethodPatch)
	secured.HandleFunc(Offer, c.Offer.DeleteOfferHandler).Methods(http.MethodDelete)
	secured.HandleFunc(OfferAccept, c.Offer.AcceptOfferHandler).Methods(http.MethodPost)
	secured.HandleFunc(OfferRefuse, c.Offer.RefuseOfferHandler).Methods(http.MethodPost)

	secured.HandleFunc(PropertyTypes, c.PropertyType.ListPropertyTypesHandler).Methods(http.MethodGet)
	secured.HandleFunc(PropertyTypes, c.PropertyType.CreatePropertyTypeHandler).Methods(http.MethodPost)
	secured.HandleFunc(PropertyType, c.PropertyType.GetPropertyTypeHandler).Methods(http.MethodGet)
	secured.HandleFunc(PropertyType, c.PropertyType.UpdatePropertyTypeHandler).Methods(http.MethodPatch)
	secured.HandleFunc(PropertyTypeOffers, c.PropertyType.ListPropertyTypeOffersHandler).Methods(http.MethodGet)
	secured.HandleFunc(PropertyTags, c.PropertyType.ListPropertyTagsHandler).Methods(http.MethodGet)
	secured.HandleFunc(PropertyTags, c.PropertyType.CreatePropertyTagHandler).Methods(http.MethodPost)

	return router
}
