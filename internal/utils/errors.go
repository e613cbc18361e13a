package utils

import (
	"errors"
	"net/http"
)

var (
	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")
)

// ValidationError reports a record whose field values break a declarative
// invariant (price bounds, name length or uniqueness). The write is rejected.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// OperationError reports an action attempted in a lifecycle state that does
// not allow it, or an offer that violates the price ordering rules.
type OperationError struct {
	Code    string
	Message string
}

func (e *OperationError) Error() string { return e.Message }

// Property field invariants.
var (
	ErrExpectedPriceNotPositive = &ValidationError{Code: "expected_price_not_positive", Message: "Expected price must be strictly positive."}
	ErrSellingPriceNegative     = &ValidationError{Code: "selling_price_negative", Message: "Selling price cannot be negative."}
	ErrSellingPriceTooLow       = &ValidationError{Code: "selling_price_too_low", Message: "Selling price cannot be lower than 90% of the expected price."}
	ErrPropertyNameTooShort     = &ValidationError{Code: "property_name_too_short", Message: "Property name must have at least 3 characters."}
	ErrPropertyNameTaken        = &ValidationError{Code: "property_name_taken", Message: "Property name must be unique."}
	ErrInvalidGardenOrientation = &ValidationError{Code: "invalid_garden_orientation", Message: "Garden orientation must be north, south, east or west."}
	ErrUnknownPropertyType      = &ValidationError{Code: "unknown_property_type", Message: "Property type does not exist."}
	ErrUnknownPropertyTag       = &ValidationError{Code: "unknown_property_tag", Message: "One or more property tags do not exist."}
	ErrPropertyTypeNameRequired = &ValidationError{Code: "property_type_name_required", Message: "Property type name is required."}
	ErrPropertyTagNameRequired  = &ValidationError{Code: "property_tag_name_required", Message: "Property tag name is required."}
	ErrPropertyTagNameTaken     = &ValidationError{Code: "property_tag_name_taken", Message: "Property tag name must be unique."}
	ErrValidityAndDeadline      = &ValidationError{Code: "validity_and_deadline", Message: "Set either validity or date_deadline, not both."}
)

// Lifecycle and offer ordering rules.
var (
	ErrSellCanceledProperty  = &OperationError{Code: "sell_canceled_property", Message: "Canceled properties cannot be sold."}
	ErrCancelSoldProperty    = &OperationError{Code: "cancel_sold_property", Message: "Sold properties cannot be canceled."}
	ErrPropertyNotDeletable  = &OperationError{Code: "property_not_deletable", Message: "Only new or canceled properties can be deleted."}
	ErrAcceptOnSoldProperty  = &OperationError{Code: "accept_on_sold_property", Message: "Cannot accept an offer for a sold property."}
	ErrOfferPriceNotPositive = &OperationError{Code: "offer_price_not_positive", Message: "Offer price must be positive."}
	ErrOfferBelowMinimum     = &OperationError{Code: "offer_below_minimum", Message: "Offer must be at least 90% of the expected price."}
	ErrOfferNotHighest       = &OperationError{Code: "offer_not_highest", Message: "Offer must be higher than existing offers."}
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
