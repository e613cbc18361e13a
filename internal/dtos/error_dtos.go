package dtos

// ValidationErrorDetail is one field failure from request-shape validation.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// DomainErrorDetail names the business rule behind a validation_error or
// operation_not_allowed response.
type DomainErrorDetail struct {
	Reason string `json:"reason"`
}
