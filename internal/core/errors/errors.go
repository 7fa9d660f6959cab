package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

const (
	HttpInternalError       = "internal_error"
	HttpInvalidRequestError = "invalid_request"
	HttpMappingError        = "mapping_error"
	HttpNotFoundError       = "not_found"
	HttpInsufficientData    = "insufficient_data"
	HttpRateLimitedError    = "rate_limited"
)

// ErrorResponse is the JSON error body of every endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// Detailer is implemented by domain errors that carry structured details.
type Detailer interface {
	Details() map[string]interface{}
}

// FromError maps a domain error onto a status code and error body. Errors that
// are not domain errors become a 500 with fallback as the message so internal
// causes are not leaked.
func FromError(err error, fallback string) (int, ErrorResponse) {
	var details interface{}
	var d Detailer
	if stderrors.As(err, &d) {
		if m := d.Details(); len(m) > 0 {
			details = m
		}
	}

	switch {
	case stderrors.Is(err, statement.ErrMapping):
		return http.StatusUnprocessableEntity, ErrorResponse{ErrorType: HttpMappingError, Message: err.Error(), Details: details}
	case stderrors.Is(err, statement.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{ErrorType: HttpNotFoundError, Message: err.Error(), Details: details}
	case stderrors.Is(err, statement.ErrIngestion):
		return http.StatusConflict, ErrorResponse{ErrorType: HttpInsufficientData, Message: err.Error(), Details: details}
	default:
		return http.StatusInternalServerError, ErrorResponse{ErrorType: HttpInternalError, Message: fallback}
	}
}

// InvalidRequest builds the 400 body for binding and validation failures.
func InvalidRequest(message string, details interface{}) (int, ErrorResponse) {
	return http.StatusBadRequest, ErrorResponse{ErrorType: HttpInvalidRequestError, Message: message, Details: details}
}
