package braintree

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("braintree error: %s (status: %d)", e.Message, e.StatusCode)
}

// IsValidationFailure reports whether the gateway rejected the sale itself,
// e.g. a consumed nonce, as opposed to failing to process it.
func (e *APIError) IsValidationFailure() bool {
	return e.StatusCode == 422
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
