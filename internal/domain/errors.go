package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code, so the sentinels below
// match any error built by the constructors.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

const (
	ErrCodeNoActivePaymentMethod     = "NO_ACTIVE_PAYMENT_METHOD"
	ErrCodeCheckoutNotFound          = "CHECKOUT_NOT_FOUND"
	ErrCodeOrderNotFound             = "ORDER_NOT_FOUND"
	ErrCodeOrderAlreadySettled       = "ORDER_ALREADY_SETTLED"
	ErrCodePaymentMethodUnavailable  = "PAYMENT_METHOD_UNAVAILABLE"
	ErrCodeProcessorNotRegistered    = "PROCESSOR_NOT_REGISTERED"
	ErrCodeInvalidTransition         = "INVALID_TRANSITION"
	ErrCodeInvalidAmount             = "INVALID_AMOUNT"
	ErrCodeMissingRequiredField      = "MISSING_REQUIRED_FIELD"
	ErrCodeConcurrentModification    = "CONCURRENT_MODIFICATION"
	ErrCodeDuplicateIdempotencyKey   = "DUPLICATE_IDEMPOTENCY_KEY"
	ErrCodeIdempotencyMismatch       = "IDEMPOTENCY_MISMATCH"
	ErrRequestProcessing             = "REQUEST_PROCESSING"
	ErrCodePaymentSequenceOutOfOrder = "PAYMENT_SEQUENCE_OUT_OF_ORDER"
)

var (
	ErrNoActivePaymentMethod    = &DomainError{Code: ErrCodeNoActivePaymentMethod, Message: "checkout has no active payment method"}
	ErrCheckoutNotFound         = &DomainError{Code: ErrCodeCheckoutNotFound, Message: "checkout not found"}
	ErrOrderNotFound            = &DomainError{Code: ErrCodeOrderNotFound, Message: "invoice not found"}
	ErrOrderAlreadySettled      = &DomainError{Code: ErrCodeOrderAlreadySettled, Message: "invoice is already paid"}
	ErrPaymentMethodUnavailable = &DomainError{Code: ErrCodePaymentMethodUnavailable, Message: "payment method is not available"}
	ErrProcessorNotRegistered   = &DomainError{Code: ErrCodeProcessorNotRegistered, Message: "no processor registered for provider"}
	ErrInvalidTransition        = &DomainError{Code: ErrCodeInvalidTransition, Message: "invalid invoice transition"}
	ErrConcurrentModification   = &DomainError{Code: ErrCodeConcurrentModification, Message: "invoice was modified concurrently"}
	ErrDuplicateIdempotencyKey  = &DomainError{Code: ErrCodeDuplicateIdempotencyKey, Message: "idempotency key already exists"}
)

func NewNoActivePaymentMethodError(checkoutID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNoActivePaymentMethod,
		Message: fmt.Sprintf("checkout %s is not at the payment stage", checkoutID),
	}
}

func NewCheckoutNotFoundError(checkoutID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCheckoutNotFound,
		Message: fmt.Sprintf("checkout %s not found", checkoutID),
	}
}

func NewOrderNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeOrderNotFound,
		Message: fmt.Sprintf("invoice with ID %s not found", id),
	}
}

func NewOrderAlreadySettledError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeOrderAlreadySettled,
		Message: fmt.Sprintf("invoice %s is already paid", id),
	}
}

func NewPaymentMethodUnavailableError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentMethodUnavailable,
		Message: fmt.Sprintf("payment method %s is missing or disabled", id),
	}
}

func NewProcessorNotRegisteredError(tag ProviderTag) *DomainError {
	return &DomainError{
		Code:    ErrCodeProcessorNotRegistered,
		Message: fmt.Sprintf("no processor registered for provider %q", tag),
	}
}

func NewInvalidTransitionError(from, to InvoiceStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewInvalidAmountError(amount int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %d", amount),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewConcurrentModificationError(id string, version int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeConcurrentModification,
		Message: fmt.Sprintf("invoice %s changed since version %d", id, version),
	}
}

func NewPaymentSequenceError(expected, actual int) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentSequenceOutOfOrder,
		Message: fmt.Sprintf("payment sequence out of order: expected %d, got %d", expected, actual),
	}
}

func NewDuplicateKeyError(key string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateIdempotencyKey,
		Message: fmt.Sprintf("idempotency key %s already exists", key),
	}
}

func NewIdempotencyMismatchError() *DomainError {
	return &DomainError{
		Code:    ErrCodeIdempotencyMismatch,
		Message: "idempotency key reused with different parameters",
	}
}

func NewRequestProcessingError() *DomainError {
	return &DomainError{
		Code:    ErrRequestProcessing,
		Message: "request is being processed",
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
