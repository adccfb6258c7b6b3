package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
)

// ErrorCategory represents the nature of an error for logging and alerting
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if errors.Is(err, domain.ErrNoActivePaymentMethod) ||
		errors.Is(err, domain.ErrOrderAlreadySettled) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrPaymentMethodUnavailable) {
		return CategoryBusinessRule
	}

	if errors.Is(err, domain.ErrOrderNotFound) ||
		errors.Is(err, domain.ErrCheckoutNotFound) ||
		domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField) ||
		domain.IsErrorCode(err, domain.ErrCodeIdempotencyMismatch) {
		return CategoryClientError
	}

	if errors.Is(err, domain.ErrConcurrentModification) ||
		domain.IsErrorCode(err, domain.ErrRequestProcessing) {
		return CategoryTransient
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput:
			return CategoryClientError
		case ErrCodeInvalidCheckoutStage:
			return CategoryBusinessRule
		case ErrCodeTimeout:
			return CategoryTransient
		}
	}

	return CategoryInfrastructure
}

// ClassifyProcessorError turns a processor fault into a failure detail. Every
// fault is UNAVAILABLE; declines arrive as results, not errors.
func ClassifyProcessorError(err error) domain.FailureDetail {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.FailureDetail{Kind: domain.FailureUnavailable, Message: "payment processor timed out"}
	case errors.Is(err, context.Canceled):
		return domain.FailureDetail{Kind: domain.FailureUnavailable, Message: "payment was cancelled before the processor answered"}
	}
	return domain.FailureDetail{Kind: domain.FailureUnavailable, Message: err.Error()}
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch {
	case errors.Is(err, domain.ErrNoActivePaymentMethod),
		errors.Is(err, domain.ErrOrderAlreadySettled),
		errors.Is(err, domain.ErrConcurrentModification),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrCheckoutNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrPaymentMethodUnavailable):
		return http.StatusUnprocessableEntity

	case domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField),
		domain.IsErrorCode(err, domain.ErrCodeInvalidAmount),
		domain.IsErrorCode(err, domain.ErrCodeIdempotencyMismatch):
		return http.StatusBadRequest

	case domain.IsErrorCode(err, domain.ErrRequestProcessing):
		return http.StatusAccepted

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	if errors.Is(err, domain.ErrNoActivePaymentMethod) {
		return ErrCodeInvalidCheckoutStage
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}
