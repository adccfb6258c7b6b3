package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

const (
	headerCheckoutID     = "X-Checkout-ID"
	headerIdempotencyKey = "Idempotency-Key"
)

// CheckoutService is the part of services.PaymentService the HTTP layer uses.
type CheckoutService interface {
	SubmitPayment(ctx context.Context, cmd services.SubmitPaymentCommand, idempotencyKey string) (*services.PaymentResult, error)
	RetryPayment(ctx context.Context, cmd services.RetryPaymentCommand, idempotencyKey string) (*services.PaymentResult, error)
	PaymentForm(ctx context.Context, checkoutID string) (*services.PaymentForm, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
}

type Handlers struct {
	checkout CheckoutService
	logger   *slog.Logger
}

func NewHandlers(checkout CheckoutService, logger *slog.Logger) *Handlers {
	return &Handlers{
		checkout: checkout,
		logger:   logger,
	}
}

var _ CheckoutService = (*services.PaymentService)(nil)

func checkoutID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", headerCheckoutID, r.Header.Get(headerCheckoutID), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
	return id, err
}
