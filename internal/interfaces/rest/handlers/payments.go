package handlers

import (
	"net/http"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest"
)

// SubmitPayment handles POST /api/v1/checkout/payments. Declines are 200s
// with success=false; only requests that never reached a processor fail.
func (h *Handlers) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	id, err := checkoutID(r)
	if err != nil {
		rest.WriteError(w, r, application.NewInvalidInputError(err), h.logger)
		return
	}

	var req rest.SubmitPaymentRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.checkout.SubmitPayment(r.Context(), services.SubmitPaymentCommand{
		CheckoutID:      id,
		CredentialToken: req.CredentialToken,
	}, r.Header.Get(headerIdempotencyKey))
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, result)
}

// RetryPayment handles POST /api/v1/checkout/payments/retry.
func (h *Handlers) RetryPayment(w http.ResponseWriter, r *http.Request) {
	id, err := checkoutID(r)
	if err != nil {
		rest.WriteError(w, r, application.NewInvalidInputError(err), h.logger)
		return
	}

	var req rest.RetryPaymentRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.checkout.RetryPayment(r.Context(), services.RetryPaymentCommand{
		CheckoutID:      id,
		CredentialToken: req.CredentialToken,
		InvoiceID:       req.InvoiceKey,
	}, r.Header.Get(headerIdempotencyKey))
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, result)
}
