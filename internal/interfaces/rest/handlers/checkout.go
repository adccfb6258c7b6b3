package handlers

import (
	"net/http"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest"
)

// GetPaymentForm handles GET /api/v1/checkout/payment-method.
func (h *Handlers) GetPaymentForm(w http.ResponseWriter, r *http.Request) {
	id, err := checkoutID(r)
	if err != nil {
		rest.WriteError(w, r, application.NewInvalidInputError(err), h.logger)
		return
	}

	form, err := h.checkout.PaymentForm(r.Context(), id)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentFormResponse(form))
}
