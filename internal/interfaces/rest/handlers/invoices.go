package handlers

import (
	"net/http"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// GetInvoice handles GET /api/v1/invoices/{invoiceKey}.
func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	var invoiceKey uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "invoiceKey", chi.URLParam(r, "invoiceKey"), &invoiceKey,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		rest.WriteError(w, r, application.NewInvalidInputError(err), h.logger)
		return
	}

	invoice, err := h.checkout.GetInvoice(r.Context(), invoiceKey)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToInvoiceResponse(invoice))
}
