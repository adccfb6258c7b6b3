package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return application.NewInvalidInputError(errors.New("request body is required"))
		}
		return application.NewInvalidInputError(fmt.Errorf("malformed request body: %w", err))
	}
	return nil
}

type SubmitPaymentRequest struct {
	CredentialToken string `json:"credentialToken"`
}

type RetryPaymentRequest struct {
	CredentialToken string    `json:"credentialToken"`
	InvoiceKey      uuid.UUID `json:"invoiceKey"`
}

type PaymentMethodResponse struct {
	ID       uuid.UUID `json:"id"`
	Key      string    `json:"key"`
	Provider string    `json:"provider"`
	Variant  string    `json:"variant,omitempty"`
	Name     string    `json:"name"`
}

type PaymentFormResponse struct {
	PaymentMethod PaymentMethodResponse `json:"paymentMethod"`
	CustomerID    string                `json:"customerId"`
	InvoiceKey    uuid.UUID             `json:"invoiceKey"`
	AmountDue     string                `json:"amountDue"`
	Currency      string                `json:"currency"`
}

type PaymentResponse struct {
	PaymentKey         uuid.UUID `json:"paymentKey"`
	Sequence           int       `json:"sequence"`
	Provider           string    `json:"provider"`
	Amount             string    `json:"amount"`
	Currency           string    `json:"currency"`
	Success            bool      `json:"success"`
	ProcessorReference string    `json:"processorReference,omitempty"`
	FailureKind        string    `json:"failureKind,omitempty"`
	Message            string    `json:"message,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

type InvoiceResponse struct {
	InvoiceKey    uuid.UUID         `json:"invoiceKey"`
	InvoiceNumber int64             `json:"invoiceNumber"`
	CustomerID    string            `json:"customerId"`
	Status        string            `json:"status"`
	Total         string            `json:"total"`
	AmountDue     string            `json:"amountDue"`
	Currency      string            `json:"currency"`
	Payments      []PaymentResponse `json:"payments"`
}

// FormatCents renders minor units with two decimal places.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func ToPaymentFormResponse(form *services.PaymentForm) PaymentFormResponse {
	return PaymentFormResponse{
		PaymentMethod: toPaymentMethodResponse(form.Method),
		CustomerID:    form.CustomerID,
		InvoiceKey:    form.InvoiceID,
		AmountDue:     FormatCents(form.AmountDue.Amount),
		Currency:      form.AmountDue.Currency,
	}
}

func toPaymentMethodResponse(m *domain.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:       m.ID,
		Key:      m.Key(),
		Provider: string(m.ProviderTag),
		Variant:  m.Variant,
		Name:     m.Name,
	}
}

func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	payments := make([]PaymentResponse, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, toPaymentResponse(p))
	}

	return InvoiceResponse{
		InvoiceKey:    inv.ID,
		InvoiceNumber: inv.Number,
		CustomerID:    inv.CustomerID,
		Status:        string(inv.Status),
		Total:         FormatCents(inv.TotalCents()),
		AmountDue:     FormatCents(inv.AmountDue().Amount),
		Currency:      inv.Currency,
		Payments:      payments,
	}
}

func toPaymentResponse(p domain.PaymentRecord) PaymentResponse {
	resp := PaymentResponse{
		PaymentKey: p.ID,
		Sequence:   p.Sequence,
		Provider:   string(p.ProviderTag),
		Amount:     FormatCents(p.AmountCents),
		Currency:   p.Currency,
		Success:    p.Success,
		CreatedAt:  p.CreatedAt,
	}
	if p.ProcessorReference != nil {
		resp.ProcessorReference = *p.ProcessorReference
	}
	if p.Failure != nil {
		resp.FailureKind = string(p.Failure.Kind)
		resp.Message = p.Failure.Message
	}
	return resp
}
