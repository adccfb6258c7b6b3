package services

import (
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
)

// PaymentResult is the wire result of a payment submission.
type PaymentResult struct {
	Success    bool      `json:"success"`
	InvoiceKey uuid.UUID `json:"invoiceKey"`
	PaymentKey uuid.UUID `json:"paymentKey"`
	Messages   []string  `json:"messages"`
}

// Project maps an outcome to its wire result. Messages is empty on success
// and holds exactly one message on failure.
func Project(outcome *domain.TransactionOutcome) PaymentResult {
	if outcome == nil {
		return PaymentResult{Messages: []string{domain.DefaultFailureMessage}}
	}

	result := PaymentResult{
		Success:    outcome.Success,
		InvoiceKey: outcome.Payment.InvoiceID,
		PaymentKey: outcome.Payment.ID,
		Messages:   []string{},
	}
	if outcome.Invoice != nil {
		result.InvoiceKey = outcome.Invoice.ID
	}

	if !outcome.Success {
		msg := domain.DefaultFailureMessage
		if outcome.Failure != nil && outcome.Failure.Message != "" {
			msg = outcome.Failure.Message
		}
		result.Messages = []string{msg}
	}
	return result
}
