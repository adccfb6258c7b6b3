// Package braintree takes wallet payments, such as PayPal one-time checkout,
// through the Braintree gateway as a single submit-for-settlement sale.
package braintree

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

const Tag domain.ProviderTag = "braintree"

const missingNonceMessage = "The PayPal authorization is missing. Please approve the payment again."

type Processor struct {
	client        *Client
	credentialArg string
	schema        *argumentSchema
	logger        *slog.Logger
}

// NewProcessor reads the nonce from credentialArg, or NonceArg when empty.
func NewProcessor(client *Client, credentialArg string, logger *slog.Logger) (*Processor, error) {
	if credentialArg == "" {
		credentialArg = NonceArg
	}
	schema, err := newArgumentSchema(credentialArg)
	if err != nil {
		return nil, err
	}
	return &Processor{
		client:        client,
		credentialArg: credentialArg,
		schema:        schema,
		logger:        logger,
	}, nil
}

func (p *Processor) Tag() domain.ProviderTag {
	return Tag
}

func (p *Processor) AuthorizeCapture(ctx context.Context, req application.ProcessorRequest) (*application.ProcessorResult, error) {
	violations, err := p.schema.Validate(req.Args)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		p.logger.WarnContext(ctx, "rejected braintree arguments",
			"payment_id", req.PaymentID,
			"violations", formatViolations(violations))
		return &application.ProcessorResult{ErrorMessage: missingNonceMessage}, nil
	}
	nonce, _ := req.Args.Get(p.credentialArg)

	orderID := req.InvoiceID.String()
	if req.InvoiceNumber > 0 {
		orderID = strconv.FormatInt(req.InvoiceNumber, 10)
	}

	tx, err := p.client.Sale(ctx, saleRequest{
		Transaction: transactionRequest{
			Type:               "sale",
			Amount:             FormatAmount(req.Amount),
			PaymentMethodNonce: nonce,
			OrderID:            orderID,
			Options:            transactionOptions{SubmitForSettlement: true},
		},
	})
	if err != nil {
		if apiErr, ok := IsAPIError(err); ok && apiErr.IsValidationFailure() {
			return &application.ProcessorResult{ErrorMessage: apiErr.Message}, nil
		}
		return nil, err
	}

	if !tx.Settling() {
		return &application.ProcessorResult{
			ReferenceID:  tx.ID,
			ErrorMessage: tx.ProcessorResponseText,
		}, nil
	}
	return &application.ProcessorResult{
		Accepted:    true,
		ReferenceID: tx.ID,
	}, nil
}

// FormatAmount renders minor units as the decimal string Braintree expects.
func FormatAmount(m domain.Money) string {
	return decimal.New(m.Amount, -2).StringFixed(2)
}
