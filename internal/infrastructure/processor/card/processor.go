// Package card authorizes and captures card payments against the bank API.
package card

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
)

const Tag domain.ProviderTag = "card"

const voidTimeout = 30 * time.Second

type Options struct {
	CredentialArg string
	VoidRetries   int
	VoidBaseDelay time.Duration
}

type Processor struct {
	client        *Client
	credentialArg string
	voidPolicy    backoffPolicy
	logger        *slog.Logger
}

func NewProcessor(client *Client, opts Options, logger *slog.Logger) *Processor {
	return &Processor{
		client:        client,
		credentialArg: opts.CredentialArg,
		voidPolicy: backoffPolicy{
			baseDelay:  opts.VoidBaseDelay,
			maxRetries: opts.VoidRetries,
		},
		logger: logger,
	}
}

func (p *Processor) Tag() domain.ProviderTag {
	return Tag
}

// AuthorizeCapture runs authorize then capture. A capture that does not go
// through releases the hold with a void so the customer is never left with
// an authorized but unpaid charge.
func (p *Processor) AuthorizeCapture(ctx context.Context, req application.ProcessorRequest) (*application.ProcessorResult, error) {
	token, _ := req.Args.Get(p.credentialArg)
	if token == "" {
		return &application.ProcessorResult{ErrorMessage: "A card is required"}, nil
	}

	auth, err := p.client.Authorize(ctx, AuthorizationRequest{
		Amount:    req.Amount.Amount,
		Currency:  req.Amount.Currency,
		CardToken: token,
		Reference: req.InvoiceID.String(),
	}, req.PaymentID.String()+":auth")
	if err != nil {
		return declineOrError(err)
	}

	capture, err := p.client.Capture(ctx, CaptureRequest{
		Amount:          req.Amount.Amount,
		AuthorizationID: auth.AuthorizationID,
	}, req.PaymentID.String()+":capture")
	if err != nil {
		p.void(ctx, req, auth.AuthorizationID)
		return declineOrError(err)
	}

	return &application.ProcessorResult{
		Accepted:    true,
		ReferenceID: capture.CaptureID,
	}, nil
}

func (p *Processor) void(ctx context.Context, req application.ProcessorRequest, authorizationID string) {
	voidCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), voidTimeout)
	defer cancel()

	_, err := retry(voidCtx, p.voidPolicy, func(ctx context.Context) (*VoidResponse, error) {
		return p.client.Void(ctx, VoidRequest{AuthorizationID: authorizationID}, req.PaymentID.String()+":void")
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to void authorization after capture failure",
			"payment_id", req.PaymentID,
			"invoice_id", req.InvoiceID,
			"authorization_id", authorizationID,
			"error", err)
		return
	}
	p.logger.InfoContext(ctx, "authorization voided",
		"payment_id", req.PaymentID,
		"authorization_id", authorizationID)
}

func declineOrError(err error) (*application.ProcessorResult, error) {
	if bankErr, ok := IsBankError(err); ok && bankErr.IsDecline() {
		return &application.ProcessorResult{ErrorMessage: DeclineMessage(bankErr)}, nil
	}
	return nil, err
}
